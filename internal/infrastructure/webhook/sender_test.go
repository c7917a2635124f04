package webhook

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/storefront-gate/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *domain.Notification {
	return &domain.Notification{
		ID:        "01HZY0000000000000000000AA",
		SubjectID: "admin1",
		Subject:   "Admin access code",
		Body:      "OTP for admin1: 123456",
		CreatedAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestSender_PostsJSON(t *testing.T) {
	var got map[string]any
	var gotHeader http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Clone()
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	s := NewSender(srv.URL, time.Second)
	require.NoError(t, s.Send(context.Background(), sample()))

	assert.Equal(t, "application/json", gotHeader.Get("Content-Type"))
	assert.Equal(t, "01HZY0000000000000000000AA", gotHeader.Get("Idempotency-Key"))
	assert.Equal(t, "OTP for admin1: 123456", got["text"])
	assert.Equal(t, "admin1", got["user_id"])
}

func TestSender_Non2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewSender(srv.URL, time.Second).Send(context.Background(), sample())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=502")
}

func TestSender_UnreachableIsError(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	err = NewSender("http://"+addr+"/hook", time.Second).Send(context.Background(), sample())
	assert.Error(t, err)
}

func TestSender_RespectsTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	start := time.Now()
	err := NewSender(srv.URL, 50*time.Millisecond).Send(context.Background(), sample())
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}
