package smtp

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/storefront-gate/internal/config"
	"github.com/storefront-gate/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
)

func testConfig(host string, port int) config.SMTPConfig {
	return config.SMTPConfig{
		Host: host,
		Port: port,
		From: "noreply@example.com",
		To:   "ops@example.com",
	}
}

func TestMailer_Message(t *testing.T) {
	m, err := NewMailer(testConfig("localhost", 1025), time.Second)
	require.NoError(t, err)

	msg, err := m.message(&domain.Notification{
		ID:      "n1",
		Subject: "Admin access code",
		Body:    "OTP for admin1: 123456",
	})
	require.NoError(t, err)

	rcpts, err := msg.GetRecipients()
	require.NoError(t, err)
	assert.Equal(t, []string{"ops@example.com"}, rcpts)
	assert.Equal(t, []string{"Admin access code"}, msg.GetGenHeader(mail.HeaderSubject))
}

func TestMailer_InvalidRecipient(t *testing.T) {
	cfg := testConfig("localhost", 1025)
	cfg.To = "not an address"
	m, err := NewMailer(cfg, time.Second)
	require.NoError(t, err)

	_, err = m.message(&domain.Notification{ID: "n1"})
	assert.Error(t, err)
}

func TestMailer_UnreachableServer(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())

	m, err := NewMailer(testConfig("127.0.0.1", port), 200*time.Millisecond)
	require.NoError(t, err)

	err = m.Send(context.Background(), &domain.Notification{ID: "n1", Subject: "s", Body: "b"})
	assert.Error(t, err)
}

func TestNewMailer_RequiresHost(t *testing.T) {
	_, err := NewMailer(testConfig("", 25), time.Second)
	assert.Error(t, err)
}
