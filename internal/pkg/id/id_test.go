package id

import (
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAt_IsValidULID(t *testing.T) {
	s := NewAt(time.Now())
	_, err := ulid.ParseStrict(s)
	require.NoError(t, err)
	assert.Len(t, s, 26)
}

func TestNewAt_UniqueForSameInstant(t *testing.T) {
	at := time.Now()
	assert.NotEqual(t, NewAt(at), NewAt(at))
}

func TestNewAt_CarriesTimestamp(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	u, err := ulid.ParseStrict(NewAt(at))
	require.NoError(t, err)
	assert.True(t, at.Equal(ulid.Time(u.Time())))
}

func TestNewAt_SortsByTime(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	earlier := NewAt(at)
	later := NewAt(at.Add(time.Millisecond))
	assert.Less(t, earlier, later)
}
