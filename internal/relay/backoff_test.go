package relay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestBackoff(cfg BackoffConfig) (*Backoff, *time.Time) {
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	b := NewBackoff(cfg)
	b.now = func() time.Time { return current }
	return b, &current
}

func TestBackoff_DoublesPerFailure(t *testing.T) {
	b, _ := newTestBackoff(BackoffConfig{Base: 5 * time.Second, Max: 10 * time.Minute})

	b.RecordFailure("wss://relay.one", false)
	waiting, remaining := b.InBackoff("wss://relay.one")
	assert.True(t, waiting)
	assert.Equal(t, 5*time.Second, remaining)

	b.RecordFailure("wss://relay.one", false)
	_, remaining = b.InBackoff("wss://relay.one")
	assert.Equal(t, 10*time.Second, remaining)

	b.RecordFailure("wss://relay.one", false)
	_, remaining = b.InBackoff("wss://relay.one")
	assert.Equal(t, 20*time.Second, remaining)

	assert.Equal(t, 3, b.Attempts("wss://relay.one"))
}

func TestBackoff_CapsAtMax(t *testing.T) {
	b, _ := newTestBackoff(BackoffConfig{Base: time.Minute, Max: 4 * time.Minute})

	for i := 0; i < 10; i++ {
		b.RecordFailure("wss://relay.one", false)
	}
	_, remaining := b.InBackoff("wss://relay.one")
	assert.Equal(t, 4*time.Minute, remaining)
}

func TestBackoff_RateLimitUsesLargerBase(t *testing.T) {
	b, _ := newTestBackoff(BackoffConfig{Base: 5 * time.Second, RateLimitBase: time.Minute, Max: 10 * time.Minute})

	b.RecordFailure("wss://relay.one", true)
	_, remaining := b.InBackoff("wss://relay.one")
	assert.Equal(t, time.Minute, remaining)
}

func TestBackoff_SuccessClearsImmediately(t *testing.T) {
	b, _ := newTestBackoff(BackoffConfig{Base: time.Minute, Max: 10 * time.Minute})

	b.RecordFailure("wss://relay.one", false)
	b.RecordFailure("wss://relay.one", false)
	b.RecordSuccess("wss://relay.one")

	waiting, _ := b.InBackoff("wss://relay.one")
	assert.False(t, waiting)
	assert.Equal(t, 0, b.Attempts("wss://relay.one"))
}

func TestBackoff_ExpiredEntryClearsLazily(t *testing.T) {
	b, now := newTestBackoff(BackoffConfig{Base: 5 * time.Second, Max: 10 * time.Minute})

	b.RecordFailure("wss://relay.one", false)
	*now = now.Add(6 * time.Second)

	waiting, remaining := b.InBackoff("wss://relay.one")
	assert.False(t, waiting)
	assert.Zero(t, remaining)
	assert.Equal(t, 0, b.Attempts("wss://relay.one"))
}

func TestBackoff_RelaysAreIndependent(t *testing.T) {
	b, _ := newTestBackoff(BackoffConfig{Base: 5 * time.Second, Max: 10 * time.Minute})

	b.RecordFailure("wss://relay.one", false)

	waiting, _ := b.InBackoff("wss://relay.two")
	assert.False(t, waiting)
}
