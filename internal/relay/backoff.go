package relay

import (
	"sync"
	"time"
)

// BackoffConfig controls the per-relay failure penalty. Rate-limit failures
// start from a larger base than generic transport failures.
type BackoffConfig struct {
	Base          time.Duration
	RateLimitBase time.Duration
	Max           time.Duration
}

type backoffEntry struct {
	attempts int
	until    time.Time
}

// Backoff tracks consecutive failures per relay and produces an exponential
// wait with a ceiling. It is a liveness optimization only and is not
// persisted across restarts.
type Backoff struct {
	cfg BackoffConfig

	mu      sync.Mutex
	entries map[string]*backoffEntry

	now func() time.Time
}

func NewBackoff(cfg BackoffConfig) *Backoff {
	if cfg.Base <= 0 {
		cfg.Base = 5 * time.Second
	}
	if cfg.RateLimitBase <= 0 {
		cfg.RateLimitBase = time.Minute
	}
	if cfg.Max <= 0 {
		cfg.Max = 10 * time.Minute
	}
	return &Backoff{
		cfg:     cfg,
		entries: make(map[string]*backoffEntry),
		now:     time.Now,
	}
}

// RecordFailure bumps the attempt counter for the relay and extends its
// deadline to now + min(base * 2^(attempts-1), max).
func (b *Backoff) RecordFailure(relayID string, rateLimited bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	entry, ok := b.entries[relayID]
	if !ok {
		entry = &backoffEntry{}
		b.entries[relayID] = entry
	}
	entry.attempts++

	base := b.cfg.Base
	if rateLimited {
		base = b.cfg.RateLimitBase
	}

	delay := base
	for i := 1; i < entry.attempts; i++ {
		delay *= 2
		if delay >= b.cfg.Max {
			break
		}
	}
	if delay > b.cfg.Max {
		delay = b.cfg.Max
	}
	entry.until = b.now().Add(delay)
}

// RecordSuccess clears the relay's entry immediately.
func (b *Backoff) RecordSuccess(relayID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.entries, relayID)
}

// InBackoff reports whether the relay is currently penalized and how long
// remains. Expired entries are cleared lazily.
func (b *Backoff) InBackoff(relayID string) (bool, time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()

	entry, ok := b.entries[relayID]
	if !ok {
		return false, 0
	}
	remaining := entry.until.Sub(b.now())
	if remaining <= 0 {
		delete(b.entries, relayID)
		return false, 0
	}
	return true, remaining
}

// Attempts returns the current consecutive failure count for a relay.
func (b *Backoff) Attempts(relayID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if entry, ok := b.entries[relayID]; ok {
		return entry.attempts
	}
	return 0
}
