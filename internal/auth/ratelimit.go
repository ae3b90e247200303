package auth

import (
	"net"
	"net/http"
	"sync"
	"time"
)

const (
	// DefaultFailureWindow is how long a failed sign-in counts against a client.
	DefaultFailureWindow = 1 * time.Minute
	// DefaultMaxFailures is how many failures a client may have inside the window.
	DefaultMaxFailures = 10
)

// Limiter tracks failed sign-in attempts per client address.
type Limiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	window   time.Duration
	limit    int
	now      func() time.Time
}

// NewLimiter returns a limiter that blocks a client once it has limit
// failures inside window.
func NewLimiter(window time.Duration, limit int) *Limiter {
	return &Limiter{
		attempts: make(map[string][]time.Time),
		window:   window,
		limit:    limit,
		now:      time.Now,
	}
}

// Blocked reports whether key has used up its failures for the current window.
func (l *Limiter) Blocked(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.prune(key)) >= l.limit
}

// RecordFailure records a failed attempt and returns true if key is now blocked.
func (l *Limiter) RecordFailure(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	valid := append(l.prune(key), l.now())
	l.attempts[key] = valid

	return len(valid) >= l.limit
}

// Reset forgets the failures recorded for key.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.attempts, key)
}

// prune drops attempts older than the window. Callers hold l.mu.
func (l *Limiter) prune(key string) []time.Time {
	cutoff := l.now().Add(-l.window)

	valid := l.attempts[key][:0]
	for _, t := range l.attempts[key] {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}
	if len(valid) == 0 {
		delete(l.attempts, key)
		return nil
	}
	l.attempts[key] = valid
	return valid
}

// ClientIP returns the host part of the request's remote address.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
