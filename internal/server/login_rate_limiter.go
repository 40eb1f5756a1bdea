package server

import (
	"sync"
	"time"
)

// loginRateLimiter blocks a client/username pair after repeated failed logins.
// A nil limiter allows everything.
type loginRateLimiter struct {
	mu          sync.Mutex
	attempts    map[string]*loginAttempts
	maxFailures int
	window      time.Duration
	blockedFor  time.Duration
	lastSweep   time.Time
}

type loginAttempts struct {
	failures     int
	windowStart  time.Time
	blockedUntil time.Time
	lastSeen     time.Time
}

func newLoginRateLimiter(maxFailures int, window, blockedFor time.Duration) *loginRateLimiter {
	if maxFailures <= 0 || window <= 0 || blockedFor <= 0 {
		return nil
	}
	return &loginRateLimiter{
		attempts:    make(map[string]*loginAttempts),
		maxFailures: maxFailures,
		window:      window,
		blockedFor:  blockedFor,
	}
}

// Allow reports whether key may attempt a login at now.
func (l *loginRateLimiter) Allow(key string, now time.Time) bool {
	if l == nil || key == "" {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sweepLocked(now)

	entry, ok := l.attempts[key]
	if !ok {
		return true
	}
	entry.lastSeen = now
	return !now.Before(entry.blockedUntil)
}

// RegisterFailure counts one failed login and starts a block once the window
// holds maxFailures failures.
func (l *loginRateLimiter) RegisterFailure(key string, now time.Time) {
	if l == nil || key == "" {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.attempts[key]
	if !ok {
		entry = &loginAttempts{}
		l.attempts[key] = entry
	}
	if entry.windowStart.IsZero() || now.Sub(entry.windowStart) > l.window {
		entry.failures = 0
		entry.windowStart = now
	}
	entry.failures++
	entry.lastSeen = now
	if entry.failures >= l.maxFailures {
		entry.blockedUntil = now.Add(l.blockedFor)
		entry.failures = 0
		entry.windowStart = time.Time{}
	}
}

// Reset forgets key after a successful login.
func (l *loginRateLimiter) Reset(key string) {
	if l == nil || key == "" {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.attempts, key)
}

func (l *loginRateLimiter) sweepLocked(now time.Time) {
	staleAfter := 2 * max(l.window, l.blockedFor)
	if now.Sub(l.lastSweep) < staleAfter {
		return
	}
	l.lastSweep = now
	for key, entry := range l.attempts {
		if now.Sub(entry.lastSeen) > staleAfter && !now.Before(entry.blockedUntil) {
			delete(l.attempts, key)
		}
	}
}
