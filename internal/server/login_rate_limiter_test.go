package server

import (
	"testing"
	"time"
)

func TestLoginRateLimiter(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	limiter := newLoginRateLimiter(3, time.Minute, 5*time.Minute)

	for i := 0; i < 2; i++ {
		limiter.RegisterFailure("k", now)
	}
	if !limiter.Allow("k", now) {
		t.Fatal("expected allow below threshold")
	}

	limiter.RegisterFailure("k", now)
	if limiter.Allow("k", now.Add(time.Minute)) {
		t.Fatal("expected block after threshold")
	}
	if !limiter.Allow("other", now) {
		t.Fatal("expected unrelated key to be allowed")
	}
	if !limiter.Allow("k", now.Add(5*time.Minute)) {
		t.Fatal("expected block to lapse")
	}

	limiter.RegisterFailure("k", now.Add(6*time.Minute))
	limiter.RegisterFailure("k", now.Add(8*time.Minute))
	limiter.RegisterFailure("k", now.Add(8*time.Minute))
	if !limiter.Allow("k", now.Add(8*time.Minute)) {
		t.Fatal("expected failures outside the window not to accumulate")
	}

	limiter.Reset("k")
	if !limiter.Allow("k", now.Add(8*time.Minute)) {
		t.Fatal("expected reset to clear state")
	}
}

func TestLoginRateLimiterDisabled(t *testing.T) {
	var limiter *loginRateLimiter = newLoginRateLimiter(0, time.Minute, time.Minute)
	if limiter != nil {
		t.Fatal("expected nil limiter for non-positive config")
	}
	limiter.RegisterFailure("k", time.Now())
	if !limiter.Allow("k", time.Now()) {
		t.Fatal("expected nil limiter to allow")
	}
}
