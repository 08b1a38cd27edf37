// Package auth tests cover the login limiter and the verifier chain.
package auth

import (
	"testing"
	"time"
)

// TestLimiterBudget allows five attempts and blocks the sixth.
func TestLimiterBudget(t *testing.T) {
	l := NewLoginLimiter(5, 15*time.Minute, 15*time.Minute)
	defer l.Stop()

	for i := 0; i < 5; i++ {
		ok, _ := l.Consume("alice")
		if !ok {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}
	ok, retry := l.Consume("alice")
	if ok {
		t.Fatalf("sixth attempt should be blocked")
	}
	if retry <= 0 {
		t.Fatalf("retryAfter should be positive, got %v", retry)
	}
}

// TestLimiterPerUsername keeps counters independent between usernames.
func TestLimiterPerUsername(t *testing.T) {
	l := NewLoginLimiter(5, 15*time.Minute, 15*time.Minute)
	defer l.Stop()

	for i := 0; i < 6; i++ {
		l.Consume("alice")
	}
	if ok, _ := l.Consume("bob"); !ok {
		t.Fatalf("bob should be unaffected by alice's lockout")
	}
}

// TestLimiterReset clears the budget after a successful login.
func TestLimiterReset(t *testing.T) {
	l := NewLoginLimiter(5, 15*time.Minute, 15*time.Minute)
	defer l.Stop()

	for i := 0; i < 6; i++ {
		l.Consume("alice")
	}
	l.Reset("alice")
	for i := 0; i < 5; i++ {
		if ok, _ := l.Consume("alice"); !ok {
			t.Fatalf("attempt %d after reset should be allowed", i+1)
		}
	}
	if ok, _ := l.Consume("alice"); ok {
		t.Fatalf("budget should be exhausted again")
	}
}

// TestLimiterBlockExpires starts a fresh window once the block passes.
func TestLimiterBlockExpires(t *testing.T) {
	l := NewLoginLimiter(2, 50*time.Millisecond, 50*time.Millisecond)
	defer l.Stop()

	l.Consume("alice")
	l.Consume("alice")
	if ok, _ := l.Consume("alice"); ok {
		t.Fatalf("third attempt should be blocked")
	}
	time.Sleep(80 * time.Millisecond)
	if ok, _ := l.Consume("alice"); !ok {
		t.Fatalf("attempt after block expiry should be allowed")
	}
}

// TestLimiterWindowExpires forgets attempts after an idle window.
func TestLimiterWindowExpires(t *testing.T) {
	l := NewLoginLimiter(2, 50*time.Millisecond, time.Minute)
	defer l.Stop()

	l.Consume("alice")
	l.Consume("alice")
	time.Sleep(80 * time.Millisecond)
	if ok, _ := l.Consume("alice"); !ok {
		t.Fatalf("attempt in a fresh window should be allowed")
	}
}
