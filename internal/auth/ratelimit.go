package auth

import (
	"sync"
	"time"
)

// LoginLimiter throttles login attempts per username: a fixed budget of
// points per window, then a hard block for a further blockFor duration.
// The block is set once when the budget is exhausted and is not
// extended by attempts made while blocked. Counters live in memory and
// die with the process.
type LoginLimiter struct {
	mu       sync.Mutex
	points   int
	window   time.Duration
	blockFor time.Duration
	counters map[string]*attemptCounter
	stopCh   chan struct{}
}

type attemptCounter struct {
	points       int
	windowStart  time.Time
	blockedUntil time.Time
}

func NewLoginLimiter(points int, window, blockFor time.Duration) *LoginLimiter {
	l := &LoginLimiter{
		points:   points,
		window:   window,
		blockFor: blockFor,
		counters: make(map[string]*attemptCounter),
		stopCh:   make(chan struct{}),
	}
	go l.cleanupLoop()
	return l
}

// Consume spends one point for a login attempt. When the budget is
// exceeded or the username is blocked, it returns false and the time
// until attempts are accepted again.
func (l *LoginLimiter) Consume(username string) (bool, time.Duration) {
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	c := l.counters[username]
	if c == nil {
		c = &attemptCounter{windowStart: now}
		l.counters[username] = c
	}

	if !c.blockedUntil.IsZero() {
		if now.Before(c.blockedUntil) {
			return false, time.Until(c.blockedUntil)
		}
		// Block elapsed; start a fresh window.
		*c = attemptCounter{windowStart: now}
	}

	if now.Sub(c.windowStart) > l.window {
		*c = attemptCounter{windowStart: now}
	}

	c.points++
	if c.points > l.points {
		c.blockedUntil = now.Add(l.blockFor)
		return false, l.blockFor
	}
	return true, 0
}

// Reset clears the counter for a username. Called on successful login;
// best-effort by contract, and here it cannot fail.
func (l *LoginLimiter) Reset(username string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.counters, username)
}

func (l *LoginLimiter) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.cleanup()
		case <-l.stopCh:
			return
		}
	}
}

func (l *LoginLimiter) cleanup() {
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, c := range l.counters {
		stale := now.Sub(c.windowStart) > l.window
		if !c.blockedUntil.IsZero() {
			stale = now.After(c.blockedUntil)
		}
		if stale {
			delete(l.counters, key)
		}
	}
}

func (l *LoginLimiter) Stop() {
	close(l.stopCh)
}
