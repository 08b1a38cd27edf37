package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

type fixedStrategy struct {
	name string
	d    Decision
}

func (s fixedStrategy) Name() string { return s.name }
func (s fixedStrategy) Verify(context.Context, string, string) Decision {
	return s.d
}

// TestVerifierFirstApplicableDecides stops the chain on allow or deny.
func TestVerifierFirstApplicableDecides(t *testing.T) {
	ctx := context.Background()

	v := NewVerifier(testLogger(),
		fixedStrategy{"a", DecisionSkip},
		fixedStrategy{"b", DecisionAllow},
		fixedStrategy{"c", DecisionDeny},
	)
	ok, err := v.Verify(ctx, "u", "p")
	if err != nil || !ok {
		t.Fatalf("Verify: ok=%v err=%v", ok, err)
	}

	v = NewVerifier(testLogger(),
		fixedStrategy{"a", DecisionDeny},
		fixedStrategy{"b", DecisionAllow},
	)
	ok, err = v.Verify(ctx, "u", "p")
	if err != nil || ok {
		t.Fatalf("deny should be final: ok=%v err=%v", ok, err)
	}
}

// TestVerifierUnavailable reports when every strategy abstains.
func TestVerifierUnavailable(t *testing.T) {
	v := NewVerifier(testLogger(), fixedStrategy{"a", DecisionSkip})
	_, err := v.Verify(context.Background(), "u", "p")
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

// TestFallbackDisabled abstains when the dev toggle is off.
func TestFallbackDisabled(t *testing.T) {
	s := NewFallbackStrategy(FallbackOptions{Enabled: false})
	if d := s.Verify(context.Background(), "u", "p"); d != DecisionSkip {
		t.Fatalf("decision=%v want skip", d)
	}
}

// TestFallbackFixedPassword requires an exact match when configured.
func TestFallbackFixedPassword(t *testing.T) {
	s := NewFallbackStrategy(FallbackOptions{Enabled: true, Password: "hunter2"})
	ctx := context.Background()
	if d := s.Verify(ctx, "anyone", "hunter2"); d != DecisionAllow {
		t.Fatalf("correct password: %v", d)
	}
	if d := s.Verify(ctx, "anyone", "wrong"); d != DecisionDeny {
		t.Fatalf("wrong password: %v", d)
	}
}

// TestFallbackPasswdRegistry accepts only usernames in the registry.
func TestFallbackPasswdRegistry(t *testing.T) {
	passwd := filepath.Join(t.TempDir(), "passwd")
	body := "root:x:0:0:root:/root:/bin/bash\npi:x:1000:1000::/home/pi:/bin/bash\n"
	if err := os.WriteFile(passwd, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	s := NewFallbackStrategy(FallbackOptions{Enabled: true, PasswdPath: passwd})
	ctx := context.Background()
	if d := s.Verify(ctx, "pi", "ignored"); d != DecisionAllow {
		t.Fatalf("registered user: %v", d)
	}
	if d := s.Verify(ctx, "intruder", "ignored"); d != DecisionDeny {
		t.Fatalf("unknown user: %v", d)
	}
	if d := s.Verify(ctx, "", ""); d != DecisionDeny {
		t.Fatalf("empty username: %v", d)
	}
}

// TestFallbackNoRegistry accepts unconditionally as the last resort.
func TestFallbackNoRegistry(t *testing.T) {
	s := NewFallbackStrategy(FallbackOptions{
		Enabled:    true,
		PasswdPath: filepath.Join(t.TempDir(), "missing"),
	})
	if d := s.Verify(context.Background(), "whoever", ""); d != DecisionAllow {
		t.Fatalf("decision=%v want allow", d)
	}
}

// TestNewToken produces distinct opaque tokens.
func TestNewToken(t *testing.T) {
	a, err := NewToken(32)
	if err != nil {
		t.Fatalf("NewToken: %v", err)
	}
	b, err := NewToken(32)
	if err != nil {
		t.Fatalf("NewToken: %v", err)
	}
	if a == b {
		t.Fatalf("tokens should differ")
	}
	if _, err := NewToken(8); err == nil {
		t.Fatalf("short tokens should be rejected")
	}
}
