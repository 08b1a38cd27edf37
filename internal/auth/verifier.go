// Package auth verifies host credentials and throttles login attempts.
// Verification is a fixed-priority strategy chain: native PAM first,
// then the flag-gated development fallback. The first strategy that
// does not abstain decides; a deny is final and never falls through.
package auth

import (
	"context"
	"errors"
	"log/slog"
)

// Decision is a strategy's verdict on one credential pair.
type Decision int

const (
	// DecisionSkip means the strategy is not applicable on this host or
	// in this configuration; the chain moves on.
	DecisionSkip Decision = iota
	DecisionAllow
	DecisionDeny
)

// ErrProviderUnavailable is returned when no strategy in the chain is
// applicable. The login endpoint maps it to 503 rather than silently
// granting or denying access.
var ErrProviderUnavailable = errors.New("authentication provider unavailable")

// Strategy is one credential-verification backend.
type Strategy interface {
	Name() string
	Verify(ctx context.Context, username, password string) Decision
}

// Verifier evaluates strategies in order.
type Verifier struct {
	strategies []Strategy
	logger     *slog.Logger
}

func NewVerifier(logger *slog.Logger, strategies ...Strategy) *Verifier {
	return &Verifier{strategies: strategies, logger: logger}
}

// Verify runs the chain. It reports whether the credentials were
// accepted; ErrProviderUnavailable means no backend could judge them.
func (v *Verifier) Verify(ctx context.Context, username, password string) (bool, error) {
	for _, s := range v.strategies {
		switch s.Verify(ctx, username, password) {
		case DecisionAllow:
			v.logger.Debug("credentials accepted", "strategy", s.Name(), "username", username)
			return true, nil
		case DecisionDeny:
			v.logger.Debug("credentials rejected", "strategy", s.Name(), "username", username)
			return false, nil
		}
	}
	v.logger.Warn("no applicable authentication strategy", "username", username)
	return false, ErrProviderUnavailable
}
