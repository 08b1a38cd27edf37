//go:build !linux || !cgo

package auth

import "context"

// pamStrategy abstains on platforms without PAM so the chain can fall
// through to the development fallback.
type pamStrategy struct{}

// NewPAMStrategy returns the native host-login verification strategy.
func NewPAMStrategy() Strategy { return pamStrategy{} }

func (pamStrategy) Name() string { return "pam" }

func (pamStrategy) Verify(context.Context, string, string) Decision {
	return DecisionSkip
}
