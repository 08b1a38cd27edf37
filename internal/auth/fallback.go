package auth

import (
	"context"
	"crypto/subtle"
	"os"
	"strings"
)

// FallbackOptions configures the development fallback strategy. The
// fallback exists for headless boards and hosts without PAM; it must be
// switched on explicitly and never runs when native verification is
// reachable (the PAM strategy sits ahead of it and decides first).
type FallbackOptions struct {
	// Enabled gates the whole strategy. Off means abstain.
	Enabled bool

	// Password, when set, is the single shared password accepted for
	// any username.
	Password string

	// PasswdPath is the local user registry consulted when no fixed
	// password is configured. Defaults to /etc/passwd.
	PasswdPath string
}

type fallbackStrategy struct {
	opt FallbackOptions
}

// NewFallbackStrategy returns the permissive development verifier.
func NewFallbackStrategy(opt FallbackOptions) Strategy {
	if opt.PasswdPath == "" {
		opt.PasswdPath = "/etc/passwd"
	}
	return &fallbackStrategy{opt: opt}
}

func (f *fallbackStrategy) Name() string { return "dev-fallback" }

func (f *fallbackStrategy) Verify(_ context.Context, username, password string) Decision {
	if !f.opt.Enabled {
		return DecisionSkip
	}

	if f.opt.Password != "" {
		if subtle.ConstantTimeCompare([]byte(password), []byte(f.opt.Password)) == 1 {
			return DecisionAllow
		}
		return DecisionDeny
	}

	// No fixed password: accept any username present in the local user
	// registry, with no password check at all.
	if registry, err := os.ReadFile(f.opt.PasswdPath); err == nil {
		if userInPasswd(string(registry), username) {
			return DecisionAllow
		}
		return DecisionDeny
	}

	// No registry either (non-POSIX host): accept unconditionally.
	return DecisionAllow
}

func userInPasswd(registry, username string) bool {
	if username == "" {
		return false
	}
	prefix := username + ":"
	for _, line := range strings.Split(registry, "\n") {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}
