//go:build linux && cgo

package auth

import (
	"context"
	"errors"

	"github.com/msteinert/pam/v2"
)

// pamStrategy authenticates against the host's PAM stack using the
// standard "login" service. When PAM is reachable its verdict is final;
// it never abstains on this platform.
type pamStrategy struct{}

// NewPAMStrategy returns the native host-login verification strategy.
func NewPAMStrategy() Strategy { return pamStrategy{} }

func (pamStrategy) Name() string { return "pam" }

func (pamStrategy) Verify(_ context.Context, username, password string) Decision {
	tx, err := pam.StartFunc("login", username, func(style pam.Style, _ string) (string, error) {
		switch style {
		case pam.PromptEchoOff:
			return password, nil
		case pam.PromptEchoOn:
			return username, nil
		case pam.ErrorMsg, pam.TextInfo:
			return "", nil
		}
		return "", errors.New("unsupported pam conversation style")
	})
	if err != nil {
		return DecisionDeny
	}
	defer func() { _ = tx.End() }()

	if err := tx.Authenticate(0); err != nil {
		return DecisionDeny
	}
	if err := tx.AcctMgmt(0); err != nil {
		return DecisionDeny
	}
	return DecisionAllow
}
