// Package daemon wires the components together and runs the HTTP API
// until the context is canceled.
package daemon

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/skbidisigma1/backpackpi/internal/auth"
	"github.com/skbidisigma1/backpackpi/internal/config"
	"github.com/skbidisigma1/backpackpi/internal/db"
	"github.com/skbidisigma1/backpackpi/internal/files"
	"github.com/skbidisigma1/backpackpi/internal/httpapi"
	"github.com/skbidisigma1/backpackpi/internal/jailfs"
	"github.com/skbidisigma1/backpackpi/internal/roles"
	"github.com/skbidisigma1/backpackpi/internal/session"
	"github.com/skbidisigma1/backpackpi/internal/version"
)

// Login throttling: 5 attempts per 15 minutes, then a further 15 minute
// lockout.
const (
	loginAttempts = 5
	loginWindow   = 15 * time.Minute
	loginBlock    = 15 * time.Minute

	sessionSweepInterval = time.Hour
)

type Options struct {
	Config config.Config
	Logger *slog.Logger
}

// Run starts the daemon and blocks until ctx is canceled or the HTTP
// server fails.
func Run(ctx context.Context, opt Options) error {
	cfg := opt.Config
	logger := opt.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DB.Path), 0o755); err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.Files.Root, 0o755); err != nil {
		return err
	}

	d, err := db.Open(ctx, cfg.DB.Path)
	if err != nil {
		return err
	}
	defer d.Close()

	roleStore := roles.NewStore(d)
	if err := roleStore.EnsureSudo(ctx, cfg.Auth.SudoUser); err != nil {
		return err
	}
	logger.Info("sudo user ensured", "username", cfg.Auth.SudoUser)

	sessions := session.NewManager(d, cfg.Auth.SessionSecret, logger)
	sessions.StartSweeper(ctx, sessionSweepInterval)

	limiter := auth.NewLoginLimiter(loginAttempts, loginWindow, loginBlock)
	defer limiter.Stop()

	verifier := auth.NewVerifier(logger,
		auth.NewPAMStrategy(),
		auth.NewFallbackStrategy(auth.FallbackOptions{
			Enabled:  cfg.Auth.DevFallback.Enabled,
			Password: cfg.Auth.DevFallback.Password,
		}),
	)

	api := &httpapi.Server{
		Logger:        logger,
		Roles:         roleStore,
		Sessions:      sessions,
		Files:         files.New(jailfs.New(cfg.Files.Root)),
		Verifier:      verifier,
		Limiter:       limiter,
		BindAddr:      cfg.HTTP.Bind,
		Port:          cfg.HTTP.Port,
		SecureCookies: cfg.HTTP.SecureCookies,
		Version:       version.Version,
	}
	srv := api.NewHTTPServer()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http listening", "addr", srv.Addr, "file_root", cfg.Files.Root)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
