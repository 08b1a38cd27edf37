// Package roles implements the `backpackpi roles` subcommand: direct
// database role administration for when no sudo session exists yet.
package roles

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/skbidisigma1/backpackpi/internal/config"
	"github.com/skbidisigma1/backpackpi/internal/db"
	rolestore "github.com/skbidisigma1/backpackpi/internal/roles"
)

func Run(args []string) error {
	fs := flag.NewFlagSet("roles", flag.ContinueOnError)
	var (
		configPath string
		dbPath     string
		list       bool
		set        string
	)
	fs.StringVar(&configPath, "config", "", "path to backpackpi.yaml (optional)")
	fs.StringVar(&dbPath, "db", "", "sqlite database path (overrides config)")
	fs.BoolVar(&list, "list", false, "list role assignments")
	fs.StringVar(&set, "set", "", "assign a role: username=role")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !list && set == "" {
		return fmt.Errorf("nothing to do: pass -list or -set username=role")
	}

	if dbPath == "" {
		// The secret is irrelevant here but Load validates it; env may
		// supply it, otherwise fall back to the default database path.
		if cfg, err := config.Load(configPath); err == nil {
			dbPath = cfg.DB.Path
		} else {
			dbPath = "./data/backpackpi.db"
		}
	}

	ctx := context.Background()
	d, err := db.Open(ctx, dbPath)
	if err != nil {
		return err
	}
	defer d.Close()
	store := rolestore.NewStore(d)

	if set != "" {
		username, roleStr, ok := strings.Cut(set, "=")
		if !ok || username == "" || roleStr == "" {
			return fmt.Errorf("invalid -set value %q, want username=role", set)
		}
		role, err := rolestore.Parse(roleStr)
		if err != nil {
			return fmt.Errorf("invalid role %q, valid roles: %v", roleStr, rolestore.All())
		}
		if err := store.Set(ctx, username, role); err != nil {
			return err
		}
		fmt.Printf("%s -> %s\n", username, role)
	}

	if list {
		rows, err := store.List(ctx)
		if err != nil {
			return err
		}
		for _, r := range rows {
			fmt.Printf("%-24s %s\n", r.Username, r.Role)
		}
	}
	return nil
}
