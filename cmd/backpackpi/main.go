// Command backpackpi is the entry point for the dashboard backend.
// It dispatches to the server, roles, and version subcommands.
package main

import (
	"fmt"
	"os"

	"github.com/skbidisigma1/backpackpi/internal/cmd/roles"
	"github.com/skbidisigma1/backpackpi/internal/cmd/server"
	"github.com/skbidisigma1/backpackpi/internal/version"
)

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

// run parses argv and invokes the matching subcommand handler.
func run(argv []string) error {
	if len(argv) < 2 {
		usage()
		return fmt.Errorf("missing subcommand")
	}

	switch argv[1] {
	case "server":
		return server.Run(argv[2:])
	case "roles":
		return roles.Run(argv[2:])
	case "version":
		fmt.Println(version.Version)
		return nil
	case "-h", "--help", "help":
		usage()
		return nil
	default:
		usage()
		return fmt.Errorf("unknown subcommand: %s", argv[1])
	}
}

// usage prints the canonical CLI syntax to stderr.
func usage() {
	fmt.Fprintln(os.Stderr, "backpackpi <server|roles|version> [flags]")
}
