// Package main provides the srpclient CLI tool for authenticating with
// the SRP-6a demo server.
package main

import (
	"fmt"
	"os"

	"github.com/go-srp/srp6a/internal/cli/clicontext"
	"github.com/go-srp/srp6a/internal/cli/commands"
)

const version = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	args, command := parseGlobalFlags(os.Args[1:])

	switch command {
	case "--help", "-h", "help":
		printUsage()
		os.Exit(0)
	case "--version", "-v", "version":
		fmt.Printf("srpclient version %s\n", version)
		os.Exit(0)
	}

	switch command {
	case "login":
		commands.NewPassCommand().Execute(args)
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command '%s'\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

// parseGlobalFlags processes global flags and returns remaining args and the command.
// Global flags like --assumeyes can appear anywhere in the argument list.
func parseGlobalFlags(args []string) ([]string, string) {
	remainingArgs := make([]string, 0, len(args))
	var command string

	for i := range len(args) {
		arg := args[i]

		if arg == "--assumeyes" || arg == "-y" {
			clicontext.SetAssumeYes(true)
			continue
		}

		if command == "" && !isFlag(arg) {
			command = arg
			continue
		}

		remainingArgs = append(remainingArgs, arg)
	}

	return remainingArgs, command
}

// isFlag returns true if the argument looks like a flag (starts with -).
func isFlag(arg string) bool {
	return len(arg) > 0 && arg[0] == '-'
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `srpclient - CLI tool for the SRP-6a demo server

Usage:
  srpclient <command> [flags]

Available Commands:
  login        Authenticate with the demo server using SRP-6a

Global Flags:
  --help, -h        Show help information
  --version, -v     Show version information
  --assumeyes, -y   Automatically answer 'yes' to prompts (non-interactive mode)

Examples:
  # Authenticate with the demo server
  srpclient login --host 192.168.1.100 --identity alice

  # Authenticate in non-interactive mode
  srpclient login -y --host 192.168.1.100 --identity alice --password secret123

For detailed help on a specific command, run:
  srpclient <command> --help

`)
}
