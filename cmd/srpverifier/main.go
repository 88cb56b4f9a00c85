// Package main provides the srpverifier CLI tool, which generates an
// SRP-6a verifier record for a single account on disk so the demo
// server has something to authenticate against.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/go-srp/srp6a/internal/auth"
	"github.com/go-srp/srp6a/pkg/srp"
	"golang.org/x/term"
)

const (
	defaultVerifierPath = "/etc/srp6a/verifier"
	defaultGroupBits    = 2048
)

func main() {
	identity := flag.String("identity", "", "Identity (account name) the verifier is issued for")
	password := flag.String("password", "", "Password to derive the verifier from (prompts if not provided and -password-generator is unset)")
	passwordGenerator := flag.String("password-generator", "", "Path to an executable that prints the password to stdout, instead of typing one in")
	verifierPath := flag.String("out", defaultVerifierPath, "Path to write the verifier record")
	groupBits := flag.Int("group-bits", defaultGroupBits, "RFC 5054 group size in bits (1024, 1536, 2048, 3072, 4096, 6144, 8192)")
	force := flag.Bool("force", false, "Overwrite an existing verifier record")
	flag.Parse()

	if err := run(*identity, *password, *passwordGenerator, *verifierPath, *groupBits, *force); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(identity, password, passwordGenerator, verifierPath string, groupBits int, force bool) error {
	if identity == "" {
		identity = promptIdentity()
	}
	if identity == "" {
		return fmt.Errorf("identity is required")
	}

	if !force && auth.VerifierExists(verifierPath) {
		return fmt.Errorf("verifier record already exists at %s (use -force to overwrite)", verifierPath)
	}

	params, err := srp.Group(groupBits)
	if err != nil {
		return fmt.Errorf("unsupported SRP group: %w", err)
	}

	if passwordGenerator != "" {
		if err := auth.GenerateVerifierFileFromGenerator(verifierPath, params, identity, passwordGenerator); err != nil {
			return fmt.Errorf("failed to generate verifier record: %w", err)
		}
		fmt.Printf("Verifier record for %q written to %s (group: %d-bit, password from %s)\n",
			identity, verifierPath, groupBits, passwordGenerator)
		return nil
	}

	if password == "" {
		password = promptPassword()
	}
	if password == "" {
		return fmt.Errorf("password is required")
	}

	if err := auth.GenerateVerifierFile(verifierPath, params, identity, password); err != nil {
		return fmt.Errorf("failed to generate verifier record: %w", err)
	}

	fmt.Printf("Verifier record for %q written to %s (group: %d-bit)\n", identity, verifierPath, groupBits)
	return nil
}

func promptIdentity() string {
	fmt.Fprintf(os.Stderr, "Identity: ")
	reader := bufio.NewReader(os.Stdin)
	identity, _ := reader.ReadString('\n')
	return trimNewline(identity)
}

func promptPassword() string {
	fmt.Fprintf(os.Stderr, "Password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintf(os.Stderr, "\n")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to read password: %v\n", err)
		os.Exit(1)
	}
	return string(password)
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}
