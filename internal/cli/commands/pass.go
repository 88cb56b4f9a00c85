package commands

import (
	"bufio"
	"encoding/base64"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/go-srp/srp6a/internal/cli/client"
	"github.com/go-srp/srp6a/internal/cli/config"
	"github.com/go-srp/srp6a/internal/cli/session"
	"github.com/go-srp/srp6a/pkg/srp"
	"golang.org/x/term"
)

// PassCommand implements the 'login' command for authentication.
type PassCommand struct{}

// NewPassCommand creates a new pass command instance.
func NewPassCommand() *PassCommand {
	return &PassCommand{}
}

// Execute runs the pass command with the provided arguments.
func (c *PassCommand) Execute(args []string) {
	fs := flag.NewFlagSet("pass", flag.ExitOnError)

	// Define flags
	identity := fs.String("identity", "", "Identity (account name) to authenticate as")
	password := fs.String("password", "", "Password for authentication (prompts if not provided)")
	host := fs.String("host", "", "Demo server hostname or IP")
	port := fs.Int("port", 0, "Demo server port")
	caCert := fs.String("ca-cert", "", "Path to custom CA certificate bundle")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: srpclient login [flags]

Authenticate with the demo server using the SRP-6a protocol.
The session token is stored for subsequent commands.

Flags:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Interactive (prompts for identity and password)
  srpclient login --host 192.168.1.100

  # With identity (prompts for password)
  srpclient login --host 192.168.1.100 --identity alice

  # Non-interactive (for CI/CD)
  srpclient login --host 192.168.1.100 --identity alice --password secret123

  # With custom CA certificate
  srpclient login --host internal.corp --ca-cert /etc/ssl/ca.pem --identity alice
`)
	}

	if err := fs.Parse(args); err != nil {
		exitWithError("failed to parse flags: %v", err)
	}

	// Load base configuration
	cfg, err := config.Load()
	if err != nil {
		exitWithError("failed to load configuration: %v", err)
	}

	// Apply command-line flags (highest priority)
	cfg.ApplyFlags(*host, *port, *caCert)

	// Validate configuration
	if err := cfg.RequireHost(); err != nil {
		exitWithError("%v", err)
	}

	// Get identity
	id := *identity
	if id == "" {
		id = promptIdentity()
	}

	// Get password
	pass := *password
	if pass == "" {
		pass = promptPassword()
	}

	// Perform SRP authentication
	if err := c.authenticate(cfg, id, pass); err != nil {
		exitWithError("authentication failed: %v", err)
	}
}

// authenticate performs SRP-6a authentication and stores the session token.
func (c *PassCommand) authenticate(cfg *config.Config, identity, password string) error {
	apiClient, err := createClient(cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Authenticating with %s...\n", cfg.Address())

	// Fetch the salt and group before committing to an ephemeral secret.
	saltResp, err := apiClient.SRPSalt(identity)
	if err != nil {
		return fmt.Errorf("failed to fetch salt: %w", err)
	}

	params, err := srp.Group(saltResp.GroupBits)
	if err != nil {
		return fmt.Errorf("unsupported SRP group: %w", err)
	}

	salt, err := base64.StdEncoding.DecodeString(saltResp.Salt)
	if err != nil {
		return fmt.Errorf("invalid salt encoding: %w", err)
	}

	srpClient, err := client.NewSRPClient(params, salt, identity, password)
	if err != nil {
		return fmt.Errorf("failed to initialize SRP client: %w", err)
	}

	// Phase 1: send A, identity.
	A := base64.StdEncoding.EncodeToString(srpClient.ComputeA())
	initResp, err := apiClient.SRPInit(identity, A)
	if err != nil {
		return fmt.Errorf("SRP init failed: %w", err)
	}

	B, err := base64.StdEncoding.DecodeString(initResp.B)
	if err != nil {
		return fmt.Errorf("invalid server ephemeral encoding: %w", err)
	}
	if err := srpClient.SetB(B); err != nil {
		return fmt.Errorf("invalid server response: %w", err)
	}

	// Phase 2: compute client proof and send Verify request.
	m1, err := srpClient.ComputeM1()
	if err != nil {
		return fmt.Errorf("failed to compute client proof: %w", err)
	}

	verifyResp, err := apiClient.SRPVerify(initResp.SessionID, base64.StdEncoding.EncodeToString(m1))
	if err != nil {
		return fmt.Errorf("SRP verify failed: %w", err)
	}

	m2, err := base64.StdEncoding.DecodeString(verifyResp.M2)
	if err != nil {
		return fmt.Errorf("invalid server proof encoding: %w", err)
	}
	if err := srpClient.CheckM2(m2); err != nil {
		return fmt.Errorf("server authentication failed: %w", err)
	}

	// Save session token
	store, err := session.NewStore()
	if err != nil {
		return fmt.Errorf("failed to access session store: %w", err)
	}

	if err := store.Save(cfg.Host, cfg.Port, verifyResp.SessionToken); err != nil {
		return fmt.Errorf("failed to save session token: %w", err)
	}

	// Save connection config for future commands (so --host isn't required next time)
	if err := cfg.Save(); err != nil {
		// Log warning but don't fail - authentication already succeeded
		fmt.Fprintf(os.Stderr, "Warning: failed to save connection config: %v\n", err)
	}

	fmt.Fprintf(os.Stderr, "Authentication successful. Session token saved.\n")
	return nil
}

// promptIdentity prompts the user to enter their identity.
func promptIdentity() string {
	fmt.Fprintf(os.Stderr, "Identity: ")
	reader := bufio.NewReader(os.Stdin)
	identity, _ := reader.ReadString('\n')
	return strings.TrimSpace(identity)
}

// promptPassword prompts the user to enter their password (hidden input).
func promptPassword() string {
	fmt.Fprintf(os.Stderr, "Password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintf(os.Stderr, "\n")
	if err != nil {
		exitWithError("failed to read password: %v", err)
	}
	return string(password)
}
