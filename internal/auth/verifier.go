package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/go-srp/srp6a/pkg/srp"
)

// VerifierRecord is the on-disk representation of one account's SRP-6a
// verifier. It never stores the password; only what the server needs
// to run the protocol against a future login attempt.
type VerifierRecord struct {
	Identity    string `json:"identity"`
	Salt        string `json:"salt"`     // base64
	Verifier    string `json:"verifier"` // base64, PAD(v) at GroupBits width
	GroupBits   int    `json:"group_bits"`
	HashAlgo    string `json:"hash_algo"` // "sha256" or "sha512"
}

// LoadVerifierRecord reads and validates a verifier record from disk.
func LoadVerifierRecord(path string) (*VerifierRecord, error) {
	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read verifier record: %w", err)
	}

	var rec VerifierRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse verifier record: %w", err)
	}

	if rec.Identity == "" {
		return nil, fmt.Errorf("identity is required in verifier record")
	}
	if rec.Salt == "" {
		return nil, fmt.Errorf("salt is required in verifier record")
	}
	if rec.Verifier == "" {
		return nil, fmt.Errorf("verifier is required in verifier record")
	}
	if _, err := base64.StdEncoding.DecodeString(rec.Salt); err != nil {
		return nil, fmt.Errorf("salt must be valid base64: %w", err)
	}
	if _, err := base64.StdEncoding.DecodeString(rec.Verifier); err != nil {
		return nil, fmt.Errorf("verifier must be valid base64: %w", err)
	}

	return &rec, nil
}

// Group resolves the record's stored group size to its Params.
func (r *VerifierRecord) Group() (*srp.Params, error) {
	return srp.Group(r.GroupBits)
}

// SaltBytes decodes the stored base64 salt.
func (r *VerifierRecord) SaltBytes() ([]byte, error) {
	return base64.StdEncoding.DecodeString(r.Salt)
}

// VerifierBytes decodes the stored base64 verifier.
func (r *VerifierRecord) VerifierBytes() ([]byte, error) {
	return base64.StdEncoding.DecodeString(r.Verifier)
}

// GeneratePassword executes an external password generator script and
// returns the secret it prints on stdout, trimmed of surrounding
// whitespace. This is the hook that lets a verifier be derived from a
// device-unique or otherwise externally-managed secret instead of a
// human-typed password, without ever holding the generator's own logic
// in this package.
func GeneratePassword(generatorPath string) (string, error) {
	cmd := exec.CommandContext(context.Background(), generatorPath)
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("password generator exited with error: %s (stderr: %s)", exitErr, string(exitErr.Stderr))
		}
		return "", fmt.Errorf("failed to execute password generator: %w", err)
	}

	password := strings.TrimSpace(string(output))
	if password == "" {
		return "", fmt.Errorf("password generator returned empty password")
	}

	return password, nil
}

// GenerateVerifierFileFromGenerator is GenerateVerifierFile, except the
// password is produced by running generatorPath instead of being passed
// in directly. It never stores generatorPath or the password it returns;
// only the resulting verifier and salt end up on disk.
func GenerateVerifierFileFromGenerator(verifierPath string, params *srp.Params, identity, generatorPath string) error {
	password, err := GeneratePassword(generatorPath)
	if err != nil {
		return fmt.Errorf("failed to generate password: %w", err)
	}

	return GenerateVerifierFile(verifierPath, params, identity, password)
}

// GenerateVerifierFile derives a fresh random salt, computes the SRP-6a
// verifier for (identity, password) under the given group, and writes
// the resulting VerifierRecord to verifierPath with owner-only
// permissions. The password itself is never written to disk or kept
// beyond this call.
func GenerateVerifierFile(verifierPath string, params *srp.Params, identity, password string) error {
	salt := make([]byte, 32)
	if _, err := rand.Read(salt); err != nil {
		return fmt.Errorf("failed to generate random salt: %w", err)
	}

	verifier, err := srp.ComputeVerifier(params, salt, []byte(identity), []byte(password))
	if err != nil {
		return fmt.Errorf("failed to compute verifier: %w", err)
	}

	rec := VerifierRecord{
		Identity:  identity,
		Salt:      base64.StdEncoding.EncodeToString(salt),
		Verifier:  base64.StdEncoding.EncodeToString(verifier),
		GroupBits: params.NLengthBits,
		HashAlgo:  params.Hash.String(),
	}

	jsonData, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal verifier record: %w", err)
	}

	dir := filepath.Dir(verifierPath)
	//nolint:gosec // G301: 0755 is acceptable for the config directory; the record itself is 0600
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create verifier directory: %w", err)
	}

	cleanPath := filepath.Clean(verifierPath)
	if err := os.WriteFile(cleanPath, jsonData, 0o600); err != nil {
		return fmt.Errorf("failed to write verifier record: %w", err)
	}

	return nil
}

// VerifierExists checks if the verifier record exists at the specified path.
func VerifierExists(verifierPath string) bool {
	_, err := os.Stat(verifierPath)
	return err == nil
}
