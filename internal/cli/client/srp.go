// Package client provides HTTP client functionality for the SRP-6a demo CLI.
package client

import (
	"fmt"

	"github.com/go-srp/srp6a/pkg/srp"
)

// NewSRPClient creates a new SRP-6a client state machine for the given
// group, salt, identity, and password, with a fresh random ephemeral
// secret a drawn via srp.GenKey.
func NewSRPClient(params *srp.Params, salt []byte, identity, password string) (*srp.Client, error) {
	a, err := srp.GenKey(0)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ephemeral secret: %w", err)
	}

	c, err := srp.NewClient(params, salt, []byte(identity), []byte(password), a)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SRP client: %w", err)
	}
	return c, nil
}
