package client

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"os"
)

// demoTransport is the HTTP transport used to reach the demo HTTPS
// listener. The demo server's certificate is either validated against
// a CA the operator supplies out of band, or, for a loopback
// demonstration with no CA available, left unverified: the SRP-6a
// handshake itself is the thing under test here, not the TLS chain.
type demoTransport struct {
	base *http.Transport
}

// NewDemoTransport creates an HTTP transport for talking to the demo
// server. If caCertPath is provided, the server certificate is
// verified against it; otherwise verification is skipped.
func NewDemoTransport(caCertPath string) (*demoTransport, error) {
	tlsConfig := &tls.Config{
		MinVersion: tls.VersionTLS13,
	}

	if caCertPath != "" {
		caCert, err := os.ReadFile(caCertPath) // #nosec G304 - caCertPath is user-provided config
		if err != nil {
			return nil, fmt.Errorf("failed to read CA certificate: %w", err)
		}

		certPool := x509.NewCertPool()
		if !certPool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("failed to parse CA certificate")
		}

		tlsConfig.RootCAs = certPool
	} else {
		tlsConfig.InsecureSkipVerify = true //nolint:gosec // demo transport with no operator-supplied CA
	}

	return &demoTransport{
		base: &http.Transport{TLSClientConfig: tlsConfig},
	}, nil
}

// RoundTrip implements http.RoundTripper.
func (t *demoTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.base.RoundTrip(req)
}
