package config

import (
	"fmt"
	"slices"
)

var (
	tlsModes           = []string{"", "disabled", "server", "mutual"}
	clientAuthPolicies = []string{"", "require", "request", "verify"}
	tlsMinVersions     = []string{"", "1.2", "1.3"}
)

// pemSource is one PEM input that may come from a file or from inline
// content, but not both.
type pemSource struct {
	name    string
	file    string
	content string
}

func (p pemSource) set() bool { return p.file != "" || p.content != "" }

func (p pemSource) check() error {
	if p.file != "" && p.content != "" {
		return fmt.Errorf("cannot specify both %sFile and %sContent - choose one", p.name, p.name)
	}
	return nil
}

// ValidateTLSConfig checks the server TLS settings for the selected mode.
func (c *Config) ValidateTLSConfig() error {
	tls := c.Server.TLS
	if !slices.Contains(tlsModes, tls.Mode) {
		return fmt.Errorf("invalid TLS mode: %s (must be 'disabled', 'server', or 'mutual')", tls.Mode)
	}
	if tls.Mode == "" || tls.Mode == "disabled" {
		return nil
	}

	cert := pemSource{"cert", tls.CertFile, tls.CertContent}
	key := pemSource{"key", tls.KeyFile, tls.KeyContent}
	if !cert.set() || !key.set() {
		return fmt.Errorf("TLS certificate and key are required for %s mode (provide either files or content)", tls.Mode)
	}
	sources := []pemSource{cert, key}

	if tls.Mode == "mutual" {
		ca := pemSource{"ca", tls.CAFile, tls.CAContent}
		if !ca.set() {
			return fmt.Errorf("CA certificate is required for mutual TLS mode (provide either caFile or caContent)")
		}
		sources = append(sources, ca)
		if !slices.Contains(clientAuthPolicies, tls.ClientAuthPolicy) {
			return fmt.Errorf("invalid clientAuthPolicy: %s (must be 'require', 'request', or 'verify')", tls.ClientAuthPolicy)
		}
	}

	for _, src := range sources {
		if err := src.check(); err != nil {
			return err
		}
	}

	if !slices.Contains(tlsMinVersions, tls.MinVersion) {
		return fmt.Errorf("invalid TLS minVersion: %s (must be '1.2' or '1.3')", tls.MinVersion)
	}
	return nil
}
