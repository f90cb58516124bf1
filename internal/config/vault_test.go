package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrintel/internal/errors"
)

func TestParseVersionValue(t *testing.T) {
	tests := []struct {
		name        string
		input       any
		expected    int64
		expectError bool
	}{
		{name: "int64 value", input: int64(42), expected: 42},
		{name: "float64 value", input: float64(42.0), expected: 42},
		{name: "string value", input: "42", expected: 42},
		{name: "invalid string value", input: "not-a-number", expectError: true},
		{name: "unsupported type", input: []string{"42"}, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseVersionValue(tt.input, "test/path")
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestDecodeKVv2(t *testing.T) {
	tests := []struct {
		name        string
		raw         map[string]any
		expected    *VaultSecret
		errContains string
	}{
		{
			name: "valid secret",
			raw: map[string]any{
				"data":     map[string]any{"keys": "a,b"},
				"metadata": map[string]any{"version": "3"},
			},
			expected: &VaultSecret{Data: map[string]any{"keys": "a,b"}, Version: 3},
		},
		{
			name:        "kv v1 layout",
			raw:         map[string]any{"keys": "a,b"},
			errContains: "missing 'data' field",
		},
		{
			name:        "missing metadata",
			raw:         map[string]any{"data": map[string]any{}},
			errContains: "missing 'metadata' field",
		},
		{
			name: "missing version",
			raw: map[string]any{
				"data":     map[string]any{},
				"metadata": map[string]any{},
			},
			errContains: "missing 'version' field",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeKVv2(tt.raw, "secret/data/hrintel/auth")
			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestApplyGeminiKeyToConfig(t *testing.T) {
	cfg := &Config{AI: AIConfig{Insight: OperationAIConfig{APIKey: "explicit"}}}
	applyGeminiKeyToConfig(cfg, "from-vault")

	assert.Equal(t, "from-vault", cfg.AI.APIKey)
	assert.Equal(t, "explicit", cfg.AI.Insight.APIKey)
	assert.Equal(t, "explicit", cfg.GetInsightConfig().APIKey)
}

func TestApplyTLSContent(t *testing.T) {
	tls := TLSConfig{CertFile: "/etc/cert.pem", KeyFile: "/etc/key.pem", CAFile: "/etc/ca.pem"}
	secret := &VaultSecret{Data: map[string]any{
		"cert": "CERT",
		"key":  "KEY",
		"ca":   "",
	}}

	count := applyTLSContent(&tls, secret)

	assert.Equal(t, 2, count)
	assert.Equal(t, "CERT", tls.CertContent)
	assert.Empty(t, tls.CertFile)
	assert.Equal(t, "KEY", tls.KeyContent)
	assert.Empty(t, tls.KeyFile)
	assert.Equal(t, "/etc/ca.pem", tls.CAFile)
	assert.Empty(t, tls.CAContent)
}

func TestResolveVaultToken(t *testing.T) {
	dir := t.TempDir()
	tokenFile := filepath.Join(dir, "token")
	require.NoError(t, os.WriteFile(tokenFile, []byte("  file-token\n"), 0600))

	tests := []struct {
		name      string
		config    VaultConfig
		expected  string
		expectErr bool
	}{
		{name: "inline token", config: VaultConfig{Token: "inline"}, expected: "inline"},
		{name: "inline wins over file", config: VaultConfig{Token: "inline", TokenFile: tokenFile}, expected: "inline"},
		{name: "token file is trimmed", config: VaultConfig{TokenFile: tokenFile}, expected: "file-token"},
		{name: "missing file", config: VaultConfig{TokenFile: filepath.Join(dir, "nope")}, expectErr: true},
		{name: "no token", config: VaultConfig{}, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := resolveVaultToken(tt.config)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, token)
		})
	}
}

func TestApplyVaultSecretsDisabled(t *testing.T) {
	cfg := &Config{Vault: VaultConfig{Enabled: false}}
	client, err := ApplyVaultSecrets(cfg, errors.NewNopLogger())
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestNewVaultClientDisabled(t *testing.T) {
	client, err := NewVaultClient(VaultConfig{}, nil)
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestNilVaultClientGetSecret(t *testing.T) {
	var vc *VaultClient
	_, err := vc.GetSecretV2("secret/data/x")
	assert.EqualError(t, err, "vault client not initialized")
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "", maskSecret(""))
	assert.Equal(t, "****", maskSecret("short"))
	assert.Equal(t, "abcd****6789", maskSecret("abcdef-123456789"))
}
