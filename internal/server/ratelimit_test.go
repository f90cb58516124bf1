package server

import (
	"crypto/tls"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrintel/internal/config"
	"hrintel/internal/errors"
)

func TestRateLimiterBurst(t *testing.T) {
	rl := NewRateLimiter(60, 3, errors.NewNopLogger())
	defer rl.Close()

	for i := range 3 {
		assert.True(t, rl.Allow("ip:1.2.3.4"), "request %d", i)
	}
	assert.False(t, rl.Allow("ip:1.2.3.4"))
	assert.True(t, rl.Allow("ip:5.6.7.8"))

	stats := rl.GetStats()
	assert.Equal(t, 2, stats["active_limiters"])
	assert.InDelta(t, 60.0, stats["rate_per_minute"], 0.001)

	rl.cleanup(0)
	assert.Equal(t, 0, rl.GetStats()["active_limiters"])
	rl.Close()
}

func TestGetRateLimitKey(t *testing.T) {
	tests := []struct {
		name     string
		headers  map[string]string
		byAPIKey bool
		byIP     bool
		wantKey  string
		wantType string
	}{
		{name: "api key preferred", headers: map[string]string{"X-API-Key": "k1"}, byAPIKey: true, byIP: true, wantKey: "api:k1", wantType: "api_key"},
		{name: "bearer token", headers: map[string]string{"Authorization": "Bearer k2"}, byAPIKey: true, wantKey: "api:k2", wantType: "api_key"},
		{name: "falls back to ip", byAPIKey: true, byIP: true, wantKey: "ip:192.0.2.1", wantType: "ip"},
		{name: "forwarded for", headers: map[string]string{"X-Forwarded-For": "bogus, 198.51.100.7"}, byIP: true, wantKey: "ip:198.51.100.7", wantType: "ip"},
		{name: "real ip", headers: map[string]string{"X-Real-IP": "198.51.100.8"}, byIP: true, wantKey: "ip:198.51.100.8", wantType: "ip"},
		{name: "unknown key uses ip", headers: map[string]string{"X-API-Key": "bogus"}, byAPIKey: true, byIP: true, wantKey: "ip:192.0.2.1", wantType: "ip"},
		{name: "unknown key without ip limiting", headers: map[string]string{"X-API-Key": "bogus"}, byAPIKey: true},
		{name: "nothing enabled"},
	}
	known := func(k string) bool { return k == "k1" || k == "k2" }
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/assess", nil)
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			key, keyType := getRateLimitKey(r, tt.byAPIKey, tt.byIP, known)
			assert.Equal(t, tt.wantKey, key)
			assert.Equal(t, tt.wantType, keyType)
		})
	}
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", maskAPIKey("short"))
	assert.Equal(t, "abcdefgh****", maskAPIKey("abcdefghijkl"))
}

func TestBuildTLSConfig(t *testing.T) {
	cfg, err := buildTLSConfig(config.TLSConfig{Mode: "disabled"})
	require.NoError(t, err)
	assert.Nil(t, cfg)

	_, err = buildTLSConfig(config.TLSConfig{Mode: "server"})
	assert.ErrorContains(t, err, "certificate and key are required")

	_, err = buildTLSConfig(config.TLSConfig{Mode: "server", CertContent: "not pem", KeyContent: "not pem"})
	assert.ErrorContains(t, err, "from content")

	_, err = buildTLSConfig(config.TLSConfig{Mode: "bogus"})
	assert.ErrorContains(t, err, "invalid TLS mode")
}

func TestTLSHelpers(t *testing.T) {
	assert.Equal(t, uint16(tls.VersionTLS13), tlsVersion("1.3"))
	assert.Equal(t, uint16(tls.VersionTLS12), tlsVersion(""))
	assert.Equal(t, tls.RequestClientCert, clientAuthPolicy("request"))
	assert.Equal(t, tls.VerifyClientCertIfGiven, clientAuthPolicy("verify"))
	assert.Equal(t, tls.RequireAndVerifyClientCert, clientAuthPolicy(""))

	_, err := loadCACertificatePool(config.TLSConfig{CAContent: "garbage"})
	assert.ErrorContains(t, err, "failed to append CA cert")
	_, err = loadCACertificatePool(config.TLSConfig{})
	assert.ErrorContains(t, err, "CA certificate is required")
}
