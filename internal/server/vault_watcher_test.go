package server

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrintel/internal/config"
	"hrintel/internal/errors"
)

const keyPath = "secret/data/hrintel/auth"

// mockKeySource serves one mutable secret.
type mockKeySource struct {
	mu     sync.Mutex
	secret *config.VaultSecret
	err    error
}

func (m *mockKeySource) GetSecretV2(path string) (*config.VaultSecret, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if path != keyPath || m.secret == nil {
		return nil, fmt.Errorf("no secret at %s", path)
	}
	return m.secret, nil
}

func (m *mockKeySource) set(version int64, keys string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.secret = &config.VaultSecret{Data: map[string]any{"keys": keys}, Version: version}
}

func TestKeyWatcherPoll(t *testing.T) {
	src := &mockKeySource{}
	src.set(1, "alpha,beta")

	var got [][]string
	kw := NewKeyWatcher(src, keyPath, time.Minute, func(keys []string) { got = append(got, keys) }, errors.NewNopLogger())
	require.NoError(t, kw.Prime())

	// same version: nothing to do
	require.NoError(t, kw.poll())
	assert.Empty(t, got)

	src.set(2, " gamma , ,delta ")
	require.NoError(t, kw.poll())
	require.Len(t, got, 1)
	assert.Equal(t, []string{"gamma", "delta"}, got[0])
	assert.Equal(t, int64(2), kw.Status()["last_version"])

	// an empty list is rejected and the version is still consumed
	src.set(3, "")
	assert.Error(t, kw.poll())
	assert.Len(t, got, 1)
}

func TestKeyWatcherReadError(t *testing.T) {
	src := &mockKeySource{err: fmt.Errorf("vault sealed")}
	kw := NewKeyWatcher(src, keyPath, 0, func([]string) {}, errors.NewNopLogger())

	assert.Error(t, kw.Prime())
	assert.ErrorContains(t, kw.poll(), "vault sealed")
	assert.Equal(t, "5m0s", kw.Status()["poll_interval"])
}

func TestKeyWatcherRotatesServerKeys(t *testing.T) {
	src := &mockKeySource{}
	src.set(1, "old-key-000000")

	cfg := testConfig()
	cfg.Server.APIKeys = []string{"old-key-000000"}
	s, _ := newTestServer(t, cfg)

	kw := NewKeyWatcher(src, keyPath, 10*time.Millisecond, s.SetAPIKeys, errors.NewNopLogger())
	require.NoError(t, kw.Prime())
	require.NoError(t, kw.Start())
	t.Cleanup(kw.Stop)
	assert.Error(t, kw.Start())

	src.set(2, "new-key-111111")
	assert.Eventually(t, func() bool {
		_, ok := s.checkAPIKey("new-key-111111")
		return ok
	}, time.Second, 10*time.Millisecond)

	_, ok := s.checkAPIKey("old-key-000000")
	assert.False(t, ok)
}
