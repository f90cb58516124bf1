package server

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"hrintel/internal/errors"
)

// KeyReloadCallback receives the new API key list after a secret change.
type KeyReloadCallback func(keys []string)

// KeyWatcher polls a Vault KVv2 secret and hands the "keys" field to a
// callback whenever the secret version increases.
type KeyWatcher struct {
	mu sync.RWMutex

	client       KeySource
	secretPath   string
	pollInterval time.Duration
	onReload     KeyReloadCallback
	logger       *errors.Logger

	stopChan    chan struct{}
	running     bool
	lastVersion int64
}

// NewKeyWatcher creates a watcher. Call Prime before Start to avoid
// reloading the keys that were already applied at startup.
func NewKeyWatcher(client KeySource, secretPath string, pollInterval time.Duration, onReload KeyReloadCallback, logger *errors.Logger) *KeyWatcher {
	if pollInterval <= 0 {
		pollInterval = 5 * time.Minute
	}
	return &KeyWatcher{
		client:       client,
		secretPath:   secretPath,
		pollInterval: pollInterval,
		onReload:     onReload,
		logger:       logger,
		stopChan:     make(chan struct{}),
	}
}

// Prime records the current secret version without triggering a reload.
func (kw *KeyWatcher) Prime() error {
	secret, err := kw.client.GetSecretV2(kw.secretPath)
	if err != nil {
		return fmt.Errorf("failed to read secret: %w", err)
	}
	kw.mu.Lock()
	kw.lastVersion = secret.Version
	kw.mu.Unlock()
	return nil
}

// Start begins polling Vault for secret changes
func (kw *KeyWatcher) Start() error {
	kw.mu.Lock()
	defer kw.mu.Unlock()
	if kw.running {
		return fmt.Errorf("key watcher is already running")
	}
	kw.running = true
	go kw.pollLoop()
	kw.logger.Info("API key watcher started", "secret_path", kw.secretPath, "poll_interval", kw.pollInterval)
	return nil
}

// Stop stops the watcher
func (kw *KeyWatcher) Stop() {
	kw.mu.Lock()
	defer kw.mu.Unlock()
	if !kw.running {
		return
	}
	close(kw.stopChan)
	kw.running = false
	kw.logger.Info("API key watcher stopped")
}

func (kw *KeyWatcher) pollLoop() {
	ticker := time.NewTicker(kw.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := kw.poll(); err != nil {
				kw.logger.LogError(err, "Failed to check Vault for API key updates")
			}
		case <-kw.stopChan:
			return
		}
	}
}

// poll reloads the keys when the secret version moved forward.
func (kw *KeyWatcher) poll() error {
	keys, changed, err := kw.checkForUpdates()
	if err != nil || !changed {
		return err
	}
	if len(keys) == 0 {
		return fmt.Errorf("secret %s has no API keys, keeping current keys", kw.secretPath)
	}
	kw.logger.Info("API keys rotated from Vault", "count", len(keys))
	kw.onReload(keys)
	return nil
}

func (kw *KeyWatcher) checkForUpdates() ([]string, bool, error) {
	secret, err := kw.client.GetSecretV2(kw.secretPath)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read secret: %w", err)
	}

	kw.mu.Lock()
	defer kw.mu.Unlock()
	if secret.Version <= kw.lastVersion {
		return nil, false, nil
	}
	kw.lastVersion = secret.Version

	raw, _ := secret.Data["keys"].(string)
	var keys []string
	for part := range strings.SplitSeq(raw, ",") {
		if k := strings.TrimSpace(part); k != "" {
			keys = append(keys, k)
		}
	}
	return keys, true, nil
}

// Status returns the current status of the watcher for health reporting
func (kw *KeyWatcher) Status() map[string]any {
	kw.mu.RLock()
	defer kw.mu.RUnlock()
	return map[string]any{
		"running":       kw.running,
		"poll_interval": kw.pollInterval.String(),
		"secret_path":   kw.secretPath,
		"last_version":  kw.lastVersion,
	}
}
