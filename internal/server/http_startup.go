package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"hrintel/internal/catalog"
)

const shutdownGracePeriod = 30 * time.Second

// Start serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	tlsConfig, err := buildTLSConfig(s.TLSConfig)
	if err != nil {
		return fmt.Errorf("failed to set up TLS: %w", err)
	}

	httpServer := &http.Server{
		Addr:         net.JoinHostPort(s.Host, s.Port),
		Handler:      s.Handler(),
		TLSConfig:    tlsConfig,
		ReadTimeout:  s.ReadTimeout,
		WriteTimeout: s.WriteTimeout,
		IdleTimeout:  s.IdleTimeout,
	}

	catalogWatcher, err := s.startCatalogWatcher()
	if err != nil {
		return err
	}
	keyWatcher := s.startKeyWatcher()

	s.displayServerInfo(httpServer.Addr, tlsConfig != nil)

	serverErrors := make(chan error, 1)
	go func() {
		s.Logger.Info("Starting HTTP server",
			"address", httpServer.Addr,
			"tls_enabled", tlsConfig != nil)

		var err error
		if tlsConfig != nil {
			// certificates are already in TLSConfig
			err = httpServer.ListenAndServeTLS("", "")
		} else {
			err = httpServer.ListenAndServe()
		}
		if err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	var serveErr error
	select {
	case err := <-serverErrors:
		serveErr = fmt.Errorf("server failed to start: %w", err)
	case <-ctx.Done():
		s.Logger.Info("Received shutdown signal, starting graceful shutdown")
	}

	if catalogWatcher != nil {
		if err := catalogWatcher.Stop(); err != nil {
			s.Logger.LogError(err, "Failed to stop catalog watcher")
		}
	}
	if keyWatcher != nil {
		keyWatcher.Stop()
	}
	if s.RateLimiter != nil {
		s.RateLimiter.Close()
	}
	if serveErr != nil {
		return serveErr
	}
	return s.performGracefulShutdown(httpServer)
}

// startCatalogWatcher hot-reloads the catalog file when watching is enabled.
func (s *Server) startCatalogWatcher() (*catalog.Watcher, error) {
	cfg := s.AppConfig.Catalog
	if !cfg.Watch || cfg.File == "" || s.holder == nil {
		return nil, nil
	}

	watcher := catalog.NewWatcher(cfg.File, s.holder, cfg.DebounceDelay, func(err error) {
		s.metrics().RecordCatalogReload(context.Background(), err == nil)
	}, s.Logger)
	if err := watcher.Start(); err != nil {
		return nil, fmt.Errorf("failed to start catalog watcher: %w", err)
	}
	return watcher, nil
}

// startKeyWatcher rotates API keys from Vault when rotation is enabled.
// Failures are logged and the server keeps its startup keys.
func (s *Server) startKeyWatcher() *KeyWatcher {
	rotation := s.AppConfig.Server.KeyRotation
	path := s.AppConfig.Vault.Secrets.APIKeys
	if !rotation.Enabled || s.vault == nil || path == "" {
		return nil
	}

	watcher := NewKeyWatcher(s.vault, path, rotation.PollInterval, s.SetAPIKeys, s.Logger)
	if err := watcher.Prime(); err != nil {
		s.Logger.LogError(err, "Failed to read API key secret, rotation disabled", "path", path)
		return nil
	}
	if err := watcher.Start(); err != nil {
		s.Logger.LogError(err, "Failed to start API key watcher")
		return nil
	}
	return watcher
}

// performGracefulShutdown handles the graceful shutdown process
func (s *Server) performGracefulShutdown(server *http.Server) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
	defer cancel()

	s.Logger.Info("Shutting down HTTP server...")
	if err := server.Shutdown(shutdownCtx); err != nil {
		s.Logger.LogError(err, "Failed to shutdown server gracefully, forcing close")
		return server.Close()
	}

	s.Logger.Info("Server shutdown completed successfully")
	return nil
}
