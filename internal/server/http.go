package server

import (
	"context"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"hrintel/internal/ai"
	"hrintel/internal/assessment"
	"hrintel/internal/catalog"
	"hrintel/internal/config"
	"hrintel/internal/errors"
	"hrintel/internal/observability"
	"hrintel/internal/types"
)

// AssessRequest is the body of POST /assess.
type AssessRequest struct {
	JobDescription  string `json:"jobDescription" validate:"required"`
	CandidateName   string `json:"candidateName" validate:"max=200"`
	Level           string `json:"level" validate:"max=20"`
	TechnicalWeight *int   `json:"technicalWeight" validate:"omitempty,gte=0,lte=100"`
	MinQuestions    int    `json:"minQuestions" validate:"gte=0,lte=100"`
	MaxQuestions    int    `json:"maxQuestions" validate:"gte=0,lte=100"`
	Save            bool   `json:"save"`
	AI              bool   `json:"ai"`
}

// ExtractRequest is the body of POST /extract.
type ExtractRequest struct {
	JobDescription string `json:"jobDescription" validate:"required"`
}

// ScoreRequest is the body of POST /results.
type ScoreRequest struct {
	CandidateName string `json:"candidateName" validate:"required,max=200"`
	JDTitle       string `json:"jdTitle" validate:"max=200"`
	types.CandidateScores
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HistoryStore is the part of the store the API reads and writes.
type HistoryStore interface {
	ListAssessments(ctx context.Context, limit int) (types.AssessmentHistory, error)
	GetAssessment(ctx context.Context, id string) (types.AssessmentRecord, error)
	SaveResult(ctx context.Context, r types.CandidateResult) (types.CandidateResult, error)
	TopCandidates(ctx context.Context, limit int) (types.ResultList, error)
	ClearResults(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}

// ModelChecker reports on the AI backend for /health and /stats.
type ModelChecker interface {
	GetModelInfo(ctx context.Context) *ai.ModelInfo
	Stats() map[string]any
}

// KeySource returns the current API key list, e.g. from Vault.
type KeySource interface {
	GetSecretV2(path string) (*config.VaultSecret, error)
}

// Deps are the services a Server exposes.
type Deps struct {
	Service       *assessment.Service
	Store         HistoryStore
	Holder        *catalog.Holder
	AI            ModelChecker
	Observability *observability.Manager
	Vault         KeySource
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	AppConfig *config.Config
	TLSConfig config.TLSConfig

	// API Authentication
	apiKeysMu sync.RWMutex
	apiKeys   map[string]bool

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	MaxRequestSize int64

	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	service  *assessment.Service
	store    HistoryStore
	holder   *catalog.Holder
	ai       ModelChecker
	om       *observability.Manager
	vault    KeySource
	validate *validator.Validate

	Logger *errors.Logger
}

// NewServer creates a Server from the application config.
func NewServer(appCfg *config.Config, version string, deps Deps, logger *errors.Logger) *Server {
	cfg := appCfg.Server

	var rateLimiter *RateLimiter
	if cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(cfg.RateLimit.RequestsPerMin, cfg.RateLimit.BurstCapacity, logger)
	}

	s := &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        version,
		AppConfig:      appCfg,
		TLSConfig:      cfg.TLS,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		RateLimit:      &cfg.RateLimit,
		RateLimiter:    rateLimiter,
		service:        deps.Service,
		store:          deps.Store,
		holder:         deps.Holder,
		ai:             deps.AI,
		om:             deps.Observability,
		vault:          deps.Vault,
		validate:       validator.New(validator.WithRequiredStructEnabled()),
		Logger:         logger,
	}
	s.SetAPIKeys(cfg.APIKeys)
	return s
}

// SetAPIKeys replaces the accepted API keys. An empty list disables
// authentication.
func (s *Server) SetAPIKeys(keys []string) {
	keyMap := make(map[string]bool, len(keys))
	for _, key := range keys {
		if key != "" {
			keyMap[key] = true
		}
	}
	s.apiKeysMu.Lock()
	s.apiKeys = keyMap
	s.apiKeysMu.Unlock()
}

// checkAPIKey reports whether authentication is enabled and key is accepted.
func (s *Server) checkAPIKey(key string) (enabled, ok bool) {
	s.apiKeysMu.RLock()
	defer s.apiKeysMu.RUnlock()
	return len(s.apiKeys) > 0, s.apiKeys[key]
}

func (s *Server) apiKeyCount() int {
	s.apiKeysMu.RLock()
	defer s.apiKeysMu.RUnlock()
	return len(s.apiKeys)
}

func (s *Server) metrics() *observability.Metrics {
	return s.om.Metrics()
}
