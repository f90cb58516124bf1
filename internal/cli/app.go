package cli

import (
	"fmt"

	"hrintel/internal/ai"
	"hrintel/internal/assessment"
	"hrintel/internal/catalog"
	"hrintel/internal/config"
	"hrintel/internal/errors"
	"hrintel/internal/observability"
	"hrintel/internal/store"
	"hrintel/internal/types"
)

// app bundles the services a command runs against.
type app struct {
	holder  *catalog.Holder
	store   *store.Store
	ai      *ai.Service
	service *assessment.Service
}

type appOptions struct {
	withStore bool
	withAI    bool
	metrics   *observability.Metrics
}

// newApp builds the catalog, assessor and the optional store and AI service.
// Callers must Close the result.
func newApp(cfg *config.Config, logger *errors.Logger, opts appOptions) (*app, error) {
	c, source, err := catalog.Resolve(cfg.Catalog.File)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	holder, err := catalog.NewHolder(c, source)
	if err != nil {
		return nil, err
	}

	assessor, err := newAssessor(cfg, holder)
	if err != nil {
		return nil, err
	}

	a := &app{holder: holder}

	// keep the interfaces nil unless a concrete service exists
	var recorder assessment.Recorder
	if opts.withStore {
		if a.store, err = store.Open(cfg.Store.Path); err != nil {
			return nil, err
		}
		recorder = a.store
	}

	var insight assessment.InsightGenerator
	if opts.withAI && cfg.AI.Enabled {
		insightCfg := cfg.GetInsightConfig()
		if a.ai, err = ai.NewService(&insightCfg, opts.metrics, logger); err != nil {
			a.Close()
			return nil, err
		}
		insight = a.ai
	}

	a.service = assessment.NewService(assessor, insight, recorder, logger)
	return a, nil
}

func newAssessor(cfg *config.Config, holder *catalog.Holder) (*assessment.Assessor, error) {
	opts := []assessment.Option{
		assessment.WithDefaultTechnicalWeight(cfg.Assessment.TechnicalWeight),
	}
	if cfg.Assessment.DefaultLevel != "" {
		level, err := types.ParseLevel(cfg.Assessment.DefaultLevel)
		if err != nil {
			return nil, fmt.Errorf("assessment.defaultLevel: %w", err)
		}
		opts = append(opts, assessment.WithDefaultLevel(level))
	}
	return assessment.NewAssessor(holder, opts...), nil
}

// Close releases the store and AI service.
func (a *app) Close() {
	if a.ai != nil {
		_ = a.ai.Close()
	}
	if a.store != nil {
		_ = a.store.Close()
	}
}

// newObservability starts telemetry for long-running commands.
func newObservability(cfg *config.Config, logger *errors.Logger) (*observability.Manager, error) {
	om, err := observability.NewManager(observability.ResolveConfig(cfg, Version), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize observability: %w", err)
	}
	return om, nil
}
