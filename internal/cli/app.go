package cli

import (
	"context"
	"time"

	"smarthire/internal/backend"
	"smarthire/internal/config"
	"smarthire/internal/contact"
	"smarthire/internal/errors"
	"smarthire/internal/extract"
	"smarthire/internal/observability"
	"smarthire/internal/redact"
	"smarthire/internal/render"
	"smarthire/internal/session"
	"smarthire/internal/shortlist"
	"smarthire/internal/store"
	"smarthire/internal/types"
)

// app bundles the wired components every command needs
type app struct {
	cfg       *config.Config
	logger    *errors.Logger
	store     *store.Store
	settings  types.Settings
	shortlist *shortlist.Manager
	session   *session.State
	renderer  *render.Renderer
	redactor  *redact.Engine
	extractor extract.ContactExtractor
	client    *backend.Client
	assembler *contact.Assembler
	obs       *observability.ObservabilityManager
}

// newApp wires the application from configuration. Close must be
// called when the command finishes.
func newApp(cfg *config.Config, logger *errors.Logger) (*app, error) {
	st, err := store.Open(cfg.Storage.Path)
	if err != nil {
		return nil, err
	}

	defaults := types.DefaultSettings()
	defaults.ScoreThreshold = cfg.AI.ScoreThreshold
	settings, err := st.LoadSettings(defaults)
	if err != nil {
		st.Close()
		return nil, err
	}
	// the config file can force AI off regardless of stored settings
	if !cfg.AI.Enabled {
		settings.GenAIEnabled = false
	}

	sl, err := shortlist.NewManager(st)
	if err != nil {
		st.Close()
		return nil, err
	}

	obs, err := observability.NewObservabilityManager(cfg.Observability)
	if err != nil {
		st.Close()
		return nil, err
	}

	extractor := extract.NewHeuristicExtractor()
	aiCfg := cfg.AI
	aiCfg.Enabled = settings.GenAIEnabled
	client := backend.NewClient(cfg.Backend, aiCfg, logger)
	client.SetMetrics(obs.GetMetrics())

	return &app{
		cfg:       cfg,
		logger:    logger,
		store:     st,
		settings:  settings,
		shortlist: sl,
		session:   session.NewState(),
		renderer:  render.NewRenderer(sl),
		redactor:  redact.NewEngine(extractor),
		extractor: extractor,
		client:    client,
		assembler: contact.NewAssembler(client, extractor, logger),
		obs:       obs,
	}, nil
}

// restoreSession loads the previous run's results and job description
// so commands can operate on them without re-screening
func (a *app) restoreSession() error {
	var results []types.CandidateResult
	if _, err := a.store.GetJSON(store.KeyLastResults, &results); err != nil {
		return err
	}
	a.session.SetResults(results)

	if runID, ok, err := a.store.Get(store.KeyLastRunID); err != nil {
		return err
	} else if ok {
		a.session.RestoreRunID(runID)
	}

	jd, _, err := a.store.Get(store.KeyLastJobDescription)
	if err != nil {
		return err
	}
	a.session.SetJobDescription(jd)
	return nil
}

// saveSession persists the current run for later commands
func (a *app) saveSession() error {
	if err := a.store.PutJSON(store.KeyLastResults, a.session.Results()); err != nil {
		return err
	}
	if err := a.store.Put(store.KeyLastRunID, a.session.RunID()); err != nil {
		return err
	}
	return a.store.Put(store.KeyLastJobDescription, a.session.JobDescription())
}

func (a *app) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.obs.Shutdown(ctx); err != nil {
		a.logger.Warn("failed to shut down observability", "error", err)
	}
	if err := a.store.Close(); err != nil {
		a.logger.Warn("failed to close store", "error", err)
	}
}

// renderOptions builds render options from settings and flag overrides
func (a *app) renderOptions(blind bool, threshold int) render.Options {
	opts := render.Options{
		Blind:        blind || a.settings.BlindMode,
		Threshold:    a.settings.ScoreThreshold,
		GenAIEnabled: a.settings.GenAIEnabled,
	}
	if threshold >= 0 {
		opts.Threshold = threshold
	}
	return opts
}
