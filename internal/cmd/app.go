package cmd

import (
	"fmt"
	"log/slog"

	"github.com/nsrpc/nsrpc/internal/adapter"
	"github.com/nsrpc/nsrpc/internal/catalog"
	"github.com/nsrpc/nsrpc/internal/domain"
	"github.com/nsrpc/nsrpc/internal/presence"
	"github.com/nsrpc/nsrpc/internal/session"
	"github.com/nsrpc/nsrpc/internal/store"
)

// app holds the wired collaborators of one command invocation
type app struct {
	cfg     *adapter.Config
	logger  *slog.Logger
	store   *store.Store
	session *session.Session
}

// newApp loads config and builds the session. console overrides the
// configured default console when non-empty.
func newApp(opts *globalOptions, console string, extra ...session.Option) (*app, error) {
	cfg, err := adapter.LoadConfig(opts.configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := adapter.SetupLogger(&cfg.Logging, opts.verbose)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	}
	slog.SetDefault(logger)
	logger.Info("starting nsrpc", "version", version)

	target := cfg.DefaultConsole()
	if console != "" {
		if target, err = domain.ParseConsoleTarget(console); err != nil {
			return nil, err
		}
	}

	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	if legacy := store.LegacyPinsPath(); legacy != "" {
		if n, err := st.ImportLegacyPins(legacy); err != nil {
			logger.Warn("failed to import legacy pins", "path", legacy, "error", err)
		} else if n > 0 {
			logger.Info("imported legacy pins", "path", legacy, "count", n)
		}
	}

	source, err := catalog.NewSource(cfg, logger)
	if err != nil {
		st.Close()
		return nil, err
	}

	sessionOpts := append([]session.Option{
		session.WithTarget(target),
		session.WithStatusText(cfg.Session.DefaultStatus),
		session.WithLogger(logger),
	}, extra...)

	sess := session.New(session.Deps{
		Catalogs: source,
		Sink:     presence.NewDiscordSink(cfg.ClientID, logger),
		Pins:     st,
		Cache:    st,
	}, sessionOpts...)

	return &app{cfg: cfg, logger: logger, store: st, session: sess}, nil
}

// close disconnects presence when connected was true and closes the store
func (a *app) close(connected bool) {
	if connected {
		if err := a.session.Close(); err != nil {
			a.logger.Warn("failed to disconnect presence", "error", err)
		}
	}
	if err := a.store.Close(); err != nil {
		a.logger.Warn("failed to close store", "error", err)
	}
	a.logger.Info("shutting down")
}
