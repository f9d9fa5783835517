package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/five82/rosarium/internal/api"
	"github.com/five82/rosarium/internal/catalog"
	"github.com/five82/rosarium/internal/config"
	"github.com/five82/rosarium/internal/logging"
	"github.com/five82/rosarium/internal/mutate"
	"github.com/five82/rosarium/internal/notify"
	"github.com/five82/rosarium/internal/prefs"
	"github.com/five82/rosarium/internal/query"
	"github.com/five82/rosarium/internal/session"
	"github.com/five82/rosarium/internal/ui"
)

// Options configure the Rosarium application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/rosarium/prefs.toml
	Debug      bool   // verbose request logging
}

// Run boots the Rosarium TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	userPrefs := prefs.Load(opts.PrefsPath)

	logger, err := logging.New(cfg.LogPath(), opts.Debug)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	tokens, err := session.LoadTokens(cfg.TokenPath)
	if err != nil {
		return fmt.Errorf("load session tokens: %w", err)
	}

	transport, err := api.NewClient(cfg.APIBase, tokens, logger)
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}

	sessions := session.NewStore(transport, tokens, logger)
	roses := catalog.NewClient(transport)
	notices := notify.NewChannel()

	var controller *query.Controller
	actions := mutate.New(transport, notices, func() {
		// Post-mutation refresh signal: drop the whole cache, re-fetch on
		// the next resolve. Full reload over incremental merge.
		controller.Invalidate()
	}, logger)
	controller = query.NewController(roses, func(ctx context.Context, id int64) error {
		return actions.Remove(ctx, "roses", id, "Rose")
	})

	logger.Info("starting",
		zap.String("api_base", cfg.APIBase),
		zap.Bool("authenticated", sessions.IsAuthenticated()))

	return ui.Run(ui.Options{
		Context:    ctx,
		Transport:  transport,
		Session:    sessions,
		Controller: controller,
		Catalog:    roses,
		Actions:    actions,
		Notices:    notices,
		ThemeName:  userPrefs.Theme,
		Ordering:   userPrefs.Ordering,
		PrefsPath:  opts.PrefsPath,
	})
}
