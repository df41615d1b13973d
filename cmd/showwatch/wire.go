package main

import (
	"context"
	"fmt"

	"github.com/Guilhem-Bonnet/showwatch/internal/adapters/district"
	"github.com/Guilhem-Bonnet/showwatch/internal/adapters/gitcommit"
	"github.com/Guilhem-Bonnet/showwatch/internal/adapters/github"
	"github.com/Guilhem-Bonnet/showwatch/internal/adapters/sqlite"
	"github.com/Guilhem-Bonnet/showwatch/internal/adapters/statefile"
	"github.com/Guilhem-Bonnet/showwatch/internal/adapters/telegram"
	"github.com/Guilhem-Bonnet/showwatch/internal/adapters/watchlist"
	"github.com/Guilhem-Bonnet/showwatch/internal/app"
	"github.com/Guilhem-Bonnet/showwatch/internal/config"
	"github.com/Guilhem-Bonnet/showwatch/internal/ports"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

type deps struct {
	watchlist *watchlist.File
	store     ports.StateStore
	fetcher   *district.Fetcher
	runner    *app.Runner

	closers []func() error
}

func (d *deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		_ = d.closers[i]()
	}
}

// wire assemble les adapters à partir de la Config.
func wire(ctx context.Context, logger zerolog.Logger, cfg config.Config) (*deps, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("timezone: %w", err)
	}
	d := &deps{
		watchlist: watchlist.NewFile(cfg.WatchlistFile),
		fetcher:   district.NewFetcher(district.NewClient(cfg.HTTPTimeout, cfg.UserAgent), nil),
	}

	statePath := cfg.StateFile
	switch cfg.StateBackend {
	case config.StateBackendSQLite:
		db, err := sqlite.Open(ctx, cfg.StateDB)
		if err != nil {
			return nil, fmt.Errorf("open state db: %w", err)
		}
		d.closers = append(d.closers, db.Close)
		d.store = sqlite.NewStateRepository(db.SQL)
		statePath = cfg.StateDB
	default:
		d.store = statefile.New(cfg.StateFile)
	}

	api := resty.New().SetTimeout(cfg.HTTPTimeout)
	notifier := telegram.NewNotifier(component(logger, "telegram"), api, cfg.TelegramAPIURL, cfg.TelegramBotToken, cfg.TelegramChatID)
	if notifier.DryRun() {
		logger.Warn().Msg("TELEGRAM_BOT_TOKEN not set, notifications are logged only")
	}

	var persister ports.StatePersister = gitcommit.Noop{}
	if cfg.CommitState {
		persister = gitcommit.New(component(logger, "gitcommit"), ".", statePath)
	}

	opts := app.DefaultRunnerOptions()
	opts.HeartbeatEnabled = cfg.HeartbeatEnabled
	opts.AllowAutoDisable = cfg.AllowAutoDisable
	opts.FetchDelay = cfg.FetchDelay
	opts.Location = loc

	d.runner = app.NewRunner(component(logger, "runner"), d.watchlist, d.store, d.fetcher, notifier, opts).
		WithPersister(persister)
	if cfg.CanDisableWorkflow() {
		d.runner.WithDisabler(github.NewWorkflowDisabler(api, cfg.GitHubAPIURL, cfg.GitHubRepository, cfg.GitHubWorkflowFile, cfg.GitHubToken))
	}
	return d, nil
}

func component(logger zerolog.Logger, name string) zerolog.Logger {
	return logger.With().Str("component", name).Logger()
}
