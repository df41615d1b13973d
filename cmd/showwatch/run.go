package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Guilhem-Bonnet/showwatch/internal/app"
	"github.com/Guilhem-Bonnet/showwatch/internal/buildinfo"
	"github.com/spf13/cobra"
)

func newRunCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Exécute un passage complet sur la watchlist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return c.run(ctx)
		},
	}
	f := cmd.Flags()
	f.BoolVar(&c.cfg.HeartbeatEnabled, "heartbeat", c.cfg.HeartbeatEnabled, "Message de vie quotidien")
	f.BoolVar(&c.cfg.AllowAutoDisable, "allow-auto-disable", c.cfg.AllowAutoDisable, "Désactive le workflow quand plus aucun watcher n'est actif")
	f.BoolVar(&c.cfg.CommitState, "commit-state", c.cfg.CommitState, "Commit + push du fichier d'état (git)")
	f.DurationVar(&c.cfg.FetchDelay, "fetch-delay", c.cfg.FetchDelay, "Pause entre deux watchers")
	return cmd
}

func (c *cli) run(ctx context.Context) error {
	c.logger.Info().Stringer("build", buildinfo.Current()).Str("watchlist", c.cfg.WatchlistFile).Msg("starting")

	d, err := wire(ctx, c.logger, c.cfg)
	if err != nil {
		return err
	}
	defer d.Close()

	res, err := d.runner.Run(ctx)
	if err != nil {
		c.logger.Error().Err(err).Str("run_id", res.RunID).Msg("run failed")
		return err
	}
	if res.Outcome == app.OutcomeExhausted {
		c.logger.Info().Bool("workflow_disabled", res.WorkflowDisabled).Msg("no active watchers, nothing to check")
	}
	return nil
}
