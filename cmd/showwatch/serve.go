package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Guilhem-Bonnet/showwatch/internal/adapters/httpapi"
	"github.com/Guilhem-Bonnet/showwatch/internal/adapters/memorybus"
	"github.com/Guilhem-Bonnet/showwatch/internal/app"
	"github.com/Guilhem-Bonnet/showwatch/internal/buildinfo"
	"github.com/spf13/cobra"
)

// serve: runs planifiés (cron) + API de statut et flux SSE.
func newServeCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Lance les runs selon un planning cron et expose l'API de statut",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.serve(cmd.Context())
		},
	}
	f := cmd.Flags()
	f.StringVar(&c.cfg.Addr, "addr", c.cfg.Addr, "Adresse d'écoute (ex: 127.0.0.1:8080)")
	f.StringVar(&c.cfg.Schedule, "schedule", c.cfg.Schedule, "Expression cron des runs")
	f.BoolVar(&c.cfg.HeartbeatEnabled, "heartbeat", c.cfg.HeartbeatEnabled, "Message de vie quotidien")
	f.BoolVar(&c.cfg.AllowAutoDisable, "allow-auto-disable", c.cfg.AllowAutoDisable, "Désactive le workflow quand plus aucun watcher n'est actif")
	f.DurationVar(&c.cfg.FetchDelay, "fetch-delay", c.cfg.FetchDelay, "Pause entre deux watchers")
	return cmd
}

func (c *cli) serve(parent context.Context) error {
	logger := c.logger
	logger.Info().Stringer("build", buildinfo.Current()).Str("addr", c.cfg.Addr).Msg("starting")

	shutdownCtx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	d, err := wire(shutdownCtx, logger, c.cfg)
	if err != nil {
		return err
	}
	defer d.Close()

	bus := memorybus.New()
	defer bus.Close()
	d.runner.WithBus(bus)

	loc, err := c.cfg.Location()
	if err != nil {
		return err
	}
	scheduler := app.NewRunScheduler(component(logger, "scheduler"), d.runner, c.cfg.Schedule)
	scheduler.Location = loc
	schedErr := make(chan error, 1)
	go func() { schedErr <- scheduler.Run(shutdownCtx) }()

	srv := httpapi.NewServer(logger, d.runner, d.watchlist, d.store, bus)
	httpServer := &http.Server{
		Addr:              c.cfg.Addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", c.cfg.Addr).Msg("listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server crashed")
			stop()
		}
	}()

	select {
	case <-shutdownCtx.Done():
	case err := <-schedErr:
		if err != nil {
			logger.Error().Err(err).Str("schedule", c.cfg.Schedule).Msg("invalid schedule")
			stop()
			shutdown(httpServer)
			return err
		}
	}
	logger.Info().Msg("shutting down")
	shutdown(httpServer)
	logger.Info().Msg("bye")
	return nil
}

func shutdown(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
}
