package main

import (
	"io"
	"os"
	"strings"

	"github.com/Guilhem-Bonnet/showwatch/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type cli struct {
	cfg    config.Config
	logger zerolog.Logger
	logOut io.Writer
}

func newRootCmd() *cobra.Command {
	c := &cli{cfg: config.Default(), logOut: os.Stdout}

	root := &cobra.Command{
		Use:           "showwatch",
		Short:         "Surveille l'ouverture de nouvelles dates de séances",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.cfg.Validate(); err != nil {
				return err
			}
			c.logger = newLogger(c.logOut, c.cfg.LogLevel, c.cfg.LogPretty)
			log.Logger = c.logger
			return nil
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&c.cfg.WatchlistFile, "watchlist", c.cfg.WatchlistFile, "Fichier watchlist (.json, .json5, .yaml)")
	f.StringVar(&c.cfg.StateFile, "state", c.cfg.StateFile, "Fichier d'état JSON")
	f.StringVar(&c.cfg.StateBackend, "state-backend", c.cfg.StateBackend, "Stockage de l'état: file ou sqlite")
	f.StringVar(&c.cfg.StateDB, "state-db", c.cfg.StateDB, "Chemin SQLite (state-backend=sqlite)")
	f.StringVar(&c.cfg.Timezone, "timezone", c.cfg.Timezone, "Timezone du jour courant (ex: Asia/Kolkata)")
	f.StringVar(&c.cfg.LogLevel, "log-level", c.cfg.LogLevel, "Niveau de log (debug, info, warn, error)")
	f.BoolVar(&c.cfg.LogPretty, "log-pretty", c.cfg.LogPretty, "Logs lisibles (console) au lieu de JSON")

	root.AddCommand(
		newRunCmd(c),
		newDatesCmd(c),
		newStatusCmd(c),
		newServeCmd(c),
		newVersionCmd(),
	)
	return root
}

func newLogger(w io.Writer, level string, pretty bool) zerolog.Logger {
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Str("app", "showwatch").Logger()
}
