package main

import (
	"fmt"

	"github.com/Guilhem-Bonnet/showwatch/internal/app"
	"github.com/spf13/cobra"
)

// dates <id>: affiche les dates en ligne pour un watcher, sans toucher à l'état.
func newDatesCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "dates <watcher-id>",
		Short: "Affiche les dates disponibles pour un watcher (lecture seule)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d, err := wire(ctx, c.logger, c.cfg)
			if err != nil {
				return err
			}
			defer d.Close()

			list, err := d.watchlist.Load(ctx)
			if err != nil {
				return err
			}
			for _, w := range list {
				if w.ID != args[0] {
					continue
				}
				dates, err := d.fetcher.FetchDates(ctx, w.URL, d.runner.Today())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s (%s @ %s)\n", w.ID, w.Movie, w.Cinema)
				if len(dates) == 0 {
					fmt.Fprintln(out, "no dates listed")
					return nil
				}
				for _, sd := range dates {
					fmt.Fprintln(out, sd.String())
				}
				fmt.Fprintf(out, "latest: %s\n", dates[len(dates)-1].Long())
				return nil
			}
			return fmt.Errorf("watcher %q: %w", args[0], app.ErrNotFound)
		},
	}
}
