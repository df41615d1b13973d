package main

import (
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// status: état de la watchlist et dernière date vue, sans appel réseau.
func newStatusCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Affiche les watchers et la dernière date vue pour chacun",
		Args:  cobra.NoArgs,
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
			st, err := d.store.Load(ctx)
			if err != nil {
				return err
			}

			now := time.Now()
			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"ID", "Movie", "Cinema", "Status", "Expires", "Last max date"})
			active := 0
			for _, w := range list {
				status := "active"
				switch {
				case !w.Enabled:
					status = "disabled"
				case w.Expired(now):
					status = "expired"
				default:
					active++
				}
				expires := "-"
				if w.ExpiresAt != nil {
					expires = w.ExpiresAt.Format(time.RFC3339)
				}
				last := "-"
				if sd, ok := st.LastMax(w.ID); ok {
					last = sd.String()
				}
				t.AppendRow(table.Row{w.ID, w.Movie, w.Cinema, status, expires, last})
			}
			t.AppendFooter(table.Row{"", "", "", active, "", st.Meta.LastHeartbeatDate})
			t.SetStyle(table.StyleRounded)
			t.Render()
			return nil
		},
	}
}
