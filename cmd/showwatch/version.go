package main

import (
	"encoding/json"

	"github.com/Guilhem-Bonnet/showwatch/internal/buildinfo"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Affiche la version",
		Args:  cobra.NoArgs,
		// Pas besoin de config valide pour afficher la version.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(buildinfo.Current())
		},
	}
}
