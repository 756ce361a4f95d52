package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/okian/talentlab/internal/domain/catalog"
)

func newCatalogCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect reference catalogs",
	}

	var path string
	validate := &cobra.Command{
		Use:   "validate",
		Short: "Load and validate a catalog file",
		Long: `Loads a catalog the way the server does and reports what it contains.
Without --path the embedded catalog is validated.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if path == "" {
				path = root.catalogPath
			}
			cat, err := catalog.Load(cmd.Context(), path)
			if err != nil {
				return err
			}

			stats := cat.Stats()
			out := cmd.OutOrStdout()
			if !root.tableOutput(out) {
				return json.NewEncoder(out).Encode(map[string]any{"valid": true, "stats": stats})
			}

			keys := make([]string, 0, len(stats))
			for k := range stats {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "catalog is valid")
			for _, k := range keys {
				fmt.Fprintf(tw, "%s\t%d\n", k, stats[k])
			}
			return tw.Flush()
		},
	}
	validate.Flags().StringVar(&path, "path", "", "catalog YAML file (default: --catalog or the embedded catalog)")

	cmd.AddCommand(validate)
	return cmd
}
