package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/okian/talentlab/internal/domain/catalog"
	"github.com/okian/talentlab/pkg/logger"
)

// Output formats.
const (
	outputAuto  = "auto"
	outputTable = "table"
	outputJSON  = "json"
)

type rootOptions struct {
	catalogPath string
	logLevel    string
	output      string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "talentctl",
		Short: "Operator CLI for the talentlab scoring service",
		Long: `talentctl scores evaluation answers with the same pipeline the server
uses, validates catalog files and seeds a running server with synthetic
player histories.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := logger.Init(logger.WithWriter(cmd.ErrOrStderr())); err != nil {
				return err
			}
			if err := logger.SetLevelString(opts.logLevel); err != nil {
				return err
			}
			switch opts.output {
			case outputAuto, outputTable, outputJSON:
				return nil
			default:
				return fmt.Errorf("unknown output format %q", opts.output)
			}
		},
	}
	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.PersistentFlags().StringVar(&opts.catalogPath, "catalog", "", "catalog YAML file (default: embedded catalog)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	cmd.PersistentFlags().StringVarP(&opts.output, "output", "o", outputAuto, "output format: auto, table, json")

	cmd.AddCommand(newScoreCmd(opts), newCatalogCmd(opts), newSeedCmd(opts))
	return cmd
}

func (o *rootOptions) loadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	return catalog.Load(ctx, o.catalogPath)
}

// tableOutput reports whether results written to w should be rendered as a
// table: always for "table", on a terminal for "auto".
func (o *rootOptions) tableOutput(w io.Writer) bool {
	switch o.output {
	case outputTable:
		return true
	case outputJSON:
		return false
	}
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
