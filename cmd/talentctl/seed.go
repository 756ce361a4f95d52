package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/okian/talentlab/internal/domain/types"
	"github.com/okian/talentlab/internal/seed"
)

// seedTopN is the number of leaderboard rows printed after seeding.
const seedTopN = 10

func newSeedCmd(root *rootOptions) *cobra.Command {
	cfg := seed.Config{}
	var settle time.Duration
	cmd := &cobra.Command{
		Use:     "seed",
		Short:   "Post synthetic improving player histories to a running server",
		Example: `  talentctl seed --url http://localhost:8080 --players 50 --sessions 8`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cat, err := root.loadCatalog(ctx)
			if err != nil {
				return err
			}
			if cfg.Seed == 0 {
				cfg.Seed = uint64(time.Now().UnixNano())
			}
			stats, err := seed.Run(ctx, cat, cfg)
			if err != nil {
				return err
			}

			// Scoring is asynchronous; give the workers a moment before reading the board.
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(settle):
			}
			board, err := seed.NewClient(cfg.BaseURL, cfg.Timeout).Leaderboard(ctx, seedTopN)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !root.tableOutput(out) {
				return json.NewEncoder(out).Encode(map[string]any{"stats": stats, "leaderboard": board})
			}
			return printSeedTable(cmd, stats, board)
		},
	}
	cmd.Flags().StringVar(&cfg.BaseURL, "url", "http://localhost:8080", "base URL of the server")
	cmd.Flags().IntVar(&cfg.Players, "players", 20, "number of synthetic players")
	cmd.Flags().IntVar(&cfg.Sessions, "sessions", 6, "evaluations per player")
	cmd.Flags().IntVar(&cfg.Workers, "workers", 4, "concurrent submitters")
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", 10*time.Second, "HTTP request timeout")
	cmd.Flags().DurationVar(&cfg.Interval, "interval", 7*24*time.Hour, "time between a player's sessions")
	cmd.Flags().Uint64Var(&cfg.Seed, "seed", 0, "random seed (default: time based)")
	cmd.Flags().DurationVar(&settle, "settle", 500*time.Millisecond, "wait before reading the leaderboard")
	return cmd
}

func printSeedTable(cmd *cobra.Command, stats seed.Stats, board []types.Entry) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "players\t%s\n", humanize.Comma(int64(stats.Players)))
	fmt.Fprintf(tw, "accepted\t%s of %s\n", humanize.Comma(int64(stats.Accepted)), humanize.Comma(int64(stats.Generated)))
	fmt.Fprintf(tw, "duplicates\t%s\n", humanize.Comma(int64(stats.Duplicates)))
	fmt.Fprintf(tw, "failed\t%s\n", humanize.Comma(int64(stats.Failed)))
	fmt.Fprintf(tw, "took\t%s\n", stats.Duration.Round(time.Millisecond))
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "RANK\tPLAYER\tOVR\tPOSITION\tAGE GROUP\tLAST EVALUATED")
	for _, e := range board {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\n",
			humanize.Ordinal(e.Rank), e.PlayerID, e.OVR, e.Position, e.AgeGroup, humanize.Time(e.Evaluated))
	}
	return tw.Flush()
}
