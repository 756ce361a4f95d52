package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"

	service "github.com/okian/talentlab/internal/app"
	"github.com/okian/talentlab/internal/domain/model"
)

// answersFile is the YAML layout accepted by "score --file". Flags override
// the profile fields.
type answersFile struct {
	PlayerID string             `koanf:"player_id"`
	Age      int                `koanf:"age"`
	Position string             `koanf:"position"`
	AgeGroup string             `koanf:"age_group"`
	Answers  map[string]float64 `koanf:"answers"`
}

type scoreOptions struct {
	file       string
	age        int
	position   string
	ageGroup   string
	philosophy string
}

func newScoreCmd(root *rootOptions) *cobra.Command {
	opts := &scoreOptions{}
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score an answers file with the local pipeline",
		Example: `  talentctl score --file answers.yaml --age 15 --position ATT
  talentctl score --file answers.yaml -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScore(cmd, root, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "YAML answers file (required)")
	cmd.Flags().IntVar(&opts.age, "age", 0, "player age in years")
	cmd.Flags().StringVar(&opts.position, "position", "", "playing position: GK, DEF, MID, ATT")
	cmd.Flags().StringVar(&opts.ageGroup, "age-group", "", "benchmark bracket, e.g. U16 (default: derived from age)")
	cmd.Flags().StringVar(&opts.philosophy, "philosophy", "", "coaching philosophy tag for recommendations")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runScore(cmd *cobra.Command, root *rootOptions, opts *scoreOptions) error {
	ctx := cmd.Context()
	doc, err := readAnswers(opts.file)
	if err != nil {
		return err
	}
	if opts.age > 0 {
		doc.Age = opts.age
	}
	if opts.position != "" {
		doc.Position = opts.position
	}
	if opts.ageGroup != "" {
		doc.AgeGroup = opts.ageGroup
	}
	if doc.PlayerID == "" {
		doc.PlayerID = "local"
	}

	cat, err := root.loadCatalog(ctx)
	if err != nil {
		return err
	}
	svc := service.New(cat)
	ev := model.Evaluation{
		PlayerID: doc.PlayerID,
		Age:      doc.Age,
		Position: model.Position(strings.ToUpper(doc.Position)),
		AgeGroup: model.AgeGroup(strings.ToUpper(doc.AgeGroup)),
		Answers:  doc.Answers,
		TS:       time.Now().UTC(),
	}
	report, err := svc.Assess(ctx, ev, opts.philosophy)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if !root.tableOutput(out) {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	return printScoreTable(out, &report)
}

func readAnswers(path string) (answersFile, error) {
	var doc answersFile
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return doc, fmt.Errorf("read answers %s: %w", path, err)
	}
	if err := k.UnmarshalWithConf("", &doc, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return doc, fmt.Errorf("decode answers %s: %w", path, err)
	}
	if len(doc.Answers) == 0 {
		return doc, errors.New("answers file has no answers")
	}
	return doc, nil
}

func printScoreTable(w io.Writer, r *service.Assessment) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "TEST\tPILLAR\tRAW\tSCORE\n")
	for _, s := range r.Result.Scores {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.1f\n", s.TestID, s.Pillar, humanize.Ftoa(s.Raw), s.Score)
	}
	for _, id := range r.Result.Skipped {
		fmt.Fprintf(tw, "%s\t-\t-\tskipped\n", id)
	}
	fmt.Fprintln(tw)

	m := r.Result.Metrics
	fmt.Fprintf(tw, "AGE GROUP\t%s\n", r.Result.AgeGroup)
	for _, p := range model.Pillars() {
		fmt.Fprintf(tw, "%s\t%d\n", p, m.Score(p))
	}
	fmt.Fprintf(tw, "OVR\t%d\n", m.OVR)
	fmt.Fprintln(tw)

	for _, in := range r.Insights {
		fmt.Fprintf(tw, "%s\t%d%% %s the %s average\n", in.Label, in.Percentage, in.Direction, in.AgeGroup)
	}
	if len(r.Insights) > 0 {
		fmt.Fprintln(tw)
	}

	plan := r.Recommendations
	fmt.Fprintf(tw, "FOCUS\t%s\n", plan.WeakestPillar)
	for _, d := range plan.ShortTerm {
		fmt.Fprintf(tw, "short term\t%s (%d min)\n", d.Title, d.DurationMinutes)
	}
	for _, d := range plan.MediumTerm {
		fmt.Fprintf(tw, "medium term\t%s (%d min)\n", d.Title, d.DurationMinutes)
	}
	fmt.Fprintf(tw, "long term\t%s\n", plan.LongTerm)
	return tw.Flush()
}
