package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/compozy/standup-digest/engine/orchestrator"
	"github.com/compozy/standup-digest/engine/summarize"
	"github.com/compozy/standup-digest/pkg/config"
)

// ReportCmd generates one report and prints it to stdout.
func ReportCmd() *cobra.Command {
	var (
		project    string
		from       string
		to         string
		provider   string
		model      string
		mode       string
		outputName string
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate a single status report and print it as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			fromTime, toTime, err := parseWindow(from, to)
			if err != nil {
				return err
			}
			orc, err := buildOrchestrator(ctx, cfg, nil)
			if err != nil {
				return err
			}
			resp, err := orc.GenerateReport(ctx, &orchestrator.Request{
				ProjectName: project,
				From:        fromTime,
				To:          toTime,
				Provider:    provider,
				Model:       model,
				Mode:        summarize.Strategy(mode),
				OutputName:  outputName,
			})
			if err != nil {
				return err
			}
			encoded, err := json.MarshalIndent(resp, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
			return nil
		},
	}
	cmd.Flags().StringVar(&project, "project", "", "Project name used in the report (required)")
	cmd.Flags().StringVar(&from, "from", "", "Window start date, YYYY-MM-DD (default: 7 days ago)")
	cmd.Flags().StringVar(&to, "to", "", "Window end date, YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&provider, "provider", "", "Model provider override")
	cmd.Flags().StringVar(&model, "model", "", "Model override")
	cmd.Flags().StringVar(&mode, "mode", "auto", "Summarization mode (auto, stuff, map-reduce)")
	cmd.Flags().StringVar(&outputName, "output-name", "", "Published document name override")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func parseWindow(from, to string) (time.Time, time.Time, error) {
	now := time.Now().UTC().Truncate(24 * time.Hour)
	fromTime := now.AddDate(0, 0, -7)
	toTime := now.AddDate(0, 0, 1)
	if from != "" {
		parsed, err := time.Parse("2006-01-02", from)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --from date: %w", err)
		}
		fromTime = parsed
	}
	if to != "" {
		parsed, err := time.Parse("2006-01-02", to)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --to date: %w", err)
		}
		toTime = parsed
	}
	return fromTime, toTime, nil
}
