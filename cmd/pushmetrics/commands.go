package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"pushmetrics/internal/dataset"
	"pushmetrics/internal/export"
	"pushmetrics/internal/formatter"
	"pushmetrics/internal/sample"
	"pushmetrics/internal/summary"
	"pushmetrics/pkg/metadata"
)

func (a *app) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check every export against its schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bundle, loadErr := a.load()
			if bundle == nil {
				return loadErr
			}

			for _, kind := range a.reg.Kinds() {
				file, ok := bundle.Files[kind]
				if !ok {
					continue
				}

				t := bundle.Tables[kind]
				fmt.Fprintf(a.out, "ok       %-14s %s (%d rows)\n", kind, file, t.Len())
			}

			for _, kind := range bundle.Missing {
				fmt.Fprintf(a.out, "missing  %s\n", kind)
			}

			if loadErr != nil {
				for _, line := range strings.Split(loadErr.Error(), "\n") {
					fmt.Fprintf(a.out, "error    %s\n", line)
				}
			}

			if loadErr != nil || len(bundle.Missing) > 0 {
				return ErrInvalidData
			}

			fmt.Fprintln(a.out, "All datasets valid.")

			return nil
		},
	}
}

func (a *app) summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print summary metrics for the selected date range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bundle, err := a.load()
			if bundle == nil {
				return err
			}

			if err != nil {
				a.log.Warn("continuing with partial data", "error", err)
			}

			r, err := a.dateRange(bundle)
			if err != nil {
				return err
			}

			rep := summary.Summarize(bundle.Tables, a.reg, r, a.cfg.Thresholds)
			fmt.Fprint(a.out, formatter.RenderSummary(rep, a.reg))

			return nil
		},
	}
}

func (a *app) campaignsCmd() *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:   "campaigns",
		Short: "Print campaign performance ranked by delivered messages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bundle, err := a.load()
			if bundle == nil {
				return err
			}

			t := bundle.Table(dataset.Campaigns)
			if t == nil {
				return fmt.Errorf("%w: no campaign export loaded", ErrInvalidData)
			}

			schema, err := a.reg.Lookup(dataset.Campaigns)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("top") {
				top = a.cfg.Campaigns.Top
			}

			cs := summary.CampaignsFrom(t, schema)
			st := summary.SummarizeCampaigns(cs, a.cfg.Thresholds)

			fmt.Fprint(a.out, formatter.RenderCampaigns(summary.RankByDelivered(cs, top), a.cfg.Thresholds, a.cfg.Campaigns.MaxNameWidth))
			fmt.Fprintf(a.out, "\n%d of %d campaigns above %s CTR\n",
				st.TopPerforming, st.Count, formatter.FormatPercentage(a.cfg.Thresholds.CTRHigh))

			return nil
		},
	}

	cmd.Flags().IntVarP(&top, "top", "n", 10, "Number of campaigns to show (0 for all)")

	return cmd
}

func (a *app) exportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write filtered datasets, summary.csv and a manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bundle, err := a.load()
			if bundle == nil {
				return err
			}

			if err != nil {
				a.log.Warn("continuing with partial data", "error", err)
			}

			r, err := a.dateRange(bundle)
			if err != nil {
				return err
			}

			dir := a.cfg.Export.Dir
			if out != "" {
				dir = out
			}

			m, err := export.New(dir, a.reg, a.log).Export(bundle.Tables, r, a.cfg.Thresholds)
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "Exported %d files to %s (run %s)\n", len(m.Files), dir, m.RunID)

			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Export directory (overrides export.dir)")

	return cmd
}

func (a *app) verifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify [export-dir]",
		Short: "Re-hash an export directory against its manifest",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := a.cfg.Export.Dir
			if len(args) == 1 {
				dir = args[0]
			}

			m, err := metadata.Verify(dir)
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "Verified %d files in %s (run %s)\n", len(m.Files), dir, m.RunID)

			return nil
		},
	}
}

func (a *app) sampleCmd() *cobra.Command {
	var (
		end    string
		days   int
		seed   uint64
		prefix string
		blank  int
	)

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Generate deterministic sample exports into --dir",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := sample.Options{Days: days, Seed: seed, BlankEvery: blank, Registry: a.reg}

			if end != "" {
				ts, err := time.Parse(time.DateOnly, end)
				if err != nil {
					return fmt.Errorf("invalid end date %q: %w", end, err)
				}

				opts.End = ts
			}

			paths, err := sample.WriteDir(a.cfg.Input.Dir, prefix, opts)
			if err != nil {
				return err
			}

			for _, p := range paths {
				fmt.Fprintf(a.out, "wrote %s\n", p)
			}

			a.log.Info("sample data generated", "dir", a.cfg.Input.Dir, "days", opts.Days, "seed", seed)

			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&end, "end", "", "Last day of generated data (YYYY-MM-DD, default today)")
	f.IntVar(&days, "days", 90, "Number of days to generate")
	f.Uint64Var(&seed, "seed", 42, "Random seed")
	f.StringVar(&prefix, "prefix", "sample_", "File name prefix")
	f.IntVar(&blank, "blank-every", 0, "Leave revenue empty every n-th day")

	return cmd
}
