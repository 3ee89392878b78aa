package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"edakit/adapters/excel"
	"edakit/app"
	"edakit/internal"
	"edakit/internal/config"
	"edakit/internal/errors"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type globals struct {
	cfg     *config.Config
	logger  *internal.Logger
	service *app.ScreeningService
	sheet   string
	output  string
}

func main() {
	_ = godotenv.Load()

	g := &globals{}
	rootCmd := &cobra.Command{
		Use:           "edakit",
		Short:         "Feature screening for binary classification datasets",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.init(cmd)
		},
	}
	rootCmd.PersistentFlags().String("policy", "", "YAML policy file (overrides EDAKIT_POLICY_FILE)")
	rootCmd.PersistentFlags().StringVar(&g.sheet, "sheet", "", "worksheet to read from xlsx input (default: first sheet)")
	rootCmd.PersistentFlags().StringVarP(&g.output, "output", "o", "text", "output format: text|json|markdown|html")
	rootCmd.PersistentFlags().Int("workers", 0, "concurrent feature scans (0: one per CPU)")

	rootCmd.AddCommand(
		newRecommendCmd(g),
		newScanCmd(g),
		newRatioCmd(g),
		newImputeCmd(g),
		newPlotCmd(g),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(errors.ExitCode(err))
	}
}

func (g *globals) init(cmd *cobra.Command) error {
	if path, _ := cmd.Flags().GetString("policy"); path != "" {
		os.Setenv("EDAKIT_POLICY_FILE", path)
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("workers") {
		cfg.Screening.Policy.Workers, _ = cmd.Flags().GetInt("workers")
	}
	if g.sheet == "" {
		g.sheet = cfg.Screening.Sheet
	}

	g.cfg = cfg
	g.logger = internal.NewConfiguredLogger(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	g.service, err = app.NewScreeningService(cfg.Screening.Policy, cfg.Screening.DropThreshold, g.logger)
	return err
}

func (g *globals) load(path, target string) (*app.Prepared, error) {
	p, err := g.service.LoadFile(path, g.sheet, target)
	if err != nil {
		return nil, err
	}
	g.logger.Debug("loaded %s: %s", path, p.Describe())
	return p, nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newRecommendCmd(g *globals) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "recommend [file] [target]",
		Short: "Recommend Random Forest or Logistic Regression for a dataset",
		Long: `Impute missing values, scan every feature for tail and interior
separability, score the sample/feature ratio and recommend a model family.

Example: edakit recommend churn.xlsx churned -o markdown`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := g.load(args[0], args[1])
			if err != nil {
				return err
			}
			rep, err := g.service.Recommend(cmd.Context(), p, verbose || g.cfg.Screening.Verbose)
			if err != nil {
				return err
			}

			switch g.output {
			case "json":
				return printJSON(rep)
			case "markdown":
				_, err = fmt.Fprint(os.Stdout, rep.Markdown())
			case "html":
				_, err = os.Stdout.Write(rep.HTML())
			default:
				d := rep.Decision
				_, err = fmt.Printf("%s is the better option (score %.3f, threshold %.3f)\n",
					d.Recommendation.Label(), d.Score, d.Threshold)
			}
			return err
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log the per-category feature lists")
	return cmd
}

func newScanCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "scan [file] [target]",
		Short: "Classify every feature by tail and interior separability",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := g.load(args[0], args[1])
			if err != nil {
				return err
			}
			out, err := g.service.Scan(cmd.Context(), p)
			if err != nil {
				return err
			}
			if g.output == "json" {
				return printJSON(out)
			}

			for _, v := range out.Verdicts {
				internalVerdict := "-"
				if v.Internal != nil {
					internalVerdict = strconv.FormatBool(v.Internal.Separable)
				}
				fmt.Printf("%-24s tails=%s external=%t internal=%s\n",
					out.Features[v.Feature], v.External.Descriptor, v.External.Separable, internalVerdict)
			}
			fmt.Printf("lr=%v rf=%v half=%v internal=%v\n",
				out.Result.LR, out.Result.RF, out.Result.Half, out.Result.Internal)
			return nil
		},
	}
}

func newRatioCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "ratio [samples] [features]",
		Short: "Score a sample/feature ratio",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return errors.InvalidInput("samples must be an integer")
			}
			f, err := strconv.Atoi(args[1])
			if err != nil {
				return errors.InvalidInput("features must be an integer")
			}
			score, err := g.service.Ratio(n, f)
			if err != nil {
				return err
			}
			fmt.Printf("%.2f\n", score)
			return nil
		},
	}
}

func newImputeCmd(g *globals) *cobra.Command {
	var threshold float64

	cmd := &cobra.Command{
		Use:   "impute [file]",
		Short: "Fill missing cells with column medians and drop sparse columns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, dataErrs, err := excel.LoadTable(args[0], g.sheet, "", g.logger)
			if err != nil {
				return err
			}
			for _, de := range dataErrs {
				g.logger.Warn("%v", de)
			}

			var override *float64
			if cmd.Flags().Changed("drop-threshold") {
				override = &threshold
			}
			result, err := g.service.Impute(table, override)
			if err != nil {
				return err
			}
			if g.output == "json" {
				return printJSON(result)
			}
			fmt.Printf("dropped: %v\n", result.Dropped)
			for _, name := range result.Table.Columns {
				if m, ok := result.Medians[name]; ok {
					fmt.Printf("%s: filled with median %.4g\n", name, m)
				}
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&threshold, "drop-threshold", 0.5, "drop columns with at least this fraction missing")
	return cmd
}

func newPlotCmd(g *globals) *cobra.Command {
	var bins int

	cmd := &cobra.Command{
		Use:   "plot [file] [target] [feature]",
		Short: "Draw the per-class distribution of one feature",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := g.load(args[0], args[1])
			if err != nil {
				return err
			}
			return g.service.Plot(os.Stdout, p, args[2], bins)
		},
	}

	cmd.Flags().IntVar(&bins, "bins", 12, "number of histogram bins")
	return cmd
}
