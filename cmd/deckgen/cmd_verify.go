package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"deckgen/internal/logging"
	"deckgen/internal/pacing"
	"deckgen/internal/report"
	"deckgen/internal/validate"
	"deckgen/internal/verify"
	"deckgen/internal/watch"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	suitePath    string
	verifyPasses int
	verifyWorker int
	criticalCats []string
	requirements []string
	reportFormat string
	reportWidth  int
	watchMode    bool
)

var verifyCmd = &cobra.Command{
	Use:   "verify [blueprint]...",
	Short: "Check blueprints against the requirement catalog",
	Long: `Runs every requirement against every sample, several passes each, on a
bounded worker pool. A requirement passes only when all of its units pass.

Exits 1 when a failing requirement belongs to a critical category
(verify.critical_categories, or --critical).`,
	Example: `  deckgen verify out/deck1.txt out/deck2.txt --passes 5
  deckgen verify --suite verify.yaml --format markdown
  deckgen verify out/deck1.txt --requirements R6,R11 --watch`,
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().StringVar(&suitePath, "suite", "", "YAML suite listing samples and run settings")
	verifyCmd.Flags().IntVar(&verifyPasses, "passes", 0, "Passes per sample (0 uses verify.passes)")
	verifyCmd.Flags().IntVar(&verifyWorker, "workers", 0, "Concurrent units (0 uses verify.workers)")
	verifyCmd.Flags().StringSliceVar(&criticalCats, "critical", nil, "Blocking requirement categories")
	verifyCmd.Flags().StringSliceVar(&requirements, "requirements", nil, "Requirement ids to run (default all)")
	verifyCmd.Flags().StringVar(&reportFormat, "format", "text", "Report format: text or markdown")
	verifyCmd.Flags().IntVar(&reportWidth, "width", 100, "Word wrap for markdown reports")
	verifyCmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "Re-run when a sample changes")
}

// verifyPlan is the resolved configuration of one verify invocation.
// Precedence: flags, then suite file, then config.
type verifyPlan struct {
	samples  []string
	passes   int
	workers  int
	critical []string
	reqs     []verify.Requirement
}

func resolveVerifyPlan(cmd *cobra.Command, args []string) (*verifyPlan, error) {
	c := currentConfig()
	plan := &verifyPlan{
		samples:  append([]string(nil), args...),
		passes:   c.Verify.Passes,
		workers:  c.Verify.Workers,
		critical: c.Verify.CriticalCategories,
	}
	ids := requirements

	if suitePath != "" {
		suite, err := verify.LoadSuite(suitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to load suite: %w", err)
		}
		plan.samples = append(plan.samples, suite.Samples...)
		if suite.Passes > 0 {
			plan.passes = suite.Passes
		}
		if suite.Workers > 0 {
			plan.workers = suite.Workers
		}
		if len(suite.Critical) > 0 {
			plan.critical = suite.Critical
		}
		if len(ids) == 0 {
			ids = suite.Requirements
		}
	}

	if verifyPasses > 0 {
		plan.passes = verifyPasses
	}
	if verifyWorker > 0 {
		plan.workers = verifyWorker
	}
	if flagChanged(cmd, "critical") {
		plan.critical = criticalCats
	}
	if len(plan.samples) == 0 {
		return nil, fmt.Errorf("no samples: pass blueprint files or --suite")
	}

	engine := pacing.NewEngine(c.Pacing.WordsPerMinute, categoryLogger(logging.CategoryPacing))
	all := verify.Requirements(validate.NewChecker(c.Layout), engine)
	reqs, err := verify.Select(all, ids)
	if err != nil {
		return nil, err
	}
	plan.reqs = reqs
	return plan, nil
}

func flagChanged(cmd *cobra.Command, name string) bool {
	f := cmd.Flags().Lookup(name)
	return f != nil && f.Changed
}

func runVerify(cmd *cobra.Command, args []string) error {
	switch reportFormat {
	case "text", "markdown":
	default:
		return fmt.Errorf("unknown --format %q (valid: text, markdown)", reportFormat)
	}

	plan, err := resolveVerifyPlan(cmd, args)
	if err != nil {
		return err
	}
	log := categoryLogger(logging.CategoryVerify)
	runner := verify.NewRunner(plan.reqs, plan.workers, log)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	once := func(ctx context.Context) (int, error) {
		summary, err := runner.Run(ctx, plan.samples, plan.passes)
		if err != nil {
			return 0, err
		}
		if err := writeVerifyReport(out, summary, plan.critical); err != nil {
			return 0, err
		}
		return summary.ExitCode(plan.critical), nil
	}

	if watchMode {
		return watchVerify(ctx, plan.samples, once, log)
	}

	code, err := once(ctx)
	if err != nil {
		return err
	}
	if code != 0 {
		return &exitError{code: code}
	}
	return nil
}

func writeVerifyReport(out io.Writer, s *verify.Summary, critical []string) error {
	if jsonOutput {
		return printJSON(out, s)
	}
	color := colorEnabled(out)
	if reportFormat == "markdown" {
		md := report.VerifyMarkdown(s)
		if !color {
			_, err := io.WriteString(out, md)
			return err
		}
		rendered, err := report.RenderMarkdown(md, reportWidth, color)
		if err != nil {
			return err
		}
		_, err = io.WriteString(out, rendered)
		return err
	}
	report.NewPrinter(out, color).Verify(s, critical)
	return nil
}

// watchVerify runs once, then again after every settled change, until ctx
// is cancelled. Failing runs do not stop the loop.
func watchVerify(ctx context.Context, samples []string, once func(context.Context) (int, error), log *zap.Logger) error {
	if _, err := once(ctx); err != nil {
		return err
	}
	w, err := watch.New(samples, watch.DefaultDebounce, func(ctx context.Context, paths []string) {
		log.Info("samples changed", zap.String("paths", strings.Join(paths, ",")))
		if _, err := once(ctx); err != nil && ctx.Err() == nil {
			log.Error("verify run failed", zap.Error(err))
		}
	}, log)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	log.Info("watching samples", zap.Int("samples", len(samples)))
	return w.Run(ctx)
}
