package main

import (
	"errors"
	"fmt"
	"os"

	"deckgen/internal/blueprint"
	"deckgen/internal/logging"
	"deckgen/internal/pacing"
	"deckgen/internal/report"
	"deckgen/internal/validate"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	fixNotes     bool
	budgetTotal  int
	budgetSlides int
	budgetAux    int
)

var paceCmd = &cobra.Command{
	Use:   "pace <blueprint>",
	Short: "Report word counts and speaking time for presenter notes",
	Args:  cobra.ExactArgs(1),
	RunE:  runPace,
}

var checkNotesCmd = &cobra.Command{
	Use:   "check-notes <file>...",
	Short: "Check presenter notes for truncated sentences",
	Long: `Checks every presenter-notes line in each blueprint for truncation:
trailing ellipsis, dangling connectors, trailing commas and missing terminal
punctuation. A file without slide blocks is checked as a single block of notes.

With --fix, mechanical repairs are applied and the file is rewritten.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheckNotes,
}

var distributeCmd = &cobra.Command{
	Use:   "distribute",
	Short: "Split a deck word budget across slide types",
	Args:  cobra.NoArgs,
	RunE:  runDistribute,
}

func init() {
	checkNotesCmd.Flags().BoolVar(&fixNotes, "fix", false, "Repair notes in place")
	distributeCmd.Flags().IntVar(&budgetTotal, "total", pacing.DeckWords.Target, "Total word budget")
	distributeCmd.Flags().IntVar(&budgetSlides, "slides", 0, "Slides in the deck (0 uses pacing.deck_slides)")
	distributeCmd.Flags().IntVar(&budgetAux, "aux", -1, "Auxiliary slides (-1 uses pacing.aux_slides)")
}

func runPace(cmd *cobra.Command, args []string) error {
	deck, err := blueprint.Load(args[0])
	if err != nil {
		return err
	}
	engine := pacing.NewEngine(currentConfig().Pacing.WordsPerMinute, categoryLogger(logging.CategoryPacing))
	analysis := engine.AnalyzeDeck(deck.SlideNotes())

	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, analysis)
	}
	report.NewPrinter(out, colorEnabled(out)).Pacing(analysis)
	return nil
}

type notesReport struct {
	File   string           `json:"file"`
	Issues []validate.Issue `json:"issues"`
	Fixed  bool             `json:"fixed,omitempty"`
}

func runCheckNotes(cmd *cobra.Command, args []string) error {
	log := categoryLogger(logging.CategoryValidate)

	var reports []notesReport
	total := 0
	for _, path := range args {
		rep, err := checkNotesFile(path)
		if err != nil {
			return err
		}
		log.Debug("notes checked",
			zap.String("file", path),
			zap.Int("issues", len(rep.Issues)),
			zap.Bool("fixed", rep.Fixed))
		total += len(rep.Issues)
		reports = append(reports, rep)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		if err := printJSON(out, reports); err != nil {
			return err
		}
	} else {
		p := report.NewPrinter(out, colorEnabled(out))
		for _, r := range reports {
			title := r.File
			if r.Fixed {
				title += " (fixed)"
			}
			p.Issues(title, r.Issues)
		}
	}

	if total > 0 {
		return &exitError{code: 1}
	}
	return nil
}

// checkNotesFile checks one file. Issues reported are those remaining after
// any fix.
func checkNotesFile(path string) (notesReport, error) {
	rep := notesReport{File: path}
	deck, err := blueprint.Load(path)
	if errors.Is(err, blueprint.ErrNoSlides) {
		data, err := os.ReadFile(path)
		if err != nil {
			return rep, err
		}
		notes := string(data)
		if fixNotes {
			fixed := validate.FixNotes(notes)
			if fixed != notes {
				if err := os.WriteFile(path, []byte(fixed), 0644); err != nil {
					return rep, fmt.Errorf("failed to write %s: %w", path, err)
				}
				rep.Fixed = true
			}
			notes = fixed
		}
		rep.Issues = validate.CheckNotes(0, notes)
		return rep, nil
	}
	if err != nil {
		return rep, err
	}

	if fixNotes {
		changed := false
		for i, s := range deck.Slides {
			fixed := validate.FixNotes(s.Notes)
			if fixed != s.Notes {
				deck.Slides[i].Notes = fixed
				changed = true
			}
		}
		if changed {
			if err := os.WriteFile(path, []byte(blueprint.Format(deck)), 0644); err != nil {
				return rep, fmt.Errorf("failed to write %s: %w", path, err)
			}
			rep.Fixed = true
		}
	}

	for _, s := range deck.Slides {
		rep.Issues = append(rep.Issues, validate.CheckNotes(s.Number, s.Notes)...)
		rep.Issues = append(rep.Issues, validate.CheckNotesLength(s.Number, s.Type, s.Notes)...)
	}
	return rep, nil
}

func runDistribute(cmd *cobra.Command, args []string) error {
	c := currentConfig().Pacing
	slides := budgetSlides
	if slides <= 0 {
		slides = c.DeckSlides
	}
	aux := budgetAux
	if aux < 0 {
		aux = c.AuxSlides
	}
	if budgetTotal <= 0 {
		return fmt.Errorf("--total must be > 0")
	}
	if aux > slides-2 {
		return fmt.Errorf("--aux (%d) leaves no room for title and summary in %d slides", aux, slides)
	}

	d := pacing.Distribute(budgetTotal, slides, aux)
	if d.OverBudget() {
		categoryLogger(logging.CategoryPacing).Warn("fixed slides exceed the word budget",
			zap.Int("total", d.TotalBudget),
			zap.Int("allocated", d.Allocated),
			zap.Int("overflow", d.Overflow))
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, d)
	}
	fmt.Fprintf(out, "Budget %d words over %d slides\n", d.TotalBudget, slides)
	fmt.Fprintf(out, "  title      %5d\n", d.Title)
	fmt.Fprintf(out, "  summary    %5d\n", d.Summary)
	fmt.Fprintf(out, "  auxiliary  %5d  (%d x %d)\n", d.AuxiliaryTotal, d.AuxiliaryCount, d.AuxiliaryEach)
	fmt.Fprintf(out, "  content    %5d  (%d x %d)\n", d.ContentTotal, d.ContentSlides, d.ContentPerSlide)
	fmt.Fprintf(out, "  allocated  %5d  shortfall %d\n", d.Allocated, d.Shortfall)
	if d.OverBudget() {
		fmt.Fprintf(out, "WARNING: title, summary and auxiliary slides exceed the budget by %d words\n", d.Overflow)
	}
	return nil
}
