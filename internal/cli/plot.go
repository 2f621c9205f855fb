package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"calculator-brain/internal/brain"
	"calculator-brain/internal/plot"
)

// PlotOptions holds flags for the plot command.
type PlotOptions struct {
	*RootOptions
	From     float64
	To       float64
	Samples  int
	Variable string
}

// PlotResult is the sampled curve of a program.
type PlotResult struct {
	Variable    string       `json:"variable"`
	Description string       `json:"description"`
	Points      []plot.Point `json:"points"`
}

// String renders one "x y" pair per line; gaps print "-" for y.
func (p PlotResult) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# y = %s over %s\n", p.Description, p.Variable)
	for _, pt := range p.Points {
		y := "-"
		if pt.Y != nil {
			y = brain.FormatOperand(*pt.Y)
		}
		fmt.Fprintf(&sb, "%s\t%s\n", brain.FormatOperand(pt.X), y)
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// NewPlotCommand creates the plot command.
func NewPlotCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlotOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "plot <program-file>",
		Short: "Sample a program as a function of one variable",
		Long: `Treat a saved program as y = f(x), binding x to the chosen variable at
evenly spaced points of [from, to] and replaying the program for each.

Points where the program is not finite are printed as gaps.

Example:
  calc plot parabola.yaml --from -2 --to 2 --samples 9
  calc plot wave.yaml --var-name X --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlot(opts, args[0], cmd)
		},
	}

	cmd.Flags().Float64Var(&opts.From, "from", -10, "first sampled value")
	cmd.Flags().Float64Var(&opts.To, "to", 10, "last sampled value")
	cmd.Flags().IntVar(&opts.Samples, "samples", 21, "number of samples")
	cmd.Flags().StringVar(&opts.Variable, "var-name", "M", "variable bound to each sample")

	return cmd
}

func runPlot(opts *PlotOptions, path string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	logger := opts.Logger()

	pf, err := loadProgramFile(f, path)
	if err != nil {
		return err
	}

	b := brain.New()
	if err := bindVariables(f, b, pf.Variables); err != nil {
		return err
	}
	b.SetProgram(pf.Program)

	points, err := plot.Sample(b, plot.Request{
		Variable: opts.Variable,
		From:     opts.From,
		To:       opts.To,
		Samples:  opts.Samples,
	})
	switch {
	case errors.Is(err, plot.ErrPartialProgram):
		return f.Fail(ExitFailure, ErrCodePartial, fmt.Errorf("%s: %w", path, err))
	case errors.Is(err, brain.ErrInvalidVariable):
		return f.Fail(ExitCommandError, ErrCodeInvalidVar, err)
	case err != nil:
		return f.Fail(ExitCommandError, ErrCodeInvalidFlag, err)
	}

	gaps := 0
	for _, p := range points {
		if p.Y == nil {
			gaps++
		}
	}
	logger.Debug("program sampled",
		zap.String("variable", opts.Variable),
		zap.Int("samples", len(points)),
		zap.Int("gaps", gaps),
	)

	return f.Success(PlotResult{
		Variable:    opts.Variable,
		Description: b.Description(),
		Points:      points,
	})
}
