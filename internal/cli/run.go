package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"calculator-brain/internal/brain"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Vars []string
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <program-file>",
		Short: "Replay a saved program",
		Long: `Load a program file (YAML, or JSON when the name ends in .json), bind
its variables and replay it.

Variables given with --var override the file's bindings, so the same
program can be re-evaluated for other inputs.

Example:
  calc run parabola.yaml
  calc run parabola.yaml --var M=3 --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProgram(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Vars, "var", nil, "override a variable binding (NAME=VALUE, repeatable)")

	return cmd
}

func runProgram(opts *RunOptions, path string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	logger := opts.Logger()

	overrides, err := parseVarFlags(opts.Vars)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeInvalidFlag, err)
	}

	pf, err := loadProgramFile(f, path)
	if err != nil {
		return err
	}
	logger.Debug("program loaded",
		zap.String("path", path),
		zap.Int("tokens", len(pf.Program)),
		zap.Int("variables", len(pf.Variables)),
	)

	b := brain.New()
	if err := bindVariables(f, b, pf.Variables, overrides); err != nil {
		return err
	}
	b.SetProgram(pf.Program)

	logger.Debug("program replayed",
		zap.Float64("result", b.Result()),
		zap.String("description", b.Description()),
	)

	return f.Success(evaluate(b))
}
