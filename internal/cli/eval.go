package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"calculator-brain/internal/brain"
)

// EvalOptions holds flags for the eval command.
type EvalOptions struct {
	*RootOptions
	Vars []string
}

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EvalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "eval <token>...",
		Short: "Evaluate a token list",
		Long: `Feed each argument to a fresh engine as one token and print the result.

Numbers are operands, names starting with an upper-case letter are variable
references and everything else is an operation symbol. ASCII spellings such
as * / - sqrt pi x^2 1/x are accepted. Put -- before a negative number.

Example:
  calc eval 3 + 4 '*' 2 =
  calc eval --var M=9 M sqrt
  calc eval -- -2 x^2`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(opts, args, cmd)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Vars, "var", nil, "bind a variable before evaluating (NAME=VALUE, repeatable)")

	return cmd
}

func runEval(opts *EvalOptions, args []string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	logger := opts.Logger()

	vars, err := parseVarFlags(opts.Vars)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeInvalidFlag, err)
	}

	b := brain.New()
	tokens, err := b.ParseProgram(args)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeInvalidToken, err)
	}

	if err := bindVariables(f, b, vars); err != nil {
		return err
	}
	b.SetProgram(tokens)

	logger.Debug("program evaluated",
		zap.Int("tokens", len(tokens)),
		zap.Float64("result", b.Result()),
		zap.Bool("partial", b.IsPartialResult()),
	)

	return f.Success(evaluate(b))
}
