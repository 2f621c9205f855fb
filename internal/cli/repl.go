package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"calculator-brain/internal/brain"
	"calculator-brain/internal/keypad"
)

// ReplOptions holds flags for the repl command.
type ReplOptions struct {
	*RootOptions
	Memory string
}

// NewReplCommand creates the repl command.
func NewReplCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Press calculator keys read from standard input",
		Long: `Read whitespace separated key presses from standard input and print the
display after every line.

Digits and "." build a number. "undo" backspaces while typing and otherwise
removes the last program token. "C" clears everything. "->M" stores the
display in the memory variable and re-evaluates, "M" recalls it. Any other
key is an operation symbol.

With --format json the final state is printed once as JSON.

Example:
  echo "3 + 4 x^2 =" | calc repl`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Memory, "memory", "M", "variable used by the store and recall keys")

	return cmd
}

func runRepl(opts *ReplOptions, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	logger := opts.Logger()

	b := brain.New()
	if err := b.CheckVariable(opts.Memory); err != nil {
		return f.Fail(ExitCommandError, ErrCodeInvalidVar, fmt.Errorf("--memory: %w", err))
	}
	pad := keypad.New(b, keypad.WithMemory(opts.Memory))

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		keys := strings.Fields(scanner.Text())
		if len(keys) == 0 {
			continue
		}
		for _, key := range keys {
			if !pad.Press(key) {
				logger.Debug("key rejected", zap.String("key", key))
			}
		}
		if f.Format == "text" {
			fmt.Fprintf(f.Writer, "%-24s %s\n", pad.Description(), pad.Display())
		}
	}
	if err := scanner.Err(); err != nil {
		return f.Fail(ExitCommandError, ErrCodeGeneric, fmt.Errorf("reading keys: %w", err))
	}

	pad.Finish()
	logger.Debug("input finished", zap.Int("tokens", len(b.Program())))

	if f.Format == "json" {
		return f.Success(evaluate(b))
	}
	return nil
}
