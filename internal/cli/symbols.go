package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"calculator-brain/internal/brain"
)

// SymbolTable is the operation table as printed by the symbols command.
type SymbolTable []brain.SymbolInfo

func (t SymbolTable) String() string {
	var sb strings.Builder
	for i, s := range t {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%s\t%s", s.Kind, s.Symbol)
	}
	return sb.String()
}

// NewSymbolsCommand creates the symbols command.
func NewSymbolsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "symbols",
		Short:         "List the operation symbols the engine understands",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			return f.Success(SymbolTable(brain.New().Symbols()))
		},
	}

	return cmd
}
