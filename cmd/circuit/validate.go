package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexdmiller/sonic-circuit/internal/validator"
	"github.com/alexdmiller/sonic-circuit/pkg/domain"
)

var validateCmd = &cobra.Command{
	Use:   "validate [circuit]",
	Short: "Check that a circuit decodes",
	Long: `Decodes the circuit and reports the first malformed line, if any.
Circuits that decode are linted; findings are printed as warnings, or fail
the command with --strict.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := openCircuit(cmd, args)
		if err != nil {
			var de *domain.DecodeError
			if errors.As(err, &de) {
				return fmt.Errorf("validation failed at line %d: %w", de.Line, err)
			}
			return err
		}

		out := cmd.OutOrStdout()
		findings := validator.Lint(eng.Store())
		for _, f := range findings {
			fmt.Fprintf(out, "⚠️  %s\n", f)
		}
		strict, _ := cmd.Flags().GetBool("strict")
		if strict && len(findings) > 0 {
			return fmt.Errorf("validation failed: %d lint findings", len(findings))
		}
		fmt.Fprintf(out, "Circuit is valid! ✅ (%d nodes, %d edges)\n", len(eng.Nodes()), len(eng.Edges()))
		return nil
	},
}

func init() {
	validateCmd.Flags().Bool("strict", false, "Fail when the circuit has lint findings")
	rootCmd.AddCommand(validateCmd)
}
