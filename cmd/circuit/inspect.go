package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alexdmiller/sonic-circuit/internal/presentation/tui"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [circuit]",
	Short: "Summarize nodes, edges and travel times",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetBool("raw")

		eng, err := openCircuit(cmd, args)
		if err != nil {
			return err
		}
		doc := tui.Inspect(eng.Frame(), eng.CellSize(), eng.Speed())
		if raw {
			fmt.Fprint(cmd.OutOrStdout(), doc)
			return nil
		}

		width := 80
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
			width = w
		}
		render, err := tui.NewMarkdownRenderer(width)
		if err != nil {
			return err
		}
		out, err := render(doc)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().Bool("raw", false, "Print markdown without styling")
}
