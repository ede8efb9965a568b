package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexdmiller/sonic-circuit/internal/presentation/graph"
)

var graphCmd = &cobra.Command{
	Use:   "graph [circuit]",
	Short: "Export the circuit as a Mermaid diagram",
	Long: `Outputs a Mermaid flowchart (graph LR) of the circuit. With --ticks the
circuit is simulated first and firing nodes and busy edges are highlighted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fires, err := fireFlags(cmd)
		if err != nil {
			return err
		}
		ticks, _ := cmd.Flags().GetInt("ticks")

		eng, err := openCircuit(cmd, args)
		if err != nil {
			return err
		}

		var overlay *graph.Overlay
		if ticks > 0 || len(fires) > 0 {
			if _, err := eng.Simulate(cmd.Context(), ticks, fires); err != nil {
				return err
			}
			overlay = graph.DefaultOverlay
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(eng.Frame(), overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)

	graphCmd.Flags().Int("ticks", 0, "Simulate this many ticks first and highlight activity")
	addFireFlags(graphCmd)
}
