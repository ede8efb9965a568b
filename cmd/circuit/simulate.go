package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate [circuit]",
	Short: "Run a circuit headless and report what played",
	Long:  `Runs the circuit as fast as possible for a number of ticks and prints every fire in order.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fires, err := fireFlags(cmd)
		if err != nil {
			return err
		}
		ticks, _ := cmd.Flags().GetInt("ticks")
		asJSON, _ := cmd.Flags().GetBool("json")

		eng, err := openCircuit(cmd, args)
		if err != nil {
			return err
		}
		sim, err := eng.Simulate(cmd.Context(), ticks, fires)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(sim)
		}
		for _, f := range sim.Fires {
			fmt.Fprintf(out, "%6d  node %-3d %-4s %s\n", f.Tick, f.NodeID, f.Pitch, f.Mode)
		}
		names := make([]string, len(sim.Pitches))
		for i, p := range sim.Pitches {
			names[i] = p.String()
		}
		fmt.Fprintf(out, "%d ticks, %d fires, %d signals in flight\n", sim.Ticks, len(sim.Fires), sim.InFlight)
		fmt.Fprintf(out, "pitches: %s\n", strings.Join(names, " "))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)

	simulateCmd.Flags().Int("ticks", 120, "Number of ticks to run")
	simulateCmd.Flags().Bool("json", false, "Print the report as JSON")
	addFireFlags(simulateCmd)
}
