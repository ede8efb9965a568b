package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alexdmiller/sonic-circuit/internal/cli"
)

var runCmd = &cobra.Command{
	Use:   "run [circuit]",
	Short: "Play a circuit in real time",
	Long: `Ticks the circuit at a fixed frame rate, firing the scheduled nodes and
drawing every frame when stdout is a terminal. Without a circuit the demo is
played. Stop with Ctrl+C.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := circuitToken(cmd, args)
		if err != nil {
			return err
		}
		fires, err := fireFlags(cmd)
		if err != nil {
			return err
		}

		ticks, _ := cmd.Flags().GetUint64("ticks")
		fps, _ := cmd.Flags().GetInt("fps")
		trace, _ := cmd.Flags().GetBool("trace")
		bell, _ := cmd.Flags().GetBool("bell")
		watch, _ := cmd.Flags().GetBool("watch")
		quiet, _ := cmd.Flags().GetBool("quiet")

		render := term.IsTerminal(int(os.Stdout.Fd()))
		if cmd.Flags().Changed("render") {
			render, _ = cmd.Flags().GetBool("render")
		}

		opts := cli.RunOptions{
			Token:  token,
			Ticks:  ticks,
			FPS:    fps,
			Fires:  fires,
			Render: render,
			Trace:  trace,
			Bell:   bell,
			Quiet:  quiet,
			Out:    cmd.OutOrStdout(),
		}
		if watch {
			if len(args) == 0 || args[0] == "-" || args[0] == "demo" {
				return fmt.Errorf("--watch needs a circuit file")
			}
			opts.Watch = args[0]
		}

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()
		return cli.Run(sigCtx, cfg, opts, logger)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Uint64("ticks", 0, "Stop after this many ticks (0 runs until interrupted)")
	runCmd.Flags().Int("fps", 60, "Ticks per second")
	runCmd.Flags().Bool("render", false, "Draw every frame (default: when stdout is a terminal)")
	runCmd.Flags().Bool("trace", false, "Print a line for every node that fires")
	runCmd.Flags().Bool("bell", false, "Ring the terminal bell on every fire")
	runCmd.Flags().BoolP("watch", "w", false, "Reload the circuit file whenever it changes")
	runCmd.Flags().BoolP("quiet", "q", false, "Suppress banner and summary")
	addFireFlags(runCmd)
}
