package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	circuit "github.com/alexdmiller/sonic-circuit"
	"github.com/alexdmiller/sonic-circuit/internal/cli"
	"github.com/alexdmiller/sonic-circuit/internal/config"
)

var (
	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "circuit",
	Short: "Circuit is a grid of nodes that pass sound signals along edges",
	Long: `Circuit plays, checks and shares signal circuits. A circuit is a set of
nodes on a grid, each holding a pitch and a dispatch mode, joined by directed
edges that carry signals at a fixed speed.

Circuits are passed around as URL-safe tokens. Every command that takes a
circuit accepts a token, a file (token or one node per line), "-" for stdin,
or "demo".`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		if flags.Changed("log-level") {
			loaded.Log.Level, _ = flags.GetString("log-level")
		}
		if flags.Changed("cell-size") {
			loaded.CellSize, _ = flags.GetFloat64("cell-size")
		}
		if flags.Changed("speed") {
			loaded.Speed, _ = flags.GetFloat64("speed")
		}
		if flags.Changed("seed") {
			loaded.Seed, _ = flags.GetUint64("seed")
		}
		if err := loaded.Validate(); err != nil {
			return err
		}
		cfg = loaded
		logger, err = cli.NewLogger(cfg)
		return err
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Path to a YAML config file")
	flags.String("log-level", "info", "Log level: debug, info, warn or error")
	flags.Float64("cell-size", 0, "Grid spacing (overrides config)")
	flags.Float64("speed", 0, "Signal distance per tick (overrides config)")
	flags.Uint64("seed", 0, "Seed for random dispatch (overrides config)")
}

// openCircuit resolves the optional circuit argument into an engine.
func openCircuit(cmd *cobra.Command, args []string, extra ...circuit.Option) (*circuit.Engine, error) {
	token, err := circuitToken(cmd, args)
	if err != nil {
		return nil, err
	}
	opts := append(cli.EngineOptions(cfg), circuit.WithLogger(logger))
	return circuit.Open(token, append(opts, extra...)...)
}

func circuitToken(cmd *cobra.Command, args []string) (string, error) {
	arg := ""
	if len(args) > 0 {
		arg = args[0]
	}
	return cli.ReadToken(arg, cmd.InOrStdin())
}

// addFireFlags registers the flags shared by run, simulate and graph.
func addFireFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("fire", nil, "Fire a node: NODE (before the first tick) or TICK:NODE; repeatable")
}

func fireFlags(cmd *cobra.Command) ([]circuit.ScheduledFire, error) {
	specs, _ := cmd.Flags().GetStringSlice("fire")
	return cli.ParseFires(specs)
}
