package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	circuit "github.com/alexdmiller/sonic-circuit"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of circuit",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "circuit version %s\n", strings.TrimSpace(circuit.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
