package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexdmiller/sonic-circuit/internal/cli"
	"github.com/alexdmiller/sonic-circuit/pkg/share"
)

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Publish and fetch shared circuits",
	Long:  `Stores circuits under short content-derived ids in the store selected by store.driver.`,
}

var sharePublishCmd = &cobra.Command{
	Use:   "publish [circuit]",
	Short: "Store a circuit and print its id",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := circuitToken(cmd, args)
		if err != nil {
			return err
		}
		return withShares(cmd, func(m *share.Manager) error {
			id, err := m.Publish(cmd.Context(), token)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		})
	},
}

var shareOpenCmd = &cobra.Command{
	Use:   "open <id>",
	Short: "Print the token of a shared circuit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withShares(cmd, func(m *share.Manager) error {
			token, err := m.Open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		})
	},
}

var shareListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List shared circuit ids",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withShares(cmd, func(m *share.Manager) error {
			ids, err := m.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No shared circuits found.")
				return nil
			}
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), "- "+id)
			}
			return nil
		})
	},
}

var shareRmCmd = &cobra.Command{
	Use:   "rm <id>...",
	Short: "Remove one or more shared circuits",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withShares(cmd, func(m *share.Manager) error {
			failed := 0
			for _, id := range args {
				if err := m.Delete(cmd.Context(), id); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Error removing '%s': %v\n", id, err)
					failed++
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed '%s'\n", id)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d removals failed", failed, len(args))
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(shareCmd)
	shareCmd.AddCommand(sharePublishCmd, shareOpenCmd, shareListCmd, shareRmCmd)
}

func withShares(cmd *cobra.Command, fn func(*share.Manager) error) error {
	m, closeStore, err := cli.OpenShares(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()
	return fn(m)
}
