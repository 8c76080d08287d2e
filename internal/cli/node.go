package cli

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/catapult/internal/cli/render"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// NewNodeCmd creates the node command with subcommands
func NewNodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "node",
		Short: "Manage the local development node",
		Long: `Manage a local anvil node for development deployments and drive its
development-only RPC methods.`,
	}

	cmd.AddCommand(newNodeOpCmd("start", "Start the local node", "Start a local anvil node. Fails if already running."))
	cmd.AddCommand(newNodeOpCmd("stop", "Stop the local node", "Stop the local anvil node if running."))
	cmd.AddCommand(newNodeOpCmd("restart", "Restart the local node", "Stop the local anvil node if running and start it again."))
	cmd.AddCommand(newNodeOpCmd("status", "Show local node status", "Show the status of the local anvil node."))
	cmd.AddCommand(newNodeOpCmd("logs", "Show local node logs", "Stream the logs of the local anvil node."))
	cmd.AddCommand(newNodeMineCmd())
	cmd.AddCommand(newNodeIncreaseTimeCmd())

	return cmd
}

// nodeFlags holds common flags for node commands
type nodeFlags struct {
	name    string
	port    string
	chainID string
	forkURL string
}

// addNodeFlags adds common flags to a node command
func addNodeFlags(cmd *cobra.Command, flags *nodeFlags) {
	cmd.Flags().StringVar(&flags.name, "name", "anvil0", "Instance name (e.g. anvil0, anvil1)")
	cmd.Flags().StringVar(&flags.port, "port", "8545", "RPC port to bind")
	cmd.Flags().StringVar(&flags.chainID, "chain-id", "", "Chain ID to use for the instance (optional)")
	cmd.Flags().StringVar(&flags.forkURL, "fork-url", "", "RPC URL to fork from (optional)")
}

func newNodeOpCmd(operation, short, long string) *cobra.Command {
	flags := &nodeFlags{}

	cmd := &cobra.Command{
		Use:   operation,
		Short: short,
		Long:  long,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNodeCommand(cmd, operation, flags)
		},
	}

	addNodeFlags(cmd, flags)
	return cmd
}

// runNodeCommand executes a node management command
func runNodeCommand(cmd *cobra.Command, operation string, flags *nodeFlags) error {
	app, err := getApp(cmd)
	if err != nil {
		return err
	}

	result, err := app.ManageNode.Execute(cmd.Context(), usecase.ManageNodeParams{
		Operation: operation,
		Name:      flags.name,
		Port:      flags.port,
		ChainID:   flags.chainID,
		ForkURL:   flags.forkURL,
	})
	if err != nil {
		return err
	}

	renderer := render.NewNodeRenderer(cmd.OutOrStdout())
	if operation == "logs" {
		stopProgress(cmd)
		if err := renderer.Render(result); err != nil {
			return err
		}
		return app.NodeManager.StreamLogs(cmd.Context(), result.Instance, os.Stdout)
	}
	return renderResult(cmd, app, result, renderer.Render)
}

func newNodeMineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mine [blocks]",
		Short: "Mine blocks on a development network",
		Long: `Mine blocks on the selected development network, one block when no count is given.

Examples:
  catapult node mine
  catapult node mine 10`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			blocks := uint64(1)
			if len(args) > 0 {
				n, err := strconv.ParseUint(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid block count %q", args[0])
				}
				blocks = n
			}

			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			result, err := app.DevChain.Mine(cmd.Context(), blocks)
			if err != nil {
				return err
			}

			renderer := render.NewNodeRenderer(cmd.OutOrStdout())
			return renderResult(cmd, app, result, renderer.RenderDevChain)
		},
	}
}

func newNodeIncreaseTimeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "increase-time <seconds|duration>",
		Short: "Move the chain clock forward",
		Long: `Advance the timestamp of the selected development network and mine a block.

Examples:
  catapult node increase-time 30
  catapult node increase-time 24h`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seconds, err := parseSeconds(args[0])
			if err != nil {
				return err
			}

			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			result, err := app.DevChain.IncreaseTime(cmd.Context(), seconds)
			if err != nil {
				return err
			}

			renderer := render.NewNodeRenderer(cmd.OutOrStdout())
			return renderResult(cmd, app, result, renderer.RenderDevChain)
		},
	}
}

// parseSeconds accepts a plain number of seconds or a duration such as 1h30m
func parseSeconds(s string) (uint64, error) {
	if n, err := strconv.ParseUint(s, 10, 64); err == nil {
		return n, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < time.Second {
		return 0, fmt.Errorf("invalid time %q, use seconds or a duration like 1h", s)
	}
	return uint64(d / time.Second), nil
}
