package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/catapult/internal/cli/render"
)

// NewBalanceCmd creates the balance command
func NewBalanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance [address|contract]",
		Short: "Show the native balance of an address",
		Long: `Show the native balance of an address, a deployed contract or, without an
argument, the selected account.

Examples:
  catapult balance
  catapult balance FundMe
  catapult balance 0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266 --network sepolia`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			ref := ""
			if len(args) > 0 {
				ref = args[0]
			}
			result, err := app.ShowBalance.Run(cmd.Context(), ref)
			if err != nil {
				return err
			}

			renderer := render.NewChainRenderer(cmd.OutOrStdout(), useColor(app))
			return renderResult(cmd, app, result, renderer.RenderBalance)
		},
	}
}

// NewAccountsCmd creates the accounts command
func NewAccountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "List the configured accounts",
		Long:  `List the accounts configured for the selected network with their balances and nonces.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListAccounts.Run(cmd.Context())
			if err != nil {
				return err
			}

			renderer := render.NewChainRenderer(cmd.OutOrStdout(), useColor(app))
			return renderResult(cmd, app, result, renderer.RenderAccounts)
		},
	}
}

// NewBlockNumberCmd creates the block-number command
func NewBlockNumberCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "block-number",
		Short: "Show the current block number",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ShowBlockNumber.Run(cmd.Context())
			if err != nil {
				return err
			}

			renderer := render.NewChainRenderer(cmd.OutOrStdout(), useColor(app))
			return renderResult(cmd, app, result, renderer.RenderBlockNumber)
		},
	}
}
