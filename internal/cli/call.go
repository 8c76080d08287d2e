package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/catapult/internal/cli/render"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// NewCallCmd creates the call command for read-only calls
func NewCallCmd() *cobra.Command {
	var artifact string

	cmd := &cobra.Command{
		Use:   "call <contract|address> <method> [args...]",
		Short: "Call a view function of a deployed contract",
		Long: `Call a view or pure function of a deployed contract and print the decoded result.

The contract is looked up in the deployment registry of the selected network. An address
that is not in the registry needs --artifact.

Examples:
  catapult call FundMe getOwner
  catapult call FundMe getAddressToAmountFunded 0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266
  catapult call 0x5FbDB2315678afecb367f032d93F642f64180aa3 retrieve --artifact SimpleStorage`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.CallContract.Read(cmd.Context(), usecase.CallContractParams{
				Target:   args[0],
				Artifact: artifact,
				Method:   args[1],
				Args:     args[2:],
			})
			if err != nil {
				return err
			}

			renderer := render.NewCallRenderer(cmd.OutOrStdout())
			return renderResult(cmd, app, result, renderer.RenderRead)
		},
	}

	cmd.Flags().StringVar(&artifact, "artifact", "", "Artifact describing a contract missing from the registry")

	return cmd
}

// NewSendCmd creates the send command for state-changing calls
func NewSendCmd() *cobra.Command {
	var (
		artifact string
		value    string
		gasLimit uint64
	)

	cmd := &cobra.Command{
		Use:   "send <contract|address> <method> [args...]",
		Short: "Send a transaction to a deployed contract",
		Long: `Send a transaction calling a function of a deployed contract, wait for its
confirmations and print the events it emitted.

Examples:
  catapult send FundMe fund --value 0.1ether
  catapult send FundMe withdraw
  catapult send Raffle enterRaffle --value 0.01ether --confirmations 2`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.CallContract.Write(cmd.Context(), usecase.CallContractParams{
				Target:   args[0],
				Artifact: artifact,
				Method:   args[1],
				Args:     args[2:],
				Value:    value,
				GasLimit: gasLimit,
			})
			if err != nil {
				return err
			}

			renderer := render.NewCallRenderer(cmd.OutOrStdout())
			return renderResult(cmd, app, result, renderer.RenderWrite)
		},
	}

	cmd.Flags().StringVar(&artifact, "artifact", "", "Artifact describing a contract missing from the registry")
	cmd.Flags().StringVar(&value, "value", "", "Value to send (e.g. 0.1ether, 1000gwei)")
	cmd.Flags().Uint64Var(&gasLimit, "gas-limit", 0, "Gas limit (estimated when not set)")

	return cmd
}
