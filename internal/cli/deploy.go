package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/catapult/internal/cli/render"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	var (
		constructorArgs []string
		value           string
		gasLimit        uint64
	)

	cmd := &cobra.Command{
		Use:   "deploy <contract> [contract...]",
		Short: "Deploy compiled contracts",
		Long: `Deploy one or more compiled contracts with the selected account and record them
in the deployment registry. Contracts are deployed one after another in the order given.

Contracts are named by artifact name or path. Constructor arguments can only be passed
when deploying a single contract; @priceFeed resolves to the network's price feed or to
the last MockV3Aggregator deployed on it.

Examples:
  catapult deploy SimpleStorage
  catapult deploy MockV3Aggregator --arg 8 --arg 200000000000
  catapult deploy FundMe --arg @priceFeed --network sepolia
  catapult deploy Raffle VRFCoordinatorV2Mock --confirmations 0`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, runErr := app.DeployContract.Run(cmd.Context(), usecase.DeployContractParams{
				Contracts: args,
				Args:      constructorArgs,
				Value:     value,
				GasLimit:  gasLimit,
			})
			if result != nil && len(result.Deployments) > 0 {
				// contracts deployed before a failure are still shown
				renderer := render.NewDeployRenderer(cmd.OutOrStdout())
				if err := renderResult(cmd, app, result, renderer.Render); err != nil {
					return err
				}
			}
			return runErr
		},
	}

	cmd.Flags().StringArrayVarP(&constructorArgs, "arg", "a", nil, "Constructor argument, repeat for each parameter")
	cmd.Flags().StringVar(&value, "value", "", "Value sent to a payable constructor (e.g. 0.1ether, 1000gwei)")
	cmd.Flags().Uint64Var(&gasLimit, "gas-limit", 0, "Gas limit (estimated when not set)")

	return cmd
}
