package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/catapult/internal/cli/render"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// NewVerifyCmd creates the verify command
func NewVerifyCmd() *cobra.Command {
	var (
		allFlag   bool
		forceFlag bool
	)

	cmd := &cobra.Command{
		Use:   "verify [contract|address|id]",
		Short: "Verify contract sources on Etherscan",
		Long: `Submit the sources of deployed contracts to Etherscan and record the outcome in
the registry. The API key is read from ETHERSCAN_API_KEY or catapult.toml.

Examples:
  catapult verify FundMe --network sepolia
  catapult verify 0x1234... --network sepolia
  catapult verify --all --network sepolia
  catapult verify FundMe --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			options := usecase.VerifyOptions{Force: forceFlag}
			renderer := render.NewVerifyRenderer(cmd.OutOrStdout())

			if allFlag {
				if len(args) > 0 {
					return fmt.Errorf("--all cannot be combined with a contract")
				}
				result, err := app.VerifyDeployment.VerifyAll(cmd.Context(), options)
				if err != nil {
					return fmt.Errorf("failed to verify contracts: %w", err)
				}
				return renderResult(cmd, app, result, renderer.RenderAll)
			}

			if len(args) == 0 {
				return fmt.Errorf("please provide a contract name or address, or use --all")
			}

			result, err := app.VerifyDeployment.VerifySpecific(cmd.Context(), args[0], options)
			if err != nil {
				return err
			}
			if err := renderResult(cmd, app, result, renderer.RenderSpecific); err != nil {
				return err
			}
			if !result.Success {
				return fmt.Errorf("verification of %s failed", result.Deployment.ContractName)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&allFlag, "all", false, "Verify every confirmed, unverified deployment of the network")
	cmd.Flags().BoolVar(&forceFlag, "force", false, "Re-verify contracts that are already verified")

	return cmd
}
