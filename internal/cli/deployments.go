package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/catapult/internal/cli/render"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// NewDeploymentsCmd creates the deployments command
func NewDeploymentsCmd() *cobra.Command {
	var (
		contract    string
		allNetworks bool
		verified    bool
		unverified  bool
		checkCode   bool
	)

	cmd := &cobra.Command{
		Use:     "deployments",
		Aliases: []string{"ls", "list"},
		Short:   "List recorded deployments",
		Long: `List the deployments recorded in the registry for the selected network, or for
every network with --all-networks.

Examples:
  catapult deployments
  catapult deployments --contract FundMe --all-networks
  catapult deployments --unverified --network sepolia
  catapult deployments --check-code`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if verified && unverified {
				return fmt.Errorf("--verified and --unverified cannot be used together")
			}

			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.ListDeploymentsParams{
				ContractName: contract,
				AllNetworks:  allNetworks,
				CheckCode:    checkCode,
			}
			switch {
			case verified:
				params.Verified = &verified
			case unverified:
				v := false
				params.Verified = &v
			}

			result, err := app.ListDeployments.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			renderer := render.NewDeploymentsRenderer(cmd.OutOrStdout(), useColor(app))
			return renderResult(cmd, app, result, renderer.Render)
		},
	}

	cmd.Flags().StringVar(&contract, "contract", "", "Filter by contract name")
	cmd.Flags().BoolVar(&allNetworks, "all-networks", false, "List deployments of every network")
	cmd.Flags().BoolVar(&verified, "verified", false, "Only list verified contracts")
	cmd.Flags().BoolVar(&unverified, "unverified", false, "Only list unverified contracts")
	cmd.Flags().BoolVar(&checkCode, "check-code", false, "Mark records whose address has no code on the selected network")

	return cmd
}
