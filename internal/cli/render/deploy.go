package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/catapult/internal/usecase"
)

// DeployRenderer renders deployment results
type DeployRenderer struct {
	out io.Writer
}

// NewDeployRenderer creates a new deploy renderer
func NewDeployRenderer(out io.Writer) *DeployRenderer {
	return &DeployRenderer{out: out}
}

// Render prints one block per deployed contract
func (r *DeployRenderer) Render(result *usecase.DeployContractResult) error {
	if len(result.Deployments) == 0 {
		fmt.Fprintln(r.out, "Nothing deployed")
		return nil
	}

	for i, deployed := range result.Deployments {
		if i > 0 {
			fmt.Fprintln(r.out)
		}
		res := deployed.Result
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Deployed %s to %s", res.ContractName, result.Network.Name)))
		r.field("Address", addressStyle.Sprint(res.ContractAddress))
		r.field("Transaction", res.TransactionHash)
		r.field("Deployer", fmt.Sprintf("%s (nonce %d)", res.Deployer, res.Nonce))
		if res.Receipt == nil {
			r.field("State", titleCase(string(res.State)))
			fmt.Fprintln(r.out, FormatWarning("Not waiting for confirmations, the transaction may still fail"))
			continue
		}
		r.field("Block", fmt.Sprintf("%d (%d confirmations)", res.Receipt.BlockNumber, res.Receipt.Confirmations))
		r.field("Gas used", fmt.Sprintf("%d", res.Receipt.GasUsed))
		r.field("Cost", FormatEther(res.Receipt.GasCost()))
	}
	return nil
}

func (r *DeployRenderer) field(label, value string) {
	fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprintf("%-12s", label+":"), value)
}
