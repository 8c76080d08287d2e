package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/catapult/internal/usecase"
)

// NodeRenderer renders local node and dev chain operations
type NodeRenderer struct {
	out io.Writer
}

// NewNodeRenderer creates a new node renderer
func NewNodeRenderer(out io.Writer) *NodeRenderer {
	return &NodeRenderer{out: out}
}

// Render prints a node management result
func (r *NodeRenderer) Render(result *usecase.ManageNodeResult) error {
	name := ""
	if result.Instance != nil {
		name = result.Instance.Name
	}

	switch result.Operation {
	case "start", "restart":
		fmt.Fprintln(r.out, FormatSuccess(result.Message))
		r.renderStatus(result)
	case "stop":
		fmt.Fprintln(r.out, FormatSuccess(result.Message))
	case "status":
		if result.Status == nil || !result.Status.Running {
			fmt.Fprintf(r.out, "Node %s is %s\n", name, errorStyle.Sprint("not running"))
			return nil
		}
		fmt.Fprintf(r.out, "Node %s is %s\n", name, successStyle.Sprint("running"))
		r.renderStatus(result)
	case "logs":
		if result.Instance != nil {
			fmt.Fprintln(r.out, faintStyle.Sprintf("==> %s <==", result.Instance.LogFile))
		}
	default:
		if result.Message != "" {
			fmt.Fprintln(r.out, result.Message)
		}
	}
	return nil
}

func (r *NodeRenderer) renderStatus(result *usecase.ManageNodeResult) {
	status := result.Status
	if status == nil {
		return
	}
	r.field("PID", fmt.Sprintf("%d", status.PID))
	r.field("RPC URL", status.RPCURL)
	if status.RPCHealthy {
		r.field("Chain ID", fmt.Sprintf("%d", status.ChainID))
		r.field("Block", fmt.Sprintf("%d", status.BlockNumber))
	} else {
		msg := "not responding"
		if status.Error != "" {
			msg += ": " + status.Error
		}
		r.field("RPC", FormatWarning(msg))
	}
	r.field("Logs", faintStyle.Sprint(status.LogFile))
}

// RenderDevChain prints the head after mining or moving time
func (r *NodeRenderer) RenderDevChain(result *usecase.DevChainResult) error {
	switch result.Operation {
	case "mine":
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Mined %d blocks on %s, now at block %d", result.Amount, result.Network, result.BlockNumber)))
	case "increase-time":
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Moved time forward %ds on %s, now at block %d", result.Amount, result.Network, result.BlockNumber)))
	default:
		fmt.Fprintf(r.out, "%s on %s: block %d\n", result.Operation, result.Network, result.BlockNumber)
	}
	return nil
}

func (r *NodeRenderer) field(label, value string) {
	fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprintf("%-9s", label+":"), value)
}
