package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// NetworksRenderer renders the configured networks
type NetworksRenderer struct {
	out   io.Writer
	color bool
}

// NewNetworksRenderer creates a new networks renderer
func NewNetworksRenderer(out io.Writer, color bool) *NetworksRenderer {
	return &NetworksRenderer{out: out, color: color}
}

// Render prints one row per network, marking the selected one
func (r *NetworksRenderer) Render(result *usecase.ListNetworksResult) error {
	if len(result.Networks) == 0 {
		fmt.Fprintln(r.out, "No networks configured")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	if !r.color {
		t.Style().Color = table.ColorOptions{}
	}
	t.AppendHeader(table.Row{"", "Network", "Chain ID", "RPC", "Accounts", "Status"})

	for _, network := range result.Networks {
		marker := ""
		if network.Name == result.Current {
			marker = "*"
		}
		name := network.Name
		if network.Development {
			name += faintStyle.Sprint(" (dev)")
		}

		status := successStyle.Sprint("reachable")
		if !network.Reachable {
			status = errorStyle.Sprint("unreachable")
			if network.Error != "" {
				status += faintStyle.Sprintf(": %s", network.Error)
			}
		}

		chainID := "-"
		if network.ChainID != 0 {
			chainID = fmt.Sprintf("%d", network.ChainID)
		}
		t.AppendRow(table.Row{marker, name, chainID, network.RPCURL, network.Accounts, status})
	}
	t.Render()
	return nil
}
