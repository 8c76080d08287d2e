package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// ChainRenderer renders account, balance and block queries
type ChainRenderer struct {
	out   io.Writer
	color bool
}

// NewChainRenderer creates a new chain renderer
func NewChainRenderer(out io.Writer, color bool) *ChainRenderer {
	return &ChainRenderer{out: out, color: color}
}

// RenderAccounts renders the configured accounts as a table
func (r *ChainRenderer) RenderAccounts(result *usecase.ListAccountsResult) error {
	if len(result.Accounts) == 0 {
		fmt.Fprintf(r.out, "No accounts configured for %s\n", result.Network)
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	if !r.color {
		t.Style().Color = table.ColorOptions{}
	}
	t.SetTitle(fmt.Sprintf("%s (chain %d)", result.Network, result.ChainID))
	t.AppendHeader(table.Row{"#", "Address", "Balance", "Nonce"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	for _, account := range result.Accounts {
		t.AppendRow(table.Row{account.Index, account.Address, FormatEther(account.Balance), account.Nonce})
	}
	t.Render()
	return nil
}

// RenderBalance prints the balance of one address
func (r *ChainRenderer) RenderBalance(result *usecase.BalanceResult) error {
	label := ""
	if result.Label != "" {
		label = fmt.Sprintf(" (%s)", result.Label)
	}
	fmt.Fprintf(r.out, "%s%s: %s\n", addressStyle.Sprint(result.Address), label, FormatEther(result.Balance))
	return nil
}

// RenderBlockNumber prints the current head
func (r *ChainRenderer) RenderBlockNumber(result *usecase.BlockNumberResult) error {
	fmt.Fprintf(r.out, "Current block number on %s: %d\n", result.Network, result.BlockNumber)
	return nil
}
