package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/catapult/internal/usecase"
)

// ConfigRenderer renders the local configuration commands
type ConfigRenderer struct {
	out io.Writer
}

// NewConfigRenderer creates a new config renderer
func NewConfigRenderer(out io.Writer) *ConfigRenderer {
	return &ConfigRenderer{out: out}
}

// RenderShow prints the effective context and where it came from
func (r *ConfigRenderer) RenderShow(result *usecase.ShowConfigResult) error {
	if !result.Exists {
		fmt.Fprintf(r.out, "No local config file, using %s\n", result.ConfigSource)
	} else {
		fmt.Fprintf(r.out, "Config file: %s\n", faintStyle.Sprint(result.ConfigPath))
	}
	fmt.Fprintln(r.out)

	network, account := "", ""
	if result.Config != nil {
		network, account = result.Config.Network, result.Config.Account
	}
	fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprintf("%-9s", "network:"), orNotSet(network))
	fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprintf("%-9s", "account:"), orNotSet(account))

	if n := result.Network; n != nil {
		fmt.Fprintln(r.out)
		fmt.Fprintf(r.out, "Resolved network %s (chain %d)\n", networkStyle.Sprint(n.Name), n.ChainID)
		fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprintf("%-14s", "rpc:"), n.RPCURL)
		fmt.Fprintf(r.out, "  %s %d\n", labelStyle.Sprintf("%-14s", "confirmations:"), n.Confirmations)
		if n.PriceFeed != "" {
			fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprintf("%-14s", "price feed:"), n.PriceFeed)
		}
	}
	return nil
}

// RenderSet prints the stored value
func (r *ConfigRenderer) RenderSet(result *usecase.SetConfigResult) error {
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Set %s to %s", result.Key, result.Value)))
	fmt.Fprintf(r.out, "   %s\n", faintStyle.Sprintf("saved to %s", result.ConfigPath))
	return nil
}

// RenderRemove prints the removed value
func (r *ConfigRenderer) RenderRemove(result *usecase.RemoveConfigResult) error {
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Removed %s (was %s)", result.Key, orNotSet(result.RemovedValue))))
	return nil
}
