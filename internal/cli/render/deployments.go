package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/catapult/internal/domain/models"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

var (
	networkStyle  = color.New(color.FgCyan, color.Bold)
	contractStyle = color.New(color.FgYellow, color.Bold)
	noCodeStyle   = color.New(color.FgRed)
)

// DeploymentsRenderer renders the deployment registry listing
type DeploymentsRenderer struct {
	out   io.Writer
	color bool
}

// NewDeploymentsRenderer creates a new deployments renderer
func NewDeploymentsRenderer(out io.Writer, color bool) *DeploymentsRenderer {
	return &DeploymentsRenderer{out: out, color: color}
}

// Render groups the listed records by network, one table per network
func (r *DeploymentsRenderer) Render(result *usecase.DeploymentListResult) error {
	if len(result.Deployments) == 0 {
		fmt.Fprintln(r.out, "No deployments found")
		return nil
	}

	var (
		network string
		chainID uint64
		t       table.Writer
	)
	flush := func() {
		if t != nil {
			t.Render()
			fmt.Fprintln(r.out)
		}
	}

	for _, dep := range result.Deployments {
		if t == nil || dep.Network != network || dep.ChainID != chainID {
			flush()
			network, chainID = dep.Network, dep.ChainID
			fmt.Fprintf(r.out, "%s %s\n", networkStyle.Sprint(network), faintStyle.Sprintf("(chain %d)", chainID))
			t = r.newTable()
		}

		address := dep.Address
		if result.NoCode[dep.ID] {
			address += " " + noCodeStyle.Sprint("[no code]")
		}
		t.AppendRow(table.Row{
			contractStyle.Sprint(dep.ContractName),
			address,
			titleCase(string(dep.State)),
			r.verification(dep.Verification),
			dep.CreatedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	flush()

	summary := result.Summary
	fmt.Fprintf(r.out, "Total: %d deployments, %d verified", summary.Total, summary.Verified)
	if len(summary.ByNetwork) > 1 {
		fmt.Fprintf(r.out, " across %d networks", len(summary.ByNetwork))
	}
	fmt.Fprintln(r.out)
	return nil
}

func (r *DeploymentsRenderer) newTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	if !r.color {
		t.Style().Color = table.ColorOptions{}
	}
	t.AppendHeader(table.Row{"Contract", "Address", "State", "Verification", "Deployed"})
	return t
}

func (r *DeploymentsRenderer) verification(info models.VerificationInfo) string {
	status := info.Status
	if status == "" {
		status = models.VerificationStatusUnverified
	}
	label := titleCase(string(status))
	switch status {
	case models.VerificationStatusVerified:
		return successStyle.Sprint(label)
	case models.VerificationStatusFailed:
		return errorStyle.Sprint(label)
	case models.VerificationStatusPending:
		return warningStyle.Sprint(label)
	}
	return faintStyle.Sprint(label)
}
