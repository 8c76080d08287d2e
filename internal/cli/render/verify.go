package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/catapult/internal/usecase"
)

// VerifyRenderer renders source verification outcomes
type VerifyRenderer struct {
	out io.Writer
}

// NewVerifyRenderer creates a new verify renderer
func NewVerifyRenderer(out io.Writer) *VerifyRenderer {
	return &VerifyRenderer{out: out}
}

// RenderSpecific prints the outcome for one deployment
func (r *VerifyRenderer) RenderSpecific(result *usecase.VerifyResult) error {
	r.renderOne(result)
	return nil
}

// RenderAll prints every outcome followed by a count
func (r *VerifyRenderer) RenderAll(result *usecase.VerifyAllResult) error {
	if len(result.Results) == 0 {
		fmt.Fprintln(r.out, "No deployments to verify")
		return nil
	}

	attempted := 0
	for _, res := range result.Results {
		r.renderOne(res)
		if res.Skipped == "" {
			attempted++
		}
	}

	fmt.Fprintln(r.out)
	switch {
	case attempted == 0:
		fmt.Fprintln(r.out, "Nothing to verify")
	case result.SuccessCount == attempted:
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Verified %d of %d contracts", result.SuccessCount, attempted)))
	default:
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("Verified %d of %d contracts", result.SuccessCount, attempted)))
	}
	return nil
}

func (r *VerifyRenderer) renderOne(res *usecase.VerifyResult) {
	dep := res.Deployment
	name := fmt.Sprintf("%s at %s", dep.ContractName, dep.Address)

	switch {
	case res.Skipped != "":
		fmt.Fprintf(r.out, "%s %s\n", faintStyle.Sprint("-"), faintStyle.Sprintf("%s skipped: %s", name, res.Skipped))
	case res.Success:
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%s verified", name)))
		if dep.Verification.URL != "" {
			fmt.Fprintf(r.out, "   %s\n", addressStyle.Sprint(dep.Verification.URL))
		}
	default:
		fmt.Fprintln(r.out, errorStyle.Sprintf("❌ %s not verified", name))
		for _, msg := range res.Errors {
			fmt.Fprintf(r.out, "   %s\n", msg)
		}
	}
}
