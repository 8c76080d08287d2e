package render

import (
	"fmt"
	"io"
	"sort"

	"github.com/trebuchet-org/catapult/internal/domain/models"
)

// CallRenderer renders contract call results
type CallRenderer struct {
	out io.Writer
}

// NewCallRenderer creates a new call renderer
func NewCallRenderer(out io.Writer) *CallRenderer {
	return &CallRenderer{out: out}
}

// RenderRead prints the decoded return values, one per line. A single unnamed value is
// printed bare so the output can be used in scripts.
func (r *CallRenderer) RenderRead(result *models.CallResult) error {
	if len(result.Outputs) == 1 && result.Outputs[0].Name == "" {
		fmt.Fprintln(r.out, formatValue(result.Outputs[0].Value))
		return nil
	}
	for i, out := range result.Outputs {
		name := out.Name
		if name == "" {
			name = fmt.Sprintf("[%d]", i)
		}
		fmt.Fprintf(r.out, "%s (%s): %s\n", labelStyle.Sprint(name), out.Type, formatValue(out.Value))
	}
	return nil
}

// RenderWrite prints the transaction and the events it emitted
func (r *CallRenderer) RenderWrite(result *models.WriteResult) error {
	if result.Receipt == nil {
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Sent %s.%s", result.Contract, result.Method)))
	} else {
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%s.%s confirmed in block %d", result.Contract, result.Method, result.Receipt.BlockNumber)))
	}
	fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprint("Transaction:"), result.TransactionHash)
	fmt.Fprintf(r.out, "  %s %s (nonce %d)\n", labelStyle.Sprint("From:"), result.From, result.Nonce)
	if result.Value != nil && result.Value.Sign() > 0 {
		fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprint("Value:"), FormatEther(result.Value))
	}
	if result.Receipt != nil {
		fmt.Fprintf(r.out, "  %s %d, cost %s\n", labelStyle.Sprint("Gas used:"), result.Receipt.GasUsed, FormatEther(result.Receipt.GasCost()))
	}

	for _, event := range result.Events {
		fmt.Fprintf(r.out, "  %s %s\n", addressStyle.Sprint("event"), event.Name)
		keys := make([]string, 0, len(event.Args))
		for k := range event.Args {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(r.out, "    %s = %s\n", k, formatValue(event.Args[k]))
		}
	}
	return nil
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case []any:
		s := "["
		for i, item := range t {
			if i > 0 {
				s += ", "
			}
			s += formatValue(item)
		}
		return s + "]"
	}
	return fmt.Sprint(v)
}
