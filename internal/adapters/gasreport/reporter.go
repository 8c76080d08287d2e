package gasreport

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/samber/lo"
	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// UsageFile accumulates raw gas usage inside the data directory
const UsageFile = "gas-usage.json"

// Entry is one recorded transaction
type Entry struct {
	Network  string    `json:"network"`
	Contract string    `json:"contract"`
	Method   string    `json:"method"`
	GasUsed  uint64    `json:"gasUsed"`
	GasPrice string    `json:"gasPrice"` // wei, decimal
	TxHash   string    `json:"txHash"`
	At       time.Time `json:"at"`
}

// Reporter appends confirmed gas usage and re-renders the report table after every record
type Reporter struct {
	enabled    bool
	usagePath  string
	reportPath string
	currency   string

	mu sync.Mutex
}

// NewReporter creates a reporter from the [gas_reporter] table. A disabled reporter
// records nothing.
func NewReporter(cfg *config.RuntimeConfig) *Reporter {
	r := &Reporter{usagePath: filepath.Join(cfg.DataDir, UsageFile)}
	if cfg.Project != nil {
		gr := cfg.Project.GasReporter
		r.enabled = gr.Enabled
		r.currency = gr.Currency
		r.reportPath = gr.OutputFile
	}
	if r.reportPath == "" {
		r.reportPath = "gas-report.txt"
	}
	if !filepath.IsAbs(r.reportPath) {
		r.reportPath = filepath.Join(cfg.ProjectRoot, r.reportPath)
	}
	return r
}

// Record stores usage and rewrites the report
func (r *Reporter) Record(ctx context.Context, usage usecase.GasUsage) error {
	if !r.enabled {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := r.load()
	if err != nil {
		return err
	}
	price := "0"
	if usage.GasPrice != nil {
		price = usage.GasPrice.String()
	}
	entries = append(entries, Entry{
		Network:  usage.Network,
		Contract: usage.Contract,
		Method:   usage.Method,
		GasUsed:  usage.GasUsed,
		GasPrice: price,
		TxHash:   usage.TxHash,
		At:       time.Now().UTC(),
	})

	if err := writeFile(r.usagePath, entries); err != nil {
		return fmt.Errorf("failed to save gas usage: %w", err)
	}
	if err := os.WriteFile(r.reportPath, []byte(Render(entries, r.currency)+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write gas report: %w", err)
	}
	return nil
}

// Entries returns everything recorded so far
func (r *Reporter) Entries() ([]Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

func (r *Reporter) load() ([]Entry, error) {
	data, err := os.ReadFile(r.usagePath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", r.usagePath, err)
	}
	return entries, nil
}

func writeFile(path string, entries []Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

type row struct {
	contract, method string
	calls            int
	min, max, total  uint64
	cost             *big.Int
}

// Render builds the per contract and method table. Costs are in ETH at the recorded gas
// price; currency is informational.
func Render(entries []Entry, currency string) string {
	grouped := lo.GroupBy(entries, func(e Entry) string { return e.Contract + "\x00" + e.Method })

	rows := make([]row, 0, len(grouped))
	for _, group := range grouped {
		r := row{contract: group[0].Contract, method: group[0].Method, min: group[0].GasUsed, cost: new(big.Int)}
		for _, e := range group {
			r.calls++
			r.total += e.GasUsed
			r.min = min(r.min, e.GasUsed)
			r.max = max(r.max, e.GasUsed)
			price, _ := new(big.Int).SetString(e.GasPrice, 10)
			if price != nil {
				r.cost.Add(r.cost, new(big.Int).Mul(price, new(big.Int).SetUint64(e.GasUsed)))
			}
		}
		rows = append(rows, r)
	}
	slices.SortFunc(rows, func(a, b row) int {
		// deployments sort after methods of the same contract
		return cmp.Or(
			cmp.Compare(a.contract, b.contract),
			cmp.Compare(boolRank(a.method == "deploy"), boolRank(b.method == "deploy")),
			cmp.Compare(a.method, b.method),
		)
	})

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	if currency != "" {
		t.SetTitle(fmt.Sprintf("Gas usage (costs in ETH, currency %s)", currency))
	} else {
		t.SetTitle("Gas usage (costs in ETH)")
	}
	t.AppendHeader(table.Row{"Contract", "Method", "Calls", "Min", "Max", "Avg", "Total cost"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
	})
	for _, r := range rows {
		t.AppendRow(table.Row{r.contract, r.method, r.calls, r.min, r.max, r.total / uint64(r.calls), formatEther(r.cost)})
	}
	return t.Render()
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

// formatEther renders wei as ETH with up to 6 decimals
func formatEther(wei *big.Int) string {
	f := new(big.Float).SetPrec(256).SetInt(wei)
	f.Quo(f, big.NewFloat(1e18))
	return f.Text('f', 6)
}

var _ usecase.GasRecorder = (*Reporter)(nil)
