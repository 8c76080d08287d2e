package gasreport

import (
	"context"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

func newTestReporter(t *testing.T, enabled bool) (*Reporter, string) {
	t.Helper()
	root := t.TempDir()
	project := config.DefaultProjectConfig()
	project.GasReporter.Enabled = enabled
	cfg := &config.RuntimeConfig{ProjectRoot: root, DataDir: filepath.Join(root, ".catapult"), Project: project}
	return NewReporter(cfg), root
}

func TestReporter_Disabled(t *testing.T) {
	r, root := newTestReporter(t, false)
	require.NoError(t, r.Record(context.Background(), usecase.GasUsage{Contract: "FundMe", Method: "deploy", GasUsed: 1}))
	assert.NoFileExists(t, filepath.Join(root, "gas-report.txt"))
	assert.NoFileExists(t, filepath.Join(root, ".catapult", UsageFile))
}

func TestReporter_RecordAndRender(t *testing.T) {
	r, root := newTestReporter(t, true)
	ctx := context.Background()
	gwei := big.NewInt(1_000_000_000)

	for _, u := range []usecase.GasUsage{
		{Network: "localhost", Contract: "FundMe", Method: "deploy", GasUsed: 800000, GasPrice: gwei},
		{Network: "localhost", Contract: "FundMe", Method: "fund", GasUsed: 90000, GasPrice: gwei},
		{Network: "localhost", Contract: "FundMe", Method: "fund", GasUsed: 70000, GasPrice: gwei},
		{Network: "localhost", Contract: "FundMe", Method: "withdraw", GasUsed: 40000, GasPrice: gwei},
	} {
		require.NoError(t, r.Record(ctx, u))
	}

	entries, err := r.Entries()
	require.NoError(t, err)
	assert.Len(t, entries, 4)

	data, err := os.ReadFile(filepath.Join(root, "gas-report.txt"))
	require.NoError(t, err)
	report := string(data)
	assert.Contains(t, report, "currency USD")

	lines := strings.Split(report, "\n")
	var fund, deploy, withdraw int
	for i, line := range lines {
		switch {
		case strings.Contains(line, "fund"):
			fund = i
			assert.Contains(t, line, "70000")
			assert.Contains(t, line, "90000")
			assert.Contains(t, line, "80000")
			assert.Contains(t, line, "0.000160")
		case strings.Contains(line, "deploy"):
			deploy = i
		case strings.Contains(line, "withdraw"):
			withdraw = i
		}
	}
	assert.Less(t, fund, withdraw)
	assert.Less(t, withdraw, deploy)
}

func TestFormatEther(t *testing.T) {
	assert.Equal(t, "1.000000", formatEther(big.NewInt(1e18)))
	assert.Equal(t, "0.000021", formatEther(big.NewInt(21_000_000_000_000)))
	assert.Equal(t, "0.000000", formatEther(new(big.Int)))
}
