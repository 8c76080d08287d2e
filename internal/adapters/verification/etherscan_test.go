package verification

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/domain/models"
)

func newTestVerifier(t *testing.T, handler http.HandlerFunc) (*EtherscanVerifier, *models.ContractArtifact) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "contracts"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "contracts", "FundMe.sol"), []byte("contract FundMe {}"), 0644))

	cfg := &config.RuntimeConfig{
		ProjectRoot: root,
		Project:     &config.ProjectConfig{Etherscan: config.EtherscanConfig{APIKey: "KEY", URL: server.URL}},
	}
	v := NewEtherscanVerifier(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	v.pollInterval = time.Millisecond

	artifact := &models.ContractArtifact{
		Name:            "FundMe",
		SourcePath:      "contracts/FundMe.sol",
		CompilerVersion: "0.8.7+commit.e28d00a3",
	}
	return v, artifact
}

func writeJSON(w http.ResponseWriter, v apiResponse) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

var sepolia = &config.Network{Name: "sepolia", ChainID: 11155111, ExplorerURL: "https://sepolia.etherscan.io"}

func TestEtherscanVerifier_SubmitAndPoll(t *testing.T) {
	var polls atomic.Int32
	v, artifact := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "11155111", r.URL.Query().Get("chainid"))
		if r.Method == http.MethodPost {
			assert.NoError(t, r.ParseForm())
			assert.Equal(t, "verifysourcecode", r.PostForm.Get("action"))
			assert.Equal(t, "v0.8.7+commit.e28d00a3", r.PostForm.Get("compilerversion"))
			assert.Equal(t, "contract FundMe {}", r.PostForm.Get("sourceCode"))
			assert.Equal(t, "00ff", r.PostForm.Get("constructorArguements"))
			writeJSON(w, apiResponse{Status: "1", Message: "OK", Result: "guid-1"})
			return
		}
		assert.Equal(t, "checkverifystatus", r.URL.Query().Get("action"))
		assert.Equal(t, "guid-1", r.URL.Query().Get("guid"))
		if polls.Add(1) < 2 {
			writeJSON(w, apiResponse{Status: "0", Message: "NOTOK", Result: "Pending in queue"})
			return
		}
		writeJSON(w, apiResponse{Status: "1", Message: "OK", Result: "Pass - Verified"})
	})

	dep := &models.Deployment{Address: "0xabc", ArgsData: "0x00ff"}
	info, err := v.Verify(context.Background(), dep, artifact, sepolia)
	require.NoError(t, err)
	assert.Equal(t, models.VerificationStatusVerified, info.Status)
	assert.Equal(t, "guid-1", info.GUID)
	assert.Equal(t, "https://sepolia.etherscan.io/address/0xabc#code", info.URL)
	assert.NotNil(t, info.VerifiedAt)
	assert.Equal(t, int32(2), polls.Load())
}

func TestEtherscanVerifier_Outcomes(t *testing.T) {
	tests := []struct {
		name       string
		submit     apiResponse
		status     apiResponse
		wantStatus models.VerificationStatus
		wantReason string
	}{
		{
			name:       "already verified on submit",
			submit:     apiResponse{Status: "0", Result: "Contract source code already verified"},
			wantStatus: models.VerificationStatusVerified,
		},
		{
			name:       "rejected on submit",
			submit:     apiResponse{Status: "0", Result: "Invalid API Key"},
			wantStatus: models.VerificationStatusFailed,
			wantReason: "Invalid API Key",
		},
		{
			name:       "bytecode mismatch",
			submit:     apiResponse{Status: "1", Result: "guid"},
			status:     apiResponse{Status: "0", Result: "Fail - Unable to verify"},
			wantStatus: models.VerificationStatusFailed,
			wantReason: "Fail - Unable to verify",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, artifact := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method == http.MethodPost {
					writeJSON(w, tt.submit)
					return
				}
				writeJSON(w, tt.status)
			})
			info, err := v.Verify(context.Background(), &models.Deployment{Address: "0xabc"}, artifact, sepolia)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, info.Status)
			assert.Equal(t, tt.wantReason, info.Reason)
		})
	}
}

func TestEtherscanVerifier_Preconditions(t *testing.T) {
	v, artifact := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s", r.URL)
	})
	ctx := context.Background()
	dep := &models.Deployment{Address: "0xabc"}

	_, err := v.Verify(ctx, dep, artifact, &config.Network{Name: "localhost", Development: true})
	assert.ErrorContains(t, err, "development network")

	noCommit := *artifact
	noCommit.CompilerVersion = "0.8.7"
	_, err = v.Verify(ctx, dep, &noCommit, sepolia)
	assert.ErrorContains(t, err, "commit hash")

	noSource := *artifact
	noSource.SourcePath = ""
	_, err = v.Verify(ctx, dep, &noSource, sepolia)
	assert.ErrorContains(t, err, "source file")

	v.apiKey = ""
	_, err = v.Verify(ctx, dep, artifact, sepolia)
	assert.ErrorContains(t, err, "API key")
}
