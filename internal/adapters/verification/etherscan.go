package verification

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/domain/models"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

const (
	// DefaultAPIURL is the multichain Etherscan endpoint; the chain is selected by chainid
	DefaultAPIURL = "https://api.etherscan.io/v2/api"

	defaultPollInterval = 5 * time.Second
	defaultMaxPolls     = 24
)

// EtherscanVerifier submits single-file sources to the Etherscan verification API and polls
// the returned GUID until a verdict is reached
type EtherscanVerifier struct {
	apiKey      string
	apiURL      string
	projectRoot string
	settings    config.EtherscanConfig

	client       *http.Client
	pollInterval time.Duration
	maxPolls     int
	log          *slog.Logger
}

// NewEtherscanVerifier creates a verifier from the [etherscan] table, falling back to
// ETHERSCAN_API_KEY
func NewEtherscanVerifier(cfg *config.RuntimeConfig, log *slog.Logger) *EtherscanVerifier {
	var settings config.EtherscanConfig
	if cfg.Project != nil {
		settings = cfg.Project.Etherscan
	}
	apiKey := settings.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ETHERSCAN_API_KEY")
	}
	apiURL := settings.URL
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	return &EtherscanVerifier{
		apiKey:       apiKey,
		apiURL:       apiURL,
		projectRoot:  cfg.ProjectRoot,
		settings:     settings,
		client:       &http.Client{Timeout: 30 * time.Second},
		pollInterval: defaultPollInterval,
		maxPolls:     defaultMaxPolls,
		log:          log,
	}
}

type apiResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Result  string `json:"result"`
}

// Verify submits the deployment for verification and waits for the explorer's verdict.
// Explorer rejections are reported in the returned info, not as an error.
func (v *EtherscanVerifier) Verify(ctx context.Context, deployment *models.Deployment, artifact *models.ContractArtifact, network *config.Network) (*models.VerificationInfo, error) {
	if v.apiKey == "" {
		return nil, fmt.Errorf("no Etherscan API key: set ETHERSCAN_API_KEY or [etherscan] api_key")
	}
	if network.Development {
		return nil, fmt.Errorf("network %s is a development network and has no explorer", network.Name)
	}

	form, err := v.buildForm(deployment, artifact, network)
	if err != nil {
		return nil, err
	}

	resp, err := v.post(ctx, network.ChainID, form)
	if err != nil {
		return nil, err
	}
	info := &models.VerificationInfo{URL: explorerURL(network, deployment.Address)}
	if resp.Status != "1" {
		if alreadyVerified(resp.Result) {
			return verified(info), nil
		}
		info.Status = models.VerificationStatusFailed
		info.Reason = resp.Result
		return info, nil
	}

	info.GUID = resp.Result
	info.Status = models.VerificationStatusPending
	v.log.Debug("verification submitted", "address", deployment.Address, "guid", info.GUID)

	for i := 0; i < v.maxPolls; i++ {
		select {
		case <-ctx.Done():
			return info, ctx.Err()
		case <-time.After(v.pollInterval):
		}

		status, err := v.checkStatus(ctx, network.ChainID, info.GUID)
		if err != nil {
			return info, err
		}
		switch {
		case strings.HasPrefix(status.Result, "Pass"), alreadyVerified(status.Result):
			return verified(info), nil
		case strings.Contains(status.Result, "Pending"):
			continue
		default:
			info.Status = models.VerificationStatusFailed
			info.Reason = status.Result
			return info, nil
		}
	}
	info.Reason = "verification still pending, check again later"
	return info, nil
}

func (v *EtherscanVerifier) buildForm(deployment *models.Deployment, artifact *models.ContractArtifact, network *config.Network) (url.Values, error) {
	if artifact.SourcePath == "" {
		return nil, fmt.Errorf("artifact %s does not reference its source file", artifact.Name)
	}
	sourcePath := artifact.SourcePath
	if !filepath.IsAbs(sourcePath) {
		sourcePath = filepath.Join(v.projectRoot, sourcePath)
	}
	source, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read source: %w", err)
	}

	version := artifact.CompilerVersion
	if version == "" {
		version = deployment.Artifact.CompilerVersion
	}
	if !strings.Contains(version, "+commit.") {
		return nil, fmt.Errorf("compiler version %q must include the commit hash (e.g. 0.8.7+commit.e28d00a3)", version)
	}
	if !strings.HasPrefix(version, "v") {
		version = "v" + version
	}

	optimized := "0"
	if v.settings.Optimizer {
		optimized = "1"
	}
	runs := v.settings.OptimizerRuns
	if runs == 0 {
		runs = 200
	}

	form := url.Values{}
	form.Set("apikey", v.apiKey)
	form.Set("module", "contract")
	form.Set("action", "verifysourcecode")
	form.Set("contractaddress", deployment.Address)
	form.Set("sourceCode", string(source))
	form.Set("codeformat", "solidity-single-file")
	form.Set("contractname", artifact.Name)
	form.Set("compilerversion", version)
	form.Set("optimizationUsed", optimized)
	form.Set("runs", strconv.Itoa(runs))
	// the misspelling is part of the Etherscan API
	form.Set("constructorArguements", strings.TrimPrefix(deployment.ArgsData, "0x"))
	if v.settings.EVMVersion != "" {
		form.Set("evmversion", v.settings.EVMVersion)
	}
	return form, nil
}

func (v *EtherscanVerifier) post(ctx context.Context, chainID uint64, form url.Values) (*apiResponse, error) {
	endpoint := v.apiURL + "?chainid=" + strconv.FormatUint(chainID, 10)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return v.do(req)
}

func (v *EtherscanVerifier) checkStatus(ctx context.Context, chainID uint64, guid string) (*apiResponse, error) {
	query := url.Values{}
	query.Set("chainid", strconv.FormatUint(chainID, 10))
	query.Set("apikey", v.apiKey)
	query.Set("module", "contract")
	query.Set("action", "checkverifystatus")
	query.Set("guid", guid)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.apiURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	return v.do(req)
}

func (v *EtherscanVerifier) do(req *http.Request) (*apiResponse, error) {
	httpResp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("etherscan request failed: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("etherscan HTTP error: %d", httpResp.StatusCode)
	}
	var resp apiResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to decode etherscan response: %w", err)
	}
	return &resp, nil
}

func alreadyVerified(result string) bool {
	return strings.Contains(strings.ToLower(result), "already verified")
}

func verified(info *models.VerificationInfo) *models.VerificationInfo {
	now := time.Now().UTC()
	info.Status = models.VerificationStatusVerified
	info.Reason = ""
	info.VerifiedAt = &now
	return info
}

// explorerURL builds the code tab URL for a contract
func explorerURL(network *config.Network, address string) string {
	if network.ExplorerURL == "" {
		return ""
	}
	return fmt.Sprintf("%s/address/%s#code", strings.TrimSuffix(network.ExplorerURL, "/"), address)
}

var _ usecase.ContractVerifier = (*EtherscanVerifier)(nil)
