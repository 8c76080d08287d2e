package config

// ProjectConfig is the decoded catapult.toml project file
type ProjectConfig struct {
	DefaultNetwork string                    `toml:"default_network"`
	Artifacts      ArtifactsConfig           `toml:"artifacts"`
	Networks       map[string]*NetworkConfig `toml:"networks"`
	Etherscan      EtherscanConfig           `toml:"etherscan"`
	GasReporter    GasReporterConfig         `toml:"gas_reporter"`
}

// ArtifactsConfig lists directories searched for compiled contracts
type ArtifactsConfig struct {
	Paths []string `toml:"paths"`
}

// NetworkConfig is one [networks.<name>] table
type NetworkConfig struct {
	URL           string   `toml:"url" validate:"required,url"`
	ChainID       uint64   `toml:"chain_id"`
	Accounts      []string `toml:"accounts" validate:"dive,required"`
	KeyFile       string   `toml:"key_file"`
	Confirmations *uint64  `toml:"confirmations"`
	Development   bool     `toml:"development"`
	PriceFeed     string   `toml:"price_feed" validate:"omitempty,eth_addr"`
	ExplorerURL   string   `toml:"explorer_url" validate:"omitempty,url"`
}

// EtherscanConfig holds source verification settings
type EtherscanConfig struct {
	APIKey        string `toml:"api_key"`
	URL           string `toml:"url" validate:"omitempty,url"`
	Optimizer     bool   `toml:"optimizer"`
	OptimizerRuns int    `toml:"optimizer_runs" validate:"gte=0"`
	EVMVersion    string `toml:"evm_version"`
}

// GasReporterConfig mirrors the hardhat gasReporter options
type GasReporterConfig struct {
	Enabled       bool   `toml:"enabled"`
	OutputFile    string `toml:"output_file"`
	Currency      string `toml:"currency"`
	CoinMarketCap string `toml:"coinmarketcap"`
}

// DefaultArtifactPaths are searched when catapult.toml sets none. solc .abi/.bin pairs in the
// project root are always found.
var DefaultArtifactPaths = []string{"artifacts", "out", "build"}

// DefaultProjectConfig returns the configuration used when no catapult.toml exists
func DefaultProjectConfig() *ProjectConfig {
	return &ProjectConfig{
		DefaultNetwork: "localhost",
		Artifacts:      ArtifactsConfig{Paths: DefaultArtifactPaths},
		Networks:       map[string]*NetworkConfig{},
		GasReporter: GasReporterConfig{
			OutputFile: "gas-report.txt",
			Currency:   "USD",
		},
	}
}
