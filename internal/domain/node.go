package domain

// NodeInstance represents a local development node managed by catapult
type NodeInstance struct {
	Name    string `json:"name"`
	Port    string `json:"port"`
	ChainID string `json:"chainId,omitempty"`
	ForkURL string `json:"forkUrl,omitempty"`
	PidFile string `json:"pidFile"`
	LogFile string `json:"logFile"`
}

// NodeStatus represents the status of a local development node
type NodeStatus struct {
	Running     bool   `json:"running" yaml:"running"`
	PID         int    `json:"pid,omitempty" yaml:"pid,omitempty"`
	RPCURL      string `json:"rpcUrl,omitempty" yaml:"rpcUrl,omitempty"`
	LogFile     string `json:"logFile" yaml:"logFile"`
	RPCHealthy  bool   `json:"rpcHealthy" yaml:"rpcHealthy"`
	ChainID     uint64 `json:"chainId,omitempty" yaml:"chainId,omitempty"`
	BlockNumber uint64 `json:"blockNumber,omitempty" yaml:"blockNumber,omitempty"`
	Error       string `json:"error,omitempty" yaml:"error,omitempty"`
}
