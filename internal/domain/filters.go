package domain

// DeploymentFilter defines filtering options for deployments
type DeploymentFilter struct {
	Network      string
	ChainID      uint64
	ContractName string
	Verified     *bool
}
