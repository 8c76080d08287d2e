package app

import (
	"log/slog"

	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig
	Log    *slog.Logger

	// Use cases
	DeployContract   *usecase.DeployContract
	CallContract     *usecase.CallContract
	ListDeployments  *usecase.ListDeployments
	ListNetworks     *usecase.ListNetworks
	ListAccounts     *usecase.ListAccounts
	ShowBalance      *usecase.ShowBalance
	ShowBlockNumber  *usecase.ShowBlockNumber
	ManageNode       *usecase.ManageNode
	DevChain         *usecase.DevChain
	VerifyDeployment *usecase.VerifyDeployment
	ShowConfig       *usecase.ShowConfig
	SetConfig        *usecase.SetConfig
	RemoveConfig     *usecase.RemoveConfig

	// Adapters (needed for special cases like log streaming)
	NodeManager usecase.NodeManager
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	log *slog.Logger,
	deployContract *usecase.DeployContract,
	callContract *usecase.CallContract,
	listDeployments *usecase.ListDeployments,
	listNetworks *usecase.ListNetworks,
	listAccounts *usecase.ListAccounts,
	showBalance *usecase.ShowBalance,
	showBlockNumber *usecase.ShowBlockNumber,
	manageNode *usecase.ManageNode,
	devChain *usecase.DevChain,
	verifyDeployment *usecase.VerifyDeployment,
	showConfig *usecase.ShowConfig,
	setConfig *usecase.SetConfig,
	removeConfig *usecase.RemoveConfig,
	nodeManager usecase.NodeManager,
) (*App, error) {
	return &App{
		Config:           cfg,
		Log:              log,
		DeployContract:   deployContract,
		CallContract:     callContract,
		ListDeployments:  listDeployments,
		ListNetworks:     listNetworks,
		ListAccounts:     listAccounts,
		ShowBalance:      showBalance,
		ShowBlockNumber:  showBlockNumber,
		ManageNode:       manageNode,
		DevChain:         devChain,
		VerifyDeployment: verifyDeployment,
		ShowConfig:       showConfig,
		SetConfig:        setConfig,
		RemoveConfig:     removeConfig,
		NodeManager:      nodeManager,
	}, nil
}
