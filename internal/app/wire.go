//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/catapult/internal/adapters"
	"github.com/trebuchet-org/catapult/internal/config"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper, sink usecase.ProgressSink) (*App, error) {
	wire.Build(
		// Runtime configuration
		config.Provider,

		// Adapters
		adapters.AllAdapters,

		// Transaction workflow
		usecase.NewConfirmationWaiter,
		usecase.NewDeployer,
		usecase.NewContractCaller,

		// Use cases
		usecase.NewDeployContract,
		usecase.NewCallContract,
		usecase.NewListDeployments,
		usecase.NewListNetworks,
		usecase.NewListAccounts,
		usecase.NewShowBalance,
		usecase.NewShowBlockNumber,
		usecase.NewManageNode,
		usecase.NewDevChain,
		usecase.NewVerifyDeployment,
		usecase.NewShowConfig,
		usecase.NewSetConfig,
		usecase.NewRemoveConfig,

		// App
		NewApp,
	)
	return nil, nil
}
