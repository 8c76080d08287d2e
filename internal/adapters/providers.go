package adapters

import (
	"github.com/google/wire"
	"github.com/trebuchet-org/catapult/internal/adapters/abi"
	"github.com/trebuchet-org/catapult/internal/adapters/artifacts"
	"github.com/trebuchet-org/catapult/internal/adapters/blockchain"
	"github.com/trebuchet-org/catapult/internal/adapters/devnode"
	"github.com/trebuchet-org/catapult/internal/adapters/fs"
	"github.com/trebuchet-org/catapult/internal/adapters/gasreport"
	"github.com/trebuchet-org/catapult/internal/adapters/interactive"
	"github.com/trebuchet-org/catapult/internal/adapters/senders"
	"github.com/trebuchet-org/catapult/internal/adapters/verification"
	internalconfig "github.com/trebuchet-org/catapult/internal/config"
	"github.com/trebuchet-org/catapult/internal/logging"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	fs.NewRegistryStore,
	wire.Bind(new(usecase.DeploymentRepository), new(*fs.RegistryStore)),

	fs.NewLocalConfigStore,
	wire.Bind(new(usecase.LocalConfigRepository), new(*fs.LocalConfigStore)),

	artifacts.NewRepository,
	wire.Bind(new(usecase.ArtifactLoader), new(*artifacts.Repository)),

	gasreport.NewReporter,
	wire.Bind(new(usecase.GasRecorder), new(*gasreport.Reporter)),
)

// ChainSet provides network access, signing and ABI handling
var ChainSet = wire.NewSet(
	blockchain.NewConnector,
	wire.Bind(new(usecase.ChainConnector), new(*blockchain.Connector)),

	senders.NewService,
	wire.Bind(new(usecase.SignerProvider), new(*senders.Service)),

	abi.NewCodec,
	wire.Bind(new(usecase.ABICodec), new(*abi.Codec)),
)

// DevNodeSet provides the local development node implementations
var DevNodeSet = wire.NewSet(
	devnode.NewManager,
	wire.Bind(new(usecase.NodeManager), new(*devnode.Manager)),

	devnode.NewDevRPC,
	wire.Bind(new(usecase.DevRPC), new(*devnode.DevRPC)),
)

// VerificationSet provides block explorer verification
var VerificationSet = wire.NewSet(
	verification.NewEtherscanVerifier,
	wire.Bind(new(usecase.ContractVerifier), new(*verification.EtherscanVerifier)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.DeploymentSelector), new(*interactive.SelectorAdapter)),
)

// ConfigSet provides configuration-based implementations
var ConfigSet = wire.NewSet(
	internalconfig.ProvideNetworkResolver,
	wire.Bind(new(usecase.NetworkResolver), new(*internalconfig.NetworkResolver)),

	logging.LoggingSet,
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	FSSet,
	ChainSet,
	DevNodeSet,
	VerificationSet,
	InteractiveSet,
	ConfigSet,
)
