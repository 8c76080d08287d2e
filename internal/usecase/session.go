package usecase

import (
	"context"
	"fmt"

	"github.com/trebuchet-org/catapult/internal/domain/config"
)

// session is one connected network and, for writes, the selected signing identity
type session struct {
	network *config.Network
	backend ChainBackend
	signer  Signer
}

// openSession connects to the configured network. withSigner also resolves the account
// selected with --account (the first configured account by default).
func openSession(ctx context.Context, cfg *config.RuntimeConfig, connector ChainConnector, signers SignerProvider, withSigner bool) (*session, error) {
	if cfg.Network == nil {
		return nil, fmt.Errorf("no network selected, use --network or set default_network")
	}

	backend, err := connector.Connect(ctx, cfg.Network)
	if err != nil {
		return nil, err
	}
	s := &session{network: cfg.Network, backend: backend}

	if withSigner {
		s.signer, err = signers.Signer(ctx, cfg.Network, cfg.Account)
		if err != nil {
			return nil, fmt.Errorf("failed to select account on %s: %w", cfg.Network.Name, err)
		}
	}
	return s, nil
}
