package senders

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// Service resolves the signing accounts configured for a network
type Service struct {
	projectRoot string
}

// NewService creates a new sender service
func NewService(cfg *config.RuntimeConfig) *Service {
	return &Service{projectRoot: cfg.ProjectRoot}
}

// Signers returns every configured account of network in order: accounts first, then the
// key file
func (s *Service) Signers(ctx context.Context, network *config.Network) ([]usecase.Signer, error) {
	if network == nil {
		return nil, fmt.Errorf("no network selected")
	}

	var signers []usecase.Signer
	for i, key := range network.Accounts {
		signer, err := ParsePrivateKey(key)
		if err != nil {
			return nil, fmt.Errorf("account %d of %s: %w", i, network.Name, err)
		}
		signers = append(signers, signer)
	}

	if network.KeyFile != "" {
		path := network.KeyFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(s.projectRoot, path)
		}
		signer, err := LoadKeyFile(path)
		if err != nil {
			return nil, err
		}
		signers = append(signers, signer)
	}

	if len(signers) == 0 {
		return nil, fmt.Errorf("network %s: %w", network.Name, domain.ErrNoAccounts)
	}
	return signers, nil
}

// Signer selects an account by index or address. An empty ref selects the first account.
func (s *Service) Signer(ctx context.Context, network *config.Network, ref string) (usecase.Signer, error) {
	signers, err := s.Signers(ctx, network)
	if err != nil {
		return nil, err
	}

	ref = strings.TrimSpace(ref)
	if ref == "" {
		return signers[0], nil
	}

	if common.IsHexAddress(ref) {
		want := common.HexToAddress(ref)
		for _, signer := range signers {
			if signer.Address() == want {
				return signer, nil
			}
		}
		return nil, fmt.Errorf("account %s is not configured for %s: %w", ref, network.Name, domain.ErrNotFound)
	}

	index, err := strconv.Atoi(ref)
	if err != nil {
		return nil, fmt.Errorf("account %q is neither an index nor an address", ref)
	}
	if index < 0 || index >= len(signers) {
		return nil, fmt.Errorf("account index %d out of range, %s has %d accounts: %w", index, network.Name, len(signers), domain.ErrNotFound)
	}
	return signers[index], nil
}
