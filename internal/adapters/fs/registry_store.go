package fs

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/domain/models"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// DeploymentsFile is the registry file inside the data directory
const DeploymentsFile = "deployments.json"

// RegistryStore persists deployment records as one JSON document
type RegistryStore struct {
	path string

	mu          sync.RWMutex
	deployments map[string]*models.Deployment
	byAddress   map[uint64]map[string]string
	now         func() time.Time
}

// NewRegistryStore creates a store backed by <data dir>/deployments.json and loads it
func NewRegistryStore(cfg *config.RuntimeConfig) (*RegistryStore, error) {
	s := &RegistryStore{
		path:        filepath.Join(cfg.DataDir, DeploymentsFile),
		deployments: make(map[string]*models.Deployment),
		now:         time.Now,
	}
	if err := s.load(); err != nil {
		return nil, fmt.Errorf("failed to load registry: %w", err)
	}
	return s, nil
}

func (s *RegistryStore) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	if err == nil && len(data) > 0 {
		if err := json.Unmarshal(data, &s.deployments); err != nil {
			return fmt.Errorf("failed to parse %s: %w", s.path, err)
		}
	}
	if s.deployments == nil {
		s.deployments = make(map[string]*models.Deployment)
	}
	s.rebuildLookups()
	return nil
}

func (s *RegistryStore) save() error {
	return writeJSON(s.path, s.deployments)
}

// writeJSON writes v to a temp file next to path and renames it over path
func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

func (s *RegistryStore) rebuildLookups() {
	s.byAddress = make(map[uint64]map[string]string)
	for id, dep := range s.deployments {
		if s.byAddress[dep.ChainID] == nil {
			s.byAddress[dep.ChainID] = make(map[string]string)
		}
		s.byAddress[dep.ChainID][strings.ToLower(dep.Address)] = id
	}
}

// GetDeployment retrieves a deployment by ID
func (s *RegistryStore) GetDeployment(ctx context.Context, id string) (*models.Deployment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dep, ok := s.deployments[id]
	if !ok {
		return nil, fmt.Errorf("deployment %s: %w", id, domain.ErrNotFound)
	}
	copied := *dep
	return &copied, nil
}

// GetDeploymentByAddress retrieves a deployment by chain ID and address
func (s *RegistryStore) GetDeploymentByAddress(ctx context.Context, chainID uint64, address string) (*models.Deployment, error) {
	s.mu.RLock()
	id, ok := s.byAddress[chainID][strings.ToLower(address)]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("deployment at %s on chain %d: %w", address, chainID, domain.ErrNotFound)
	}
	return s.GetDeployment(ctx, id)
}

// ListDeployments returns deployments matching the filter, newest first
func (s *RegistryStore) ListDeployments(ctx context.Context, filter domain.DeploymentFilter) ([]*models.Deployment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := lo.FilterMap(lo.Values(s.deployments), func(dep *models.Deployment, _ int) (*models.Deployment, bool) {
		if filter.Network != "" && dep.Network != filter.Network {
			return nil, false
		}
		if filter.ChainID != 0 && dep.ChainID != filter.ChainID {
			return nil, false
		}
		if filter.ContractName != "" && !strings.EqualFold(dep.ContractName, filter.ContractName) {
			return nil, false
		}
		if filter.Verified != nil && (dep.Verification.Status == models.VerificationStatusVerified) != *filter.Verified {
			return nil, false
		}
		copied := *dep
		return &copied, true
	})

	slices.SortFunc(result, func(a, b *models.Deployment) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return result, nil
}

// SaveDeployment inserts or replaces a deployment. A redeploy under the same ID replaces the
// previous record.
func (s *RegistryStore) SaveDeployment(ctx context.Context, deployment *models.Deployment) error {
	if deployment.ID == "" {
		return fmt.Errorf("deployment has no id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	if deployment.CreatedAt.IsZero() {
		deployment.CreatedAt = now
	}
	deployment.UpdatedAt = now
	if deployment.Transaction.ID == "" {
		deployment.Transaction.ID = uuid.NewString()
	}
	if deployment.Verification.Status == "" {
		deployment.Verification.Status = models.VerificationStatusUnverified
	}

	copied := *deployment
	previous, had := s.deployments[deployment.ID]
	s.deployments[deployment.ID] = &copied
	s.rebuildLookups()

	if err := s.save(); err != nil {
		if had {
			s.deployments[deployment.ID] = previous
		} else {
			delete(s.deployments, deployment.ID)
		}
		s.rebuildLookups()
		return fmt.Errorf("failed to save registry: %w", err)
	}
	return nil
}

// DeleteDeployment deletes a deployment by ID
func (s *RegistryStore) DeleteDeployment(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous, ok := s.deployments[id]
	if !ok {
		return fmt.Errorf("deployment %s: %w", id, domain.ErrNotFound)
	}
	delete(s.deployments, id)
	s.rebuildLookups()

	if err := s.save(); err != nil {
		s.deployments[id] = previous
		s.rebuildLookups()
		return fmt.Errorf("failed to save registry: %w", err)
	}
	return nil
}

// GetPath returns the registry file path
func (s *RegistryStore) GetPath() string {
	return s.path
}

var _ usecase.DeploymentRepository = (*RegistryStore)(nil)
