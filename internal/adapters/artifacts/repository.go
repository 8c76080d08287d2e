package artifacts

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/samber/lo"
	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/domain/models"
)

var skipDirs = map[string]bool{
	"node_modules": true,
	"build-info":   true,
	"cache":        true,
	".git":         true,
	".catapult":    true,
}

// Repository discovers compiled artifacts under the configured paths and loads them by name
type Repository struct {
	projectRoot string
	paths       []string
	byName      map[string][]string // contract name -> artifact files
	loaded      map[string]*models.ContractArtifact
	log         *slog.Logger
	mu          sync.RWMutex
	indexed     bool
}

// NewRepository creates a new artifact repository
func NewRepository(cfg *config.RuntimeConfig, log *slog.Logger) *Repository {
	paths := config.DefaultArtifactPaths
	if cfg.Project != nil && len(cfg.Project.Artifacts.Paths) > 0 {
		paths = cfg.Project.Artifacts.Paths
	}
	return &Repository{
		projectRoot: cfg.ProjectRoot,
		paths:       paths,
		log:         log,
	}
}

// Load resolves ref as an artifact file path or a contract name
func (r *Repository) Load(ctx context.Context, ref string) (*models.ContractArtifact, error) {
	if isPathRef(ref) {
		path := ref
		if !filepath.IsAbs(path) {
			path = filepath.Join(r.projectRoot, path)
		}
		if _, err := os.Stat(path); err != nil {
			return nil, errNotFound(ref)
		}
		return r.parse(path)
	}

	if err := r.Index(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	files := r.byName[ref]
	r.mu.RUnlock()

	switch len(files) {
	case 0:
		return nil, errNotFound(ref)
	case 1:
		return r.parse(files[0])
	default:
		rel := lo.Map(files, func(f string, _ int) string { return r.rel(f) })
		return nil, fmt.Errorf("contract name %s is ambiguous, use an artifact path: %s", ref, strings.Join(rel, ", "))
	}
}

// Names returns every indexed contract name in order
func (r *Repository) Names() ([]string, error) {
	if err := r.Index(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := lo.Keys(r.byName)
	slices.Sort(names)
	return names, nil
}

// Index discovers all artifacts
func (r *Repository) Index() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexed {
		return nil
	}

	r.byName = make(map[string][]string)
	r.loaded = make(map[string]*models.ContractArtifact)
	seen := make(map[string]bool)

	add := func(name, path string) {
		if seen[name+"\x00"+path] {
			return
		}
		seen[name+"\x00"+path] = true
		r.byName[name] = append(r.byName[name], path)
	}

	// solc pairs compiled next to the project files
	entries, _ := os.ReadDir(r.projectRoot)
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".abi" {
			path := filepath.Join(r.projectRoot, entry.Name())
			stem := strings.TrimSuffix(entry.Name(), ".abi")
			add(stem, path)
			add(solcContractName(stem), path)
		}
	}

	for _, dir := range r.paths {
		root := dir
		if !filepath.IsAbs(root) {
			root = filepath.Join(r.projectRoot, dir)
		}
		if _, err := os.Stat(root); os.IsNotExist(err) {
			continue
		}

		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if skipDirs[d.Name()] {
					return filepath.SkipDir
				}
				return nil
			}

			name := d.Name()
			switch {
			case strings.HasSuffix(name, ".dbg.json"):
				// hardhat debug files point at build-info
			case filepath.Ext(name) == ".json":
				add(strings.TrimSuffix(name, ".json"), path)
			case filepath.Ext(name) == ".abi":
				stem := strings.TrimSuffix(name, ".abi")
				add(stem, path)
				add(solcContractName(stem), path)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to scan %s: %w", dir, err)
		}
	}

	r.log.Debug("indexed artifacts", "contracts", len(r.byName))
	r.indexed = true
	return nil
}

func (r *Repository) parse(path string) (*models.ContractArtifact, error) {
	r.mu.RLock()
	cached, ok := r.loaded[path]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	artifact, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	artifact.Path = r.rel(path)

	r.mu.Lock()
	if r.loaded == nil {
		r.loaded = make(map[string]*models.ContractArtifact)
	}
	r.loaded[path] = artifact
	r.mu.Unlock()
	return artifact, nil
}

func (r *Repository) rel(path string) string {
	if rel, err := filepath.Rel(r.projectRoot, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}

func isPathRef(ref string) bool {
	switch filepath.Ext(ref) {
	case ".json", ".abi", ".bin":
		return true
	}
	return strings.ContainsRune(ref, filepath.Separator)
}
