package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/catapult/internal/domain/config"
)

// DataDirName is the per-project directory holding the registry and local config
const DataDirName = ".catapult"

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot:    projectRoot,
		DataDir:        filepath.Join(projectRoot, DataDirName),
		Account:        v.GetString("account"),
		Debug:          v.GetBool("debug"),
		NonInteractive: v.GetBool("non_interactive"),
		JSON:           v.GetBool("json"),
		YAML:           v.GetBool("yaml"),
		Timeout:        v.GetDuration("timeout"),
		PollInterval:   v.GetDuration("poll_interval"),
	}
	if v.IsSet("confirmations") {
		cfg.Confirmations = v.GetUint64("confirmations")
		cfg.ConfirmationsSet = true
	}

	project, source, err := LoadProjectConfig(projectRoot)
	if err != nil {
		return nil, err
	}
	cfg.Project = project
	cfg.ConfigSource = source

	cfg.NetworkName = v.GetString("network")
	if cfg.NetworkName == "" {
		cfg.NetworkName = project.DefaultNetwork
	}
	if cfg.NetworkName == "" {
		cfg.NetworkName = LocalhostNetwork
	}

	resolver := NewNetworkResolver(cfg.DataDir, project)
	network, err := resolver.Resolve(context.Background(), cfg.NetworkName)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve network %s: %w", cfg.NetworkName, err)
	}
	cfg.Network = network

	return cfg, nil
}

// FindProjectRoot walks up from current directory to find catapult.toml. Without one the
// working directory is the project root.
func FindProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	dir := cwd
	for {
		if _, err := os.Stat(filepath.Join(dir, ProjectFileName)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return cwd, nil
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	// Set up config file
	v.SetConfigName("config.local")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(projectRoot, DataDirName))

	// Set up environment variables
	v.SetEnvPrefix("CATAPULT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Set defaults
	v.SetDefault("timeout", "5m")
	v.SetDefault("poll_interval", "1s")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("project_root", projectRoot)

	// Try to read config file (ignore error if not found)
	_ = v.ReadInConfig()

	bind := func(f *pflag.Flag) {
		// only changed flags override env and local config
		if f.Changed {
			v.Set(strings.ReplaceAll(f.Name, "-", "_"), f.Value.String())
		}
	}
	cmd.Flags().VisitAll(bind)
	cmd.InheritedFlags().VisitAll(bind)

	return v
}

// ProvideNetworkResolver creates a NetworkResolver for Wire dependency injection
func ProvideNetworkResolver(cfg *config.RuntimeConfig) *NetworkResolver {
	return NewNetworkResolver(cfg.DataDir, cfg.Project)
}
