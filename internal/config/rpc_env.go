package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/trebuchet-org/catapult/internal/domain"
)

// envVarPattern matches ${VAR_NAME} patterns in TOML values
var envVarPattern = regexp.MustCompile(`^\$\{([A-Za-z_][A-Za-z0-9_]*)\}$`)

// envRefPattern matches every ${VAR_NAME} reference embedded in a value
var envRefPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// DetectEnvVar checks if a raw TOML value is a simple ${VAR_NAME} reference.
// Returns the variable name and true if the value is a pure env var reference.
func DetectEnvVar(rawValue string) (string, bool) {
	matches := envVarPattern.FindStringSubmatch(rawValue)
	if len(matches) == 2 {
		return matches[1], true
	}
	return "", false
}

// GenerateEnvVarName generates a conventional env var name for a network's RPC URL.
// Convention: uppercase, dashes/dots to underscores, append _RPC_URL.
// Examples: sepolia -> SEPOLIA_RPC_URL, celo-sepolia -> CELO_SEPOLIA_RPC_URL
func GenerateEnvVarName(networkName string) string {
	return envName(networkName) + "_RPC_URL"
}

// GeneratePrivateKeyEnvVarName returns the conventional key variable for a network.
// Example: goerli -> GOERLI_WALLET_PRIVATE_KEY
func GeneratePrivateKeyEnvVarName(networkName string) string {
	return envName(networkName) + "_WALLET_PRIVATE_KEY"
}

func envName(networkName string) string {
	name := strings.ToUpper(networkName)
	return strings.NewReplacer("-", "_", ".", "_").Replace(name)
}

// ExpandEnvStrict replaces every ${VAR} reference in value with its environment value.
// A referenced variable that is unset is a configuration error naming key.
func ExpandEnvStrict(key, value string) (string, error) {
	var missing []string
	expanded := envRefPattern.ReplaceAllStringFunc(value, func(ref string) string {
		name := envRefPattern.FindStringSubmatch(ref)[1]
		v, ok := os.LookupEnv(name)
		if !ok {
			missing = append(missing, name)
			return ref
		}
		return v
	})
	if len(missing) > 0 {
		reason := fmt.Sprintf("environment variable %s is not set", strings.Join(missing, ", "))
		if _, whole := DetectEnvVar(value); whole {
			reason += ", export it or add it to .env"
		}
		return "", &domain.ConfigError{Key: key, Reason: reason}
	}
	return expanded, nil
}
