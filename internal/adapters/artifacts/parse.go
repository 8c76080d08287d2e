package artifacts

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/models"
)

// jsonArtifact covers the Hardhat and Foundry artifact layouts
type jsonArtifact struct {
	Format       string          `json:"_format"`
	ContractName string          `json:"contractName"`
	SourceName   string          `json:"sourceName"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     json.RawMessage `json:"bytecode"`
	Metadata     json.RawMessage `json:"metadata"`
}

// foundryBytecode is the object form Foundry writes for "bytecode"
type foundryBytecode struct {
	Object string `json:"object"`
}

// foundryMetadata is the subset of solc metadata used for verification
type foundryMetadata struct {
	Compiler struct {
		Version string `json:"version"`
	} `json:"compiler"`
	Settings struct {
		CompilationTarget map[string]string `json:"compilationTarget"`
	} `json:"settings"`
}

// ParseFile reads an artifact from path. A .abi or .bin path loads the solc pair
// sharing its stem; a .json path loads a Hardhat or Foundry artifact. Deployability
// (non-empty bytecode) is checked by the deployer, so interfaces still load for calls.
func ParseFile(path string) (*models.ContractArtifact, error) {
	switch filepath.Ext(path) {
	case ".abi", ".bin":
		stem := strings.TrimSuffix(path, filepath.Ext(path))
		return parseSolcPair(stem+".abi", stem+".bin")
	case ".json":
		return parseJSONArtifact(path)
	default:
		return nil, &domain.ArtifactError{Path: path, Reason: "unknown artifact extension"}
	}
}

func parseSolcPair(abiPath, binPath string) (*models.ContractArtifact, error) {
	rawABI, err := os.ReadFile(abiPath)
	if err != nil {
		return nil, &domain.ArtifactError{Path: abiPath, Reason: "cannot read interface description", Err: err}
	}
	rawBin, err := os.ReadFile(binPath)
	if err != nil {
		return nil, &domain.ArtifactError{Path: binPath, Reason: "cannot read bytecode", Err: err}
	}

	bytecode, err := decodeBytecode(binPath, string(rawBin))
	if err != nil {
		return nil, err
	}

	artifact := &models.ContractArtifact{
		Name:     solcContractName(filepath.Base(strings.TrimSuffix(abiPath, ".abi"))),
		Path:     abiPath,
		Format:   models.ArtifactFormatSolc,
		Bytecode: bytecode,
	}
	if err := setABI(artifact, rawABI); err != nil {
		return nil, err
	}
	return artifact, nil
}

func parseJSONArtifact(path string) (*models.ContractArtifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &domain.ArtifactError{Path: path, Reason: "cannot read artifact", Err: err}
	}

	var raw jsonArtifact
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &domain.ArtifactError{Path: path, Reason: "malformed JSON", Err: err}
	}

	artifact := &models.ContractArtifact{
		Name:       raw.ContractName,
		Path:       path,
		Format:     models.ArtifactFormatHardhat,
		SourcePath: raw.SourceName,
	}
	if artifact.Name == "" {
		artifact.Name = strings.TrimSuffix(filepath.Base(path), ".json")
	}

	var code string
	trimmed := bytes.TrimSpace(raw.Bytecode)
	switch {
	case len(trimmed) == 0:
	case trimmed[0] == '"':
		if err := json.Unmarshal(trimmed, &code); err != nil {
			return nil, &domain.ArtifactError{Path: path, Reason: "malformed bytecode", Err: err}
		}
	case trimmed[0] == '{':
		var obj foundryBytecode
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return nil, &domain.ArtifactError{Path: path, Reason: "malformed bytecode", Err: err}
		}
		code = obj.Object
		artifact.Format = models.ArtifactFormatFoundry
	default:
		return nil, &domain.ArtifactError{Path: path, Reason: "unsupported bytecode encoding"}
	}

	if artifact.Bytecode, err = decodeBytecode(path, code); err != nil {
		return nil, err
	}

	if len(raw.Metadata) > 0 {
		var meta foundryMetadata
		// Foundry writes metadata as an object, solc --combined-json as a string
		if json.Unmarshal(raw.Metadata, &meta) == nil {
			artifact.CompilerVersion = meta.Compiler.Version
			for source, name := range meta.Settings.CompilationTarget {
				artifact.SourcePath = source
				artifact.Name = name
			}
		}
	}

	if err := setABI(artifact, raw.ABI); err != nil {
		return nil, err
	}
	return artifact, nil
}

func setABI(artifact *models.ContractArtifact, raw []byte) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return &domain.ArtifactError{Path: artifact.Path, Reason: "interface description is missing"}
	}
	parsed, err := abi.JSON(bytes.NewReader(raw))
	if err != nil {
		return &domain.ArtifactError{Path: artifact.Path, Reason: "malformed interface description", Err: err}
	}
	artifact.RawABI = json.RawMessage(raw)
	artifact.ABI = parsed
	return nil
}

// decodeBytecode accepts hex with or without 0x. Unlinked library placeholders are rejected.
func decodeBytecode(path, code string) ([]byte, error) {
	code = strings.TrimPrefix(strings.TrimSpace(code), "0x")
	if strings.Contains(code, "__") {
		return nil, &domain.ArtifactError{Path: path, Reason: "bytecode contains unlinked library placeholders"}
	}
	b, err := hex.DecodeString(code)
	if err != nil {
		return nil, &domain.ArtifactError{Path: path, Reason: "bytecode is not valid hex", Err: err}
	}
	return b, nil
}

// solcContractName maps solcjs output names ("SimpleStorage_sol_SimpleStorage") to the
// contract name
func solcContractName(stem string) string {
	if i := strings.LastIndex(stem, "_sol_"); i >= 0 {
		return stem[i+len("_sol_"):]
	}
	return stem
}

func errNotFound(ref string) error {
	return fmt.Errorf("artifact %s: %w", ref, domain.ErrNotFound)
}
