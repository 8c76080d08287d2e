package models

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/trebuchet-org/catapult/internal/domain"
)

// ArtifactFormat identifies the compiler output layout an artifact was read from
type ArtifactFormat string

const (
	ArtifactFormatSolc    ArtifactFormat = "solc"    // X.abi + X.bin pair
	ArtifactFormatHardhat ArtifactFormat = "hardhat" // artifacts/**/X.json
	ArtifactFormatFoundry ArtifactFormat = "foundry" // out/**/X.json
)

// ContractArtifact is a compiled contract: its interface description and creation bytecode.
// Artifacts are produced by an external compiler and are not modified after loading.
type ContractArtifact struct {
	Name     string          `json:"name"`
	Path     string          `json:"path"`
	Format   ArtifactFormat  `json:"format"`
	RawABI   json.RawMessage `json:"abi"`
	ABI      abi.ABI         `json:"-"`
	Bytecode []byte          `json:"-"`

	// Optional compiler metadata, used by source verification
	CompilerVersion string `json:"compilerVersion,omitempty"`
	SourcePath      string `json:"sourcePath,omitempty"`
}

// BytecodeHash returns the keccak256 hash of the creation bytecode
func (a *ContractArtifact) BytecodeHash() string {
	return crypto.Keccak256Hash(a.Bytecode).Hex()
}

// Validate checks the artifact is deployable. It never touches the network.
func (a *ContractArtifact) Validate() error {
	if a == nil {
		return &domain.ArtifactError{Reason: "artifact is nil"}
	}
	if len(a.Bytecode) == 0 {
		return &domain.ArtifactError{Path: a.Path, Reason: "bytecode is empty"}
	}
	if len(a.RawABI) == 0 {
		return &domain.ArtifactError{Path: a.Path, Reason: "interface description is missing"}
	}
	return nil
}

// PackConstructor validates args against the ABI constructor and returns the creation input
// (bytecode followed by the encoded constructor arguments).
func (a *ContractArtifact) PackConstructor(args ...any) ([]byte, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if want := len(a.ABI.Constructor.Inputs); want != len(args) {
		return nil, &domain.ArtifactError{
			Path:   a.Path,
			Reason: fmt.Sprintf("constructor expects %d arguments, got %d", want, len(args)),
		}
	}
	encoded, err := a.ABI.Pack("", args...)
	if err != nil {
		return nil, &domain.ArtifactError{Path: a.Path, Reason: "failed to encode constructor arguments", Err: err}
	}
	input := make([]byte, 0, len(a.Bytecode)+len(encoded))
	input = append(input, a.Bytecode...)
	input = append(input, encoded...)
	return input, nil
}

// Method looks up an ABI method by name or by full signature ("store(uint256)")
func (a *ContractArtifact) Method(name string) (*abi.Method, error) {
	if m, ok := a.ABI.Methods[name]; ok {
		return &m, nil
	}
	for _, m := range a.ABI.Methods {
		if m.Sig == name {
			return &m, nil
		}
	}
	return nil, fmt.Errorf("method %s not found in %s ABI: %w", name, a.Name, domain.ErrNotFound)
}
