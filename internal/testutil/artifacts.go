package testutil

import (
	"crypto/ecdsa"
	"encoding/json"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/catapult/internal/domain/models"
)

// Artifact returns the compiled artifact of a program
func Artifact(spec *ProgramSpec) *models.ContractArtifact {
	return &models.ContractArtifact{
		Name:     spec.Name,
		Path:     filepath.Join("artifacts", spec.Name+".json"),
		Format:   models.ArtifactFormatHardhat,
		RawABI:   json.RawMessage(spec.RawABI),
		ABI:      spec.ABI,
		Bytecode: append([]byte{}, spec.Bytecode...),
	}
}

// WriteHardhatArtifact writes spec as artifacts/contracts/<Name>.sol/<Name>.json under root
func WriteHardhatArtifact(t *testing.T, root string, spec *ProgramSpec) string {
	t.Helper()
	dir := filepath.Join(root, "artifacts", "contracts", spec.Name+".sol")
	require.NoError(t, os.MkdirAll(dir, 0755))

	data, err := json.Marshal(map[string]any{
		"contractName": spec.Name,
		"sourceName":   "contracts/" + spec.Name + ".sol",
		"abi":          json.RawMessage(spec.RawABI),
		"bytecode":     hexutil.Encode(spec.Bytecode),
	})
	require.NoError(t, err)

	path := filepath.Join(dir, spec.Name+".json")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

// DevKeys are the first private keys of the anvil and hardhat development mnemonic
var DevKeys = []string{
	"ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80",
	"59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d",
	"5de4111afa1a4b94908f83103eb1f1706367c2e68ca870fc3fb9a804cdab365a",
	"7c852118294e51e653712a81e05800f419141751be58f605c371e15141b007a6",
	"47e179ec197488593b187f80a00eb0da91f1b9d0b13f8733639f19c30a34926a",
	"8b3a350cf5c34c9194ca85829a2df0ec3153be0318b5e2d3348e872092edffba",
}

// Signer signs transactions with a fixed private key
type Signer struct {
	key  *ecdsa.PrivateKey
	addr common.Address
}

// NewSigner returns the signer of DevKeys[i]
func NewSigner(i int) *Signer {
	key, err := crypto.HexToECDSA(DevKeys[i])
	if err != nil {
		panic(err)
	}
	return &Signer{key: key, addr: crypto.PubkeyToAddress(key.PublicKey)}
}

// RandomSigner returns a signer for a fresh key
func RandomSigner() *Signer {
	key, err := crypto.GenerateKey()
	if err != nil {
		panic(err)
	}
	return &Signer{key: key, addr: crypto.PubkeyToAddress(key.PublicKey)}
}

func (s *Signer) Address() common.Address {
	return s.addr
}

func (s *Signer) SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	return types.SignTx(tx, types.LatestSignerForChainID(chainID), s.key)
}

// Ether converts whole ether to wei
func Ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e18))
}
