package senders

import (
	"context"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
)

// anvil's first two default accounts
const (
	key0  = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	addr0 = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
	key1  = "59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d"
	addr1 = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
)

func TestService_Signer(t *testing.T) {
	root := t.TempDir()
	fileKey, err := crypto.GenerateKey()
	require.NoError(t, err)
	require.NoError(t, crypto.SaveECDSA(filepath.Join(root, "deployer.key"), fileKey))

	svc := NewService(&config.RuntimeConfig{ProjectRoot: root})
	network := &config.Network{Name: "localhost", Accounts: []string{key0, key1}, KeyFile: "deployer.key"}
	ctx := context.Background()

	tests := []struct {
		name    string
		ref     string
		want    common.Address
		wantErr error
	}{
		{"default is first", "", common.HexToAddress(addr0), nil},
		{"by index", "1", common.HexToAddress(addr1), nil},
		{"key file comes last", "2", crypto.PubkeyToAddress(fileKey.PublicKey), nil},
		{"by address", addr1, common.HexToAddress(addr1), nil},
		{"index out of range", "3", common.Address{}, domain.ErrNotFound},
		{"unknown address", "0x000000000000000000000000000000000000dEaD", common.Address{}, domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signer, err := svc.Signer(ctx, network, tt.ref)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, signer.Address())
		})
	}

	t.Run("no accounts", func(t *testing.T) {
		_, err := svc.Signers(ctx, &config.Network{Name: "goerli"})
		assert.ErrorIs(t, err, domain.ErrNoAccounts)
	})

	t.Run("invalid key", func(t *testing.T) {
		_, err := svc.Signers(ctx, &config.Network{Name: "goerli", Accounts: []string{"0x1234"}})
		assert.Error(t, err)
	})

	t.Run("missing key file", func(t *testing.T) {
		_, err := svc.Signers(ctx, &config.Network{Name: "goerli", KeyFile: filepath.Join(root, "nope.key")})
		assert.Error(t, err)
		_, statErr := os.Stat(filepath.Join(root, "nope.key"))
		assert.True(t, os.IsNotExist(statErr))
	})
}

func TestKeySigner_SignTx(t *testing.T) {
	signer, err := ParsePrivateKey(key0)
	require.NoError(t, err)

	chainID := big.NewInt(31337)
	tx := types.NewTx(&types.LegacyTx{Nonce: 3, GasPrice: big.NewInt(1), Gas: 21000, Value: big.NewInt(0)})

	signed, err := signer.SignTx(tx, chainID)
	require.NoError(t, err)

	from, err := types.Sender(types.LatestSignerForChainID(chainID), signed)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(addr0), from)
	assert.Equal(t, uint64(3), signed.Nonce())
}
