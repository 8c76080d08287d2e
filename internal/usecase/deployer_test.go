package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/models"
	"github.com/trebuchet-org/catapult/internal/testutil"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

func TestDeployer_Deploy(t *testing.T) {
	ctx := context.Background()
	c := newChain()
	signer := testutil.NewSigner(0)

	res, err := newDeployer().Deploy(ctx, c, usecase.DeploymentRequest{
		Artifact:      testutil.Artifact(testutil.SimpleStorage),
		Signer:        signer,
		Confirmations: 1,
	})
	require.NoError(t, err)

	assert.True(t, common.IsHexAddress(res.ContractAddress))
	assert.Len(t, res.ContractAddress, 42)
	assert.Equal(t, crypto.CreateAddress(signer.Address(), 0).Hex(), res.ContractAddress)
	assert.Equal(t, signer.Address().Hex(), res.Deployer)
	assert.Equal(t, domain.TxStateConfirmed, res.State)

	tx, pending, err := c.TransactionByHash(ctx, common.HexToHash(res.TransactionHash))
	require.NoError(t, err)
	assert.False(t, pending)
	assert.Equal(t, res.TransactionHash, tx.Hash().Hex())

	require.NotNil(t, res.Receipt)
	assert.True(t, res.Receipt.Succeeded())
	assert.Equal(t, uint64(1), res.Receipt.BlockNumber)
	assert.GreaterOrEqual(t, res.Receipt.Confirmations, uint64(1))
	assert.Equal(t, res.ContractAddress, res.Receipt.ContractAddress)
	assert.Positive(t, res.Receipt.GasUsed)

	code, err := c.CodeAt(ctx, common.HexToAddress(res.ContractAddress), nil)
	require.NoError(t, err)
	assert.NotEmpty(t, code)
}

func TestDeployer_TwoDeploymentsGetDistinctAddresses(t *testing.T) {
	c := newChain()
	signer := testutil.NewSigner(0)

	first := deploy(t, c, signer, testutil.SimpleStorage)
	second := deploy(t, c, signer, testutil.SimpleStorage)
	assert.NotEqual(t, first.Address, second.Address)
	assert.Equal(t, crypto.CreateAddress(signer.Address(), 1), second.Address)
}

func TestDeployer_ArtifactErrorsBeforeNetwork(t *testing.T) {
	empty := testutil.Artifact(testutil.SimpleStorage)
	empty.Bytecode = nil

	tests := []struct {
		name     string
		artifact *models.ContractArtifact
		args     []any
	}{
		{name: "empty bytecode", artifact: empty},
		{name: "nil artifact", artifact: nil},
		{name: "missing constructor args", artifact: testutil.Artifact(testutil.FundMe)},
		{name: "wrong arg type", artifact: testutil.Artifact(testutil.FundMe), args: []any{"0x01"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newChain()
			_, err := newDeployer().Deploy(context.Background(), c, usecase.DeploymentRequest{
				Artifact:      tt.artifact,
				Signer:        testutil.NewSigner(0),
				Confirmations: 1,
				Args:          tt.args,
			})
			var artifactErr *domain.ArtifactError
			require.ErrorAs(t, err, &artifactErr)
			assert.Zero(t, c.TotalCalls())
		})
	}
}

func TestDeployer_ZeroBalanceIsSubmissionError(t *testing.T) {
	c := newChain()
	broke := testutil.RandomSigner()

	_, err := newDeployer().Deploy(context.Background(), c, usecase.DeploymentRequest{
		Artifact:      testutil.Artifact(testutil.SimpleStorage),
		Signer:        broke,
		Confirmations: 1,
	})

	var subErr *domain.SubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, "send", subErr.Stage)
	assert.Contains(t, err.Error(), "insufficient funds")
	assert.Empty(t, c.Pending())
}

func TestDeployer_RejectedSend(t *testing.T) {
	c := newChain()
	c.FailSends(errors.New("replacement transaction underpriced"))

	_, err := newDeployer().Deploy(context.Background(), c, usecase.DeploymentRequest{
		Artifact:      testutil.Artifact(testutil.SimpleStorage),
		Signer:        testutil.NewSigner(0),
		Confirmations: 1,
	})
	var subErr *domain.SubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.NotEmpty(t, subErr.TxHash)
	assert.Equal(t, 0, c.Calls("TransactionReceipt"))
}

func TestDeployer_ZeroConfirmationsReturnsOnSubmit(t *testing.T) {
	c := newChain()
	c.Automine = false

	res, err := newDeployer().Deploy(context.Background(), c, usecase.DeploymentRequest{
		Artifact:      testutil.Artifact(testutil.SimpleStorage),
		Signer:        testutil.NewSigner(0),
		Confirmations: 0,
	})
	require.NoError(t, err)
	assert.Nil(t, res.Receipt)
	assert.Equal(t, domain.TxStateSubmitted, res.State)
	assert.Len(t, c.Pending(), 1)
	assert.Zero(t, c.Calls("TransactionReceipt"))
}

func TestDeployer_WaitsForConfirmationDepth(t *testing.T) {
	c := newChain()

	res, err := newDeployer().Deploy(context.Background(), c, usecase.DeploymentRequest{
		Artifact:      testutil.Artifact(testutil.SimpleStorage),
		Signer:        testutil.NewSigner(0),
		Confirmations: 3,
	})
	require.NoError(t, err)
	head, err := c.BlockNumber(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, head-res.Receipt.BlockNumber, uint64(3))
	assert.GreaterOrEqual(t, res.Receipt.Confirmations, uint64(3))
}

func TestDeployer_ConfirmationTimeout(t *testing.T) {
	c := newChain()
	c.Automine = false
	c.MineOnPoll = false

	deployer := usecase.NewDeployer(newWaiter(30*time.Millisecond), usecase.NopProgress{}, discardLogger())
	_, err := deployer.Deploy(context.Background(), c, usecase.DeploymentRequest{
		Artifact:      testutil.Artifact(testutil.SimpleStorage),
		Signer:        testutil.NewSigner(0),
		Confirmations: 1,
	})

	var timeout *domain.ConfirmationTimeout
	require.ErrorAs(t, err, &timeout)
	assert.Equal(t, uint64(1), timeout.Confirmations)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Len(t, c.Pending(), 1, "the transaction stays in the pool")
}

func TestDeployer_CallerCancellation(t *testing.T) {
	c := newChain()
	c.Automine = false
	c.MineOnPoll = false

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := newDeployer().Deploy(ctx, c, usecase.DeploymentRequest{
		Artifact:      testutil.Artifact(testutil.SimpleStorage),
		Signer:        testutil.NewSigner(0),
		Confirmations: 1,
	})
	var timeout *domain.ConfirmationTimeout
	require.ErrorAs(t, err, &timeout)
}

func TestDeployer_DroppedTransaction(t *testing.T) {
	c := newChain()
	c.Automine = false
	c.MineOnPoll = false

	errCh := make(chan error, 1)
	go func() {
		_, err := newDeployer().Deploy(context.Background(), c, usecase.DeploymentRequest{
			Artifact:      testutil.Artifact(testutil.SimpleStorage),
			Signer:        testutil.NewSigner(0),
			Confirmations: 1,
		})
		errCh <- err
	}()

	require.Eventually(t, func() bool { return len(c.Pending()) == 1 }, time.Second, time.Millisecond)
	require.NoError(t, c.Drop(c.Pending()[0]))

	select {
	case err := <-errCh:
		var subErr *domain.SubmissionError
		require.ErrorAs(t, err, &subErr)
		assert.Equal(t, "receipt", subErr.Stage)
		assert.ErrorIs(t, err, domain.ErrTransactionDropped)
	case <-time.After(2 * time.Second):
		t.Fatal("deploy did not observe the dropped transaction")
	}
}

// minesAfterMiss seals blocks right after the first receipt lookup misses, so the
// transaction lands between the receipt and nonce queries
type minesAfterMiss struct {
	*testutil.Chain
	blocks int
	missed bool
}

func (m *minesAfterMiss) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	receipt, err := m.Chain.TransactionReceipt(ctx, hash)
	if errors.Is(err, ethereum.NotFound) && !m.missed {
		m.missed = true
		m.Chain.Mine(m.blocks)
	}
	return receipt, err
}

func TestDeployer_MinedBetweenReceiptAndNonceLookups(t *testing.T) {
	c := newChain()
	c.Automine = false
	c.MineOnPoll = false
	backend := &minesAfterMiss{Chain: c, blocks: 2}

	res, err := newDeployer().Deploy(context.Background(), backend, usecase.DeploymentRequest{
		Artifact:      testutil.Artifact(testutil.SimpleStorage),
		Signer:        testutil.NewSigner(0),
		Confirmations: 1,
	})
	require.NoError(t, err)
	assert.True(t, backend.missed)
	assert.Equal(t, domain.TxStateConfirmed, res.State)
	require.NotNil(t, res.Receipt)
	assert.Equal(t, uint64(1), res.Receipt.BlockNumber)
	assert.Empty(t, c.Pending())

	code, err := c.CodeAt(context.Background(), common.HexToAddress(res.ContractAddress), nil)
	require.NoError(t, err)
	assert.NotEmpty(t, code)
}
