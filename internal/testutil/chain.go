package testutil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	// DefaultGasPrice is the legacy gas price suggested by the fake chain
	DefaultGasPrice = 1_000_000_000
	// GenesisTime is the timestamp of block 0
	GenesisTime = 1_700_000_000
	// BlockGasLimit caps every transaction
	BlockGasLimit = 30_000_000

	txGas       = 21_000
	createGas   = 32_000
	executeGas  = 25_000
	nonZeroGas  = 16
	zeroByteGas = 4
)

type block struct {
	number uint64
	hash   common.Hash
	time   uint64
}

type minedTx struct {
	tx      *types.Transaction
	receipt *types.Receipt
}

// Chain is an in-memory EVM-like node. Contracts are Go programs selected by the prefix of
// their creation bytecode. It implements the node capability used by the deploy and call
// workflow.
type Chain struct {
	mu sync.Mutex

	chainID  *big.Int
	gasPrice *big.Int
	signer   types.Signer

	state   *world
	specs   []*ProgramSpec
	pool    []*types.Transaction
	blocks  []block
	mined   map[common.Hash]*minedTx
	offset  uint64
	calls   map[string]int
	sendErr error

	// Automine mines a block for every accepted transaction
	Automine bool
	// MineOnPoll mines an empty block every time BlockNumber is queried
	MineOnPoll bool
}

// NewChain creates a chain at block 0 with the given programs deployable
func NewChain(chainID int64, specs ...*ProgramSpec) *Chain {
	id := big.NewInt(chainID)
	c := &Chain{
		chainID:  id,
		gasPrice: big.NewInt(DefaultGasPrice),
		signer:   types.LatestSignerForChainID(id),
		state:    newWorld(),
		specs:    specs,
		mined:    make(map[common.Hash]*minedTx),
		calls:    make(map[string]int),
		Automine: true,
	}
	c.blocks = append(c.blocks, block{number: 0, hash: blockHash(0), time: GenesisTime})
	return c
}

// Fund sets the balance of addr
func (c *Chain) Fund(addr common.Address, wei *big.Int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.balances[addr] = new(big.Int).Set(wei)
}

// SetGasPrice changes the suggested gas price
func (c *Chain) SetGasPrice(wei *big.Int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gasPrice = new(big.Int).Set(wei)
}

// FailSends makes every following SendTransaction return err; nil restores normal operation
func (c *Chain) FailSends(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sendErr = err
}

// Calls returns how often method was invoked
func (c *Chain) Calls(method string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[method]
}

// TotalCalls returns the number of backend invocations
func (c *Chain) TotalCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for _, n := range c.calls {
		total += n
	}
	return total
}

// Pending returns the hashes in the transaction pool
func (c *Chain) Pending() []common.Hash {
	c.mu.Lock()
	defer c.mu.Unlock()
	hashes := make([]common.Hash, len(c.pool))
	for i, tx := range c.pool {
		hashes[i] = tx.Hash()
	}
	return hashes
}

// Mine produces n blocks, including every pooled transaction in the first one
func (c *Chain) Mine(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := 0; i < n; i++ {
		c.mineLocked()
	}
}

// IncreaseTime moves the timestamp of following blocks forward
func (c *Chain) IncreaseTime(seconds uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.offset += seconds
}

// Drop removes hash from the pool and consumes its nonce, as if a replacement had been mined
func (c *Chain) Drop(hash common.Hash) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, tx := range c.pool {
		if tx.Hash() != hash {
			continue
		}
		from, err := types.Sender(c.signer, tx)
		if err != nil {
			return err
		}
		c.pool = append(c.pool[:i], c.pool[i+1:]...)
		c.state.nonces[from] = tx.Nonce() + 1
		c.mineLocked()
		return nil
	}
	return fmt.Errorf("transaction %s is not pending", hash.Hex())
}

// TransactionByHash returns a mined or pooled transaction
func (c *Chain) TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls["TransactionByHash"]++
	if m, ok := c.mined[hash]; ok {
		return m.tx, false, nil
	}
	for _, tx := range c.pool {
		if tx.Hash() == hash {
			return tx, true, nil
		}
	}
	return nil, false, ethereum.NotFound
}

func (c *Chain) ChainID(ctx context.Context) (*big.Int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls["ChainID"]++
	return new(big.Int).Set(c.chainID), nil
}

func (c *Chain) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls["PendingNonceAt"]++
	return c.pendingNonceLocked(account), nil
}

func (c *Chain) NonceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls["NonceAt"]++
	return c.state.nonces[account], nil
}

func (c *Chain) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls["SuggestGasPrice"]++
	return new(big.Int).Set(c.gasPrice), nil
}

func (c *Chain) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls["EstimateGas"]++

	gas := intrinsicGas(msg.Data, msg.To == nil, c.hasProgram(msg.To))
	scratch := c.state.clone()
	if _, _, err := c.execute(scratch, msg.From, msg.To, msg.Value, msg.Data, scratch.nonces[msg.From]); err != nil {
		return 0, err
	}
	return gas, nil
}

func (c *Chain) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls["SendTransaction"]++

	if c.sendErr != nil {
		return c.sendErr
	}
	if tx.ChainId().Cmp(c.chainID) != 0 {
		return fmt.Errorf("invalid chain id: have %v want %v", tx.ChainId(), c.chainID)
	}
	from, err := types.Sender(c.signer, tx)
	if err != nil {
		return fmt.Errorf("invalid sender: %w", err)
	}
	if _, known := c.mined[tx.Hash()]; known {
		return errors.New("already known")
	}
	if mined := c.state.nonces[from]; tx.Nonce() < mined {
		return fmt.Errorf("nonce too low: address %s, tx: %d state: %d", from.Hex(), tx.Nonce(), mined)
	}
	if next := c.pendingNonceLocked(from); tx.Nonce() > next {
		return fmt.Errorf("nonce too high: address %s, tx: %d state: %d", from.Hex(), tx.Nonce(), next)
	}
	if tx.Gas() > BlockGasLimit {
		return errors.New("exceeds block gas limit")
	}
	if tx.Gas() < intrinsicGas(tx.Data(), tx.To() == nil, false) {
		return errors.New("intrinsic gas too low")
	}
	cost := tx.Cost()
	if have := c.state.balance(from); have.Cmp(cost) < 0 {
		return fmt.Errorf("insufficient funds for gas * price + value: address %s have %v want %v", from.Hex(), have, cost)
	}

	c.pool = append(c.pool, tx)
	if c.Automine {
		c.mineLocked()
	}
	return nil
}

func (c *Chain) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls["TransactionReceipt"]++
	m, ok := c.mined[txHash]
	if !ok {
		return nil, ethereum.NotFound
	}
	r := *m.receipt
	return &r, nil
}

func (c *Chain) BlockNumber(ctx context.Context) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls["BlockNumber"]++
	if c.MineOnPoll {
		c.mineLocked()
	}
	return c.head().number, nil
}

func (c *Chain) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls["CallContract"]++
	if msg.To == nil {
		return nil, errors.New("missing call target")
	}
	scratch := c.state.clone()
	out, _, err := c.execute(scratch, msg.From, msg.To, msg.Value, msg.Data, scratch.nonces[msg.From])
	return out, err
}

func (c *Chain) BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls["BalanceAt"]++
	return new(big.Int).Set(c.state.balance(account)), nil
}

func (c *Chain) CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls["CodeAt"]++
	if ct, ok := c.state.contracts[account]; ok {
		return append([]byte{}, ct.code...), nil
	}
	return nil, nil
}

func (c *Chain) head() block {
	return c.blocks[len(c.blocks)-1]
}

func (c *Chain) pendingNonceLocked(account common.Address) uint64 {
	nonce := c.state.nonces[account]
	for _, tx := range c.pool {
		if from, err := types.Sender(c.signer, tx); err == nil && from == account && tx.Nonce() >= nonce {
			nonce = tx.Nonce() + 1
		}
	}
	return nonce
}

func (c *Chain) hasProgram(to *common.Address) bool {
	if to == nil {
		return false
	}
	ct, ok := c.state.contracts[*to]
	return ok && ct.prog != nil
}

// mineLocked seals one block with every pooled transaction in submission order
func (c *Chain) mineLocked() {
	parent := c.head()
	b := block{number: parent.number + 1, hash: blockHash(parent.number + 1), time: parent.time + 1 + c.offset}
	c.offset = 0
	c.blocks = append(c.blocks, b)

	var cumulative uint64
	pool := c.pool
	c.pool = nil
	for i, tx := range pool {
		receipt := c.apply(tx, b, uint(i))
		cumulative += receipt.GasUsed
		receipt.CumulativeGasUsed = cumulative
		c.mined[tx.Hash()] = &minedTx{tx: tx, receipt: receipt}
	}
	// calls and estimates run against the latest block
	c.state.blockNumber, c.state.timestamp = b.number, b.time
}

// apply executes tx on top of the current state. A reverted execution keeps only the nonce
// increment and the gas payment.
func (c *Chain) apply(tx *types.Transaction, b block, index uint) *types.Receipt {
	from, _ := types.Sender(c.signer, tx)
	c.state.nonces[from] = tx.Nonce() + 1

	receipt := &types.Receipt{
		Type:              tx.Type(),
		TxHash:            tx.Hash(),
		BlockHash:         b.hash,
		BlockNumber:       new(big.Int).SetUint64(b.number),
		TransactionIndex:  index,
		EffectiveGasPrice: new(big.Int).Set(tx.GasPrice()),
		Status:            types.ReceiptStatusSuccessful,
	}

	gasUsed := intrinsicGas(tx.Data(), tx.To() == nil, c.hasProgram(tx.To()))
	scratch := c.state.clone()
	scratch.blockNumber, scratch.timestamp = b.number, b.time
	_, created, err := c.execute(scratch, from, tx.To(), tx.Value(), tx.Data(), tx.Nonce())
	switch {
	case gasUsed > tx.Gas():
		gasUsed = tx.Gas()
		receipt.Status = types.ReceiptStatusFailed
	case err != nil:
		receipt.Status = types.ReceiptStatusFailed
	default:
		c.state = scratch
		receipt.Logs = scratch.logs
		if tx.To() == nil {
			receipt.ContractAddress = created
		}
	}
	c.state.logs = nil

	fee := new(big.Int).Mul(new(big.Int).SetUint64(gasUsed), tx.GasPrice())
	c.state.balances[from] = new(big.Int).Sub(c.state.balance(from), fee)
	receipt.GasUsed = gasUsed

	for i, l := range receipt.Logs {
		l.BlockNumber = b.number
		l.BlockHash = b.hash
		l.TxHash = tx.Hash()
		l.TxIndex = index
		l.Index = uint(i)
	}
	return receipt
}

// execute runs one message against st. For contract creation it returns the new address.
func (c *Chain) execute(st *world, from common.Address, to *common.Address, value *big.Int, data []byte, nonce uint64) ([]byte, common.Address, error) {
	if value == nil {
		value = new(big.Int)
	}
	env := &Env{
		Caller:      from,
		Value:       new(big.Int).Set(value),
		BlockNumber: st.blockNumber,
		Timestamp:   st.timestamp,
		st:          st,
		logs:        &st.logs,
	}
	if env.BlockNumber == 0 {
		next := c.head()
		env.BlockNumber, env.Timestamp = next.number+1, next.time+1+c.offset
	}

	if to == nil {
		addr := crypto.CreateAddress(from, nonce)
		env.Self = addr
		if err := st.transfer(from, addr, value); err != nil {
			return nil, common.Address{}, err
		}
		ct, err := c.create(env, data)
		if err != nil {
			return nil, common.Address{}, err
		}
		st.contracts[addr] = ct
		return nil, addr, nil
	}

	env.Self = *to
	if err := st.transfer(from, *to, value); err != nil {
		return nil, common.Address{}, err
	}
	ct, ok := st.contracts[*to]
	if !ok || ct.prog == nil {
		return nil, common.Address{}, nil
	}

	if len(data) == 0 {
		if recv, ok := ct.prog.(Receiver); ok {
			return nil, common.Address{}, recv.Receive(env)
		}
		return nil, common.Address{}, &Revert{}
	}
	if len(data) < 4 {
		return nil, common.Address{}, &Revert{}
	}
	m, err := ct.spec.ABI.MethodById(data[:4])
	if err != nil {
		return nil, common.Address{}, &Revert{}
	}
	if value.Sign() > 0 && !m.IsPayable() {
		return nil, common.Address{}, &Revert{}
	}
	args, err := m.Inputs.Unpack(data[4:])
	if err != nil {
		return nil, common.Address{}, &Revert{}
	}
	values, err := ct.prog.Call(env, m, args)
	if err != nil {
		return nil, common.Address{}, err
	}
	out, err := m.Outputs.Pack(values...)
	if err != nil {
		return nil, common.Address{}, fmt.Errorf("%s: failed to encode outputs: %w", m.Sig, err)
	}
	return out, common.Address{}, nil
}

func (c *Chain) create(env *Env, data []byte) (*contract, error) {
	for _, spec := range c.specs {
		if !bytes.HasPrefix(data, spec.Bytecode) {
			continue
		}
		args, err := spec.ABI.Constructor.Inputs.Unpack(data[len(spec.Bytecode):])
		if err != nil {
			return nil, &Revert{}
		}
		prog, err := spec.New(env, args)
		if err != nil {
			return nil, err
		}
		return &contract{spec: spec, code: spec.Bytecode, prog: prog}, nil
	}
	// Unknown bytecode is stored as inert code
	return &contract{code: append([]byte{}, data...)}, nil
}

func intrinsicGas(data []byte, create, program bool) uint64 {
	gas := uint64(txGas)
	for _, b := range data {
		if b == 0 {
			gas += zeroByteGas
		} else {
			gas += nonZeroGas
		}
	}
	if create {
		gas += createGas + executeGas
	} else if program {
		gas += executeGas
	}
	return gas
}

func blockHash(number uint64) common.Hash {
	return crypto.Keccak256Hash([]byte("catapult-testutil-block"), new(big.Int).SetUint64(number).Bytes())
}
