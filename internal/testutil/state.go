package testutil

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

type contract struct {
	spec *ProgramSpec
	code []byte
	prog Program
}

// world is the account state of the fake chain
type world struct {
	balances  map[common.Address]*big.Int
	nonces    map[common.Address]uint64
	contracts map[common.Address]*contract

	// per-execution context, not cloned
	blockNumber uint64
	timestamp   uint64
	logs        []*types.Log
}

func newWorld() *world {
	return &world{
		balances:  make(map[common.Address]*big.Int),
		nonces:    make(map[common.Address]uint64),
		contracts: make(map[common.Address]*contract),
	}
}

func (w *world) clone() *world {
	out := newWorld()
	for addr, bal := range w.balances {
		out.balances[addr] = new(big.Int).Set(bal)
	}
	for addr, nonce := range w.nonces {
		out.nonces[addr] = nonce
	}
	for addr, c := range w.contracts {
		cc := &contract{spec: c.spec, code: c.code}
		if c.prog != nil {
			cc.prog = c.prog.Clone()
		}
		out.contracts[addr] = cc
	}
	return out
}

func (w *world) balance(addr common.Address) *big.Int {
	if bal, ok := w.balances[addr]; ok {
		return bal
	}
	return new(big.Int)
}

func (w *world) transfer(from, to common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() == 0 {
		return nil
	}
	have := w.balance(from)
	if have.Cmp(amount) < 0 {
		return fmt.Errorf("insufficient funds for transfer: address %s have %v want %v", from.Hex(), have, amount)
	}
	w.balances[from] = new(big.Int).Sub(have, amount)
	w.balances[to] = new(big.Int).Add(w.balance(to), amount)
	return nil
}
