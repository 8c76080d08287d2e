package testutil

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// Program is the state and behavior of one contract deployed on the fake chain
type Program interface {
	Call(env *Env, method *abi.Method, args []any) ([]any, error)
	Clone() Program
}

// Receiver is implemented by programs accepting plain value transfers
type Receiver interface {
	Receive(env *Env) error
}

// ProgramSpec binds an ABI and fake creation bytecode to a program constructor
type ProgramSpec struct {
	Name     string
	ABI      abi.ABI
	RawABI   string
	Bytecode []byte
	New      func(env *Env, args []any) (Program, error)
}

// Env is the execution context of one message call
type Env struct {
	Self        common.Address
	Caller      common.Address
	Value       *big.Int
	BlockNumber uint64
	Timestamp   uint64

	st   *world
	logs *[]*types.Log
}

// Balance returns the balance of addr in the executing state
func (e *Env) Balance(addr common.Address) *big.Int {
	return new(big.Int).Set(e.st.balance(addr))
}

// Transfer moves amount from the executing contract to to
func (e *Env) Transfer(to common.Address, amount *big.Int) error {
	return e.st.transfer(e.Self, to, amount)
}

// Call invokes method on the contract at to with the executing contract as caller
func (e *Env) Call(to common.Address, method string, args ...any) ([]any, error) {
	c := e.st.contracts[to]
	if c == nil || c.prog == nil {
		return nil, RevertWith("call to non-contract")
	}
	m, ok := c.spec.ABI.Methods[method]
	if !ok {
		return nil, RevertWith("unknown method " + method)
	}
	child := &Env{
		Self:        to,
		Caller:      e.Self,
		Value:       new(big.Int),
		BlockNumber: e.BlockNumber,
		Timestamp:   e.Timestamp,
		st:          e.st,
		logs:        e.logs,
	}
	return c.prog.Call(child, &m, args)
}

// Emit appends a log for event with its indexed and non-indexed args in ABI order
func (e *Env) Emit(event abi.Event, args ...any) error {
	if len(args) != len(event.Inputs) {
		return fmt.Errorf("event %s expects %d args, got %d", event.Name, len(event.Inputs), len(args))
	}

	var indexed, data []any
	for i, input := range event.Inputs {
		if input.Indexed {
			indexed = append(indexed, args[i])
		} else {
			data = append(data, args[i])
		}
	}

	topics := []common.Hash{event.ID}
	for _, arg := range indexed {
		t, err := abi.MakeTopics([]any{arg})
		if err != nil {
			return err
		}
		topics = append(topics, t[0][0])
	}
	packed, err := event.Inputs.NonIndexed().Pack(data...)
	if err != nil {
		return err
	}

	*e.logs = append(*e.logs, &types.Log{Address: e.Self, Topics: topics, Data: packed})
	return nil
}

// Revert is an execution revert carrying ABI encoded revert data. Its ErrorData makes it an
// rpc.DataError like the ones ethclient returns.
type Revert struct {
	Data   []byte
	Reason string
}

func (r *Revert) Error() string {
	if r.Reason == "" {
		return "execution reverted"
	}
	return "execution reverted: " + r.Reason
}

func (r *Revert) ErrorData() interface{} {
	return hexutil.Encode(r.Data)
}

var (
	stringArgs = abi.Arguments{{Type: mustType("string")}}
	uintArgs   = abi.Arguments{{Type: mustType("uint256")}}
)

// Panic codes used by solidity
const (
	PanicArithmetic = 0x11
	PanicOutOfBound = 0x32
)

// RevertWith builds an Error(string) revert
func RevertWith(reason string) *Revert {
	packed, _ := stringArgs.Pack(reason)
	data := append(crypto.Keccak256([]byte("Error(string)"))[:4], packed...)
	return &Revert{Data: data, Reason: reason}
}

// Panic builds a Panic(uint256) revert
func Panic(code uint64) *Revert {
	packed, _ := uintArgs.Pack(new(big.Int).SetUint64(code))
	data := append(crypto.Keccak256([]byte("Panic(uint256)"))[:4], packed...)
	return &Revert{Data: data}
}

// CustomError builds a revert for a custom error declared in the ABI
func CustomError(def abi.Error, args ...any) *Revert {
	packed, err := def.Inputs.Pack(args...)
	if err != nil {
		panic(fmt.Sprintf("custom error %s: %v", def.Name, err))
	}
	data := append(append([]byte{}, def.ID[:4]...), packed...)
	return &Revert{Data: data}
}

func mustType(t string) abi.Type {
	typ, err := abi.NewType(t, "", nil)
	if err != nil {
		panic(err)
	}
	return typ
}
