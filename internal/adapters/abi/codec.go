package abi

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/catapult/internal/domain/models"
)

// Codec converts CLI strings to ABI values and decodes call results, receipt logs and
// revert data. It holds no state.
type Codec struct{}

// NewCodec creates a new Codec
func NewCodec() *Codec {
	return &Codec{}
}

// CoerceArgs converts raw strings to the Go values abi.Pack expects for inputs
func (c *Codec) CoerceArgs(inputs abi.Arguments, raw []string) ([]any, error) {
	return CoerceArgs(inputs, raw)
}

// FormatOutputs pairs each unpacked value with its ABI name and type
func (c *Codec) FormatOutputs(outputs abi.Arguments, values []any) []models.Output {
	return FormatOutputs(outputs, values)
}

// DecodeLogs decodes the receipt logs that match events of contractABI
func (c *Codec) DecodeLogs(contractABI *abi.ABI, logs []*types.Log) []models.DecodedEvent {
	return DecodeLogs(contractABI, logs)
}

// RevertReason extracts and decodes revert data carried by err
func (c *Codec) RevertReason(contractABI *abi.ABI, err error) string {
	return DecodeRevert(contractABI, RevertData(err))
}

// ParseValue parses an ether amount such as "0.1ether", "20 gwei" or "1000"
func (c *Codec) ParseValue(raw string) (*big.Int, error) {
	return ParseValue(raw)
}
