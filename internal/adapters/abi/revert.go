package abi

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

// RevertData extracts the revert payload a node attaches to a failed call or estimate
func RevertData(err error) []byte {
	var dataErr rpc.DataError
	if !errors.As(err, &dataErr) {
		return nil
	}
	switch data := dataErr.ErrorData().(type) {
	case string:
		b, decodeErr := hexutil.Decode(data)
		if decodeErr != nil {
			return nil
		}
		return b
	case []byte:
		return data
	}
	return nil
}

// DecodeRevert renders revert data as a reason string. Error(string) yields the message,
// Panic(uint256) a description of the panic code and a custom error declared in contractABI
// its name and arguments. Unknown data yields "".
func DecodeRevert(contractABI *abi.ABI, data []byte) string {
	if len(data) < 4 {
		return ""
	}
	if reason, err := abi.UnpackRevert(data); err == nil {
		return reason
	}
	if contractABI == nil {
		return ""
	}

	for _, abiErr := range contractABI.Errors {
		if !bytes.Equal(abiErr.ID[:4], data[:4]) {
			continue
		}
		if len(abiErr.Inputs) == 0 {
			return abiErr.Name
		}
		values, err := abiErr.Inputs.Unpack(data[4:])
		if err != nil {
			return abiErr.Name
		}
		parts := make([]string, len(values))
		for i, v := range values {
			parts[i] = fmt.Sprintf("%v", FormatValue(v))
		}
		return fmt.Sprintf("%s(%s)", abiErr.Name, strings.Join(parts, ", "))
	}
	return ""
}
