package abi

import (
	"fmt"
	"math/big"
	"reflect"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/catapult/internal/domain/models"
)

// FormatOutputs pairs each unpacked value with its ABI name and type
func FormatOutputs(outputs abi.Arguments, values []any) []models.Output {
	result := make([]models.Output, 0, len(values))
	for i, v := range values {
		out := models.Output{Value: FormatValue(v)}
		if i < len(outputs) {
			out.Name = outputs[i].Name
			out.Type = outputs[i].Type.String()
		}
		result = append(result, out)
	}
	return result
}

// FormatValue renders ABI values in a form that survives JSON and YAML encoding.
// Integers become decimal strings, addresses checksummed hex and byte arrays 0x hex.
func FormatValue(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case *big.Int:
		return val.String()
	case common.Address:
		return val.Hex()
	case common.Hash:
		return val.Hex()
	case []byte:
		return hexutil.Encode(val)
	case string, bool:
		return val
	case uint8, uint16, uint32, uint64, int8, int16, int32, int64:
		return fmt.Sprintf("%d", val)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			b := make([]byte, rv.Len())
			for i := range b {
				b[i] = byte(rv.Index(i).Uint())
			}
			return hexutil.Encode(b)
		}
		fallthrough
	case reflect.Slice:
		items := make([]any, rv.Len())
		for i := range items {
			items[i] = FormatValue(rv.Index(i).Interface())
		}
		return items
	case reflect.Struct:
		fields := make(map[string]any, rv.NumField())
		for i := 0; i < rv.NumField(); i++ {
			fields[rv.Type().Field(i).Name] = FormatValue(rv.Field(i).Interface())
		}
		return fields
	}
	return fmt.Sprintf("%v", v)
}

// DecodeLogs decodes the receipt logs that match events of contractABI. Logs emitted by
// other contracts or unknown events are skipped.
func DecodeLogs(contractABI *abi.ABI, logs []*types.Log) []models.DecodedEvent {
	var events []models.DecodedEvent
	for _, log := range logs {
		if log == nil || len(log.Topics) == 0 {
			continue
		}
		event, err := contractABI.EventByID(log.Topics[0])
		if err != nil {
			continue
		}

		args := make(map[string]any)
		if len(log.Data) > 0 {
			if err := event.Inputs.UnpackIntoMap(args, log.Data); err != nil {
				continue
			}
		}

		var indexed abi.Arguments
		for _, input := range event.Inputs {
			if input.Indexed {
				indexed = append(indexed, input)
			}
		}
		if len(indexed) > 0 {
			if err := abi.ParseTopicsIntoMap(args, indexed, log.Topics[1:]); err != nil {
				continue
			}
		}

		for k, v := range args {
			args[k] = FormatValue(v)
		}
		events = append(events, models.DecodedEvent{
			Name:    event.Name,
			Address: log.Address.Hex(),
			Args:    args,
			Index:   log.Index,
		})
	}
	return events
}
