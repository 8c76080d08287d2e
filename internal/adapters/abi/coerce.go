package abi

import (
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/catapult/internal/domain"
)

// CoerceArgs converts raw strings to the Go values abi.Pack expects for inputs.
// Arrays are written as JSON lists: ["1","2"] or [1,2].
func CoerceArgs(inputs abi.Arguments, raw []string) ([]any, error) {
	if len(inputs) != len(raw) {
		return nil, fmt.Errorf("expected %d arguments, got %d", len(inputs), len(raw))
	}

	args := make([]any, len(inputs))
	for i, input := range inputs {
		v, err := coerce(input.Type, raw[i])
		if err != nil {
			name := input.Name
			if name == "" {
				name = fmt.Sprintf("#%d", i)
			}
			return nil, fmt.Errorf("argument %s (%s): %w", name, input.Type.String(), err)
		}
		args[i] = v
	}
	return args, nil
}

func coerce(t abi.Type, raw string) (any, error) {
	raw = strings.TrimSpace(raw)

	switch t.T {
	case abi.IntTy, abi.UintTy:
		return coerceInt(t, raw)
	case abi.BoolTy:
		return strconv.ParseBool(raw)
	case abi.StringTy:
		return raw, nil
	case abi.AddressTy:
		if !common.IsHexAddress(raw) {
			return nil, fmt.Errorf("%q: %w", raw, domain.ErrInvalidAddress)
		}
		return common.HexToAddress(raw), nil
	case abi.BytesTy:
		return hexutil.Decode(raw)
	case abi.FixedBytesTy:
		b, err := hexutil.Decode(raw)
		if err != nil {
			return nil, err
		}
		if len(b) > t.Size {
			return nil, fmt.Errorf("value has %d bytes, type holds %d", len(b), t.Size)
		}
		arr := reflect.New(t.GetType()).Elem()
		for i, v := range b {
			arr.Index(i).SetUint(uint64(v))
		}
		return arr.Interface(), nil
	case abi.SliceTy, abi.ArrayTy:
		return coerceList(t, raw)
	default:
		return nil, fmt.Errorf("unsupported argument type %s", t.String())
	}
}

// coerceInt parses decimal or 0x-prefixed hex and converts to the sized Go type
func coerceInt(t abi.Type, raw string) (any, error) {
	n, ok := new(big.Int).SetString(raw, 0)
	if !ok {
		return nil, fmt.Errorf("%q is not an integer", raw)
	}
	if t.T == abi.UintTy && n.Sign() < 0 {
		return nil, fmt.Errorf("%q is negative", raw)
	}
	bits, limit := n.BitLen(), t.Size
	if t.T == abi.IntTy {
		limit--
		if n.Sign() < 0 {
			// -2^(size-1) is representable
			bits = new(big.Int).Add(n, big.NewInt(1)).BitLen()
		}
	}
	if bits > limit {
		return nil, fmt.Errorf("%q overflows %s", raw, t.String())
	}

	goType := t.GetType()
	if goType == reflect.TypeOf(&big.Int{}) {
		return n, nil
	}
	if t.T == abi.UintTy {
		return reflect.ValueOf(n.Uint64()).Convert(goType).Interface(), nil
	}
	return reflect.ValueOf(n.Int64()).Convert(goType).Interface(), nil
}

func coerceList(t abi.Type, raw string) (any, error) {
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("expected a JSON list: %w", err)
	}
	if t.T == abi.ArrayTy && len(items) != t.Size {
		return nil, fmt.Errorf("expected %d elements, got %d", t.Size, len(items))
	}

	var out reflect.Value
	if t.T == abi.ArrayTy {
		out = reflect.New(t.GetType()).Elem()
	} else {
		out = reflect.MakeSlice(t.GetType(), len(items), len(items))
	}

	for i, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err != nil {
			// numbers and booleans are used verbatim
			s = string(item)
		}
		v, err := coerce(*t.Elem, s)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out.Index(i).Set(reflect.ValueOf(v))
	}
	return out.Interface(), nil
}
