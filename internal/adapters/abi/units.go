package abi

import (
	"fmt"
	"math/big"
	"strings"
)

// units are ordered so that longer suffixes match first ("gwei" before "wei")
var units = []struct {
	suffix   string
	decimals int64
}{
	{"finney", 15},
	{"szabo", 12},
	{"ether", 18},
	{"gwei", 9},
	{"mwei", 6},
	{"kwei", 3},
	{"eth", 18},
	{"wei", 0},
}

// ParseValue parses an amount with an optional unit suffix ("0.1ether", "20 gwei").
// A bare number is wei. The result must be a whole, non-negative number of wei.
func ParseValue(raw string) (*big.Int, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return new(big.Int), nil
	}

	decimals := int64(0)
	for _, u := range units {
		if strings.HasSuffix(s, u.suffix) {
			s = strings.TrimSpace(strings.TrimSuffix(s, u.suffix))
			decimals = u.decimals
			break
		}
	}

	amount, err := parseNumber(s)
	if err != nil {
		return nil, fmt.Errorf("invalid value %q", raw)
	}
	amount.Mul(amount, new(big.Rat).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(decimals), nil)))
	if !amount.IsInt() {
		return nil, fmt.Errorf("value %q is not a whole number of wei", raw)
	}
	if amount.Sign() < 0 {
		return nil, fmt.Errorf("value %q is negative", raw)
	}
	return new(big.Int).Set(amount.Num()), nil
}

func parseNumber(s string) (*big.Rat, error) {
	if strings.HasPrefix(s, "0x") {
		n, ok := new(big.Int).SetString(s[2:], 16)
		if !ok {
			return nil, fmt.Errorf("invalid hex number")
		}
		return new(big.Rat).SetInt(n), nil
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, fmt.Errorf("invalid number")
	}
	return r, nil
}
