// Package utils contains small conversion helpers shared across the oracle.
package utils

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/params"
)

var weiPerUnit = new(big.Int).SetUint64(params.Ether)

// FormatWei renders a wei amount as a whole-unit decimal string with trailing
// zeros trimmed, e.g. 50000000000000000 -> "0.05".
func FormatWei(wei *big.Int) string {
	if wei == nil || wei.Sign() == 0 {
		return "0"
	}
	whole, frac := new(big.Int).QuoRem(wei, weiPerUnit, new(big.Int))
	if frac.Sign() == 0 {
		return whole.String()
	}
	digits := strings.TrimRight(fmt.Sprintf("%018s", frac.String()), "0")
	return whole.String() + "." + digits
}

// ParseWei parses a whole-unit decimal string ("0.001", "8") into wei.
func ParseWei(value string) (*big.Int, error) {
	r, ok := new(big.Rat).SetString(value)
	if !ok || r.Sign() < 0 {
		return nil, fmt.Errorf("invalid amount %q", value)
	}
	r.Mul(r, new(big.Rat).SetInt(weiPerUnit))
	if !r.IsInt() {
		return nil, fmt.Errorf("amount %q has sub-wei precision", value)
	}
	return new(big.Int).Set(r.Num()), nil
}
