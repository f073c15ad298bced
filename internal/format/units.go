package format

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FormatUnits renders a raw token amount with the given decimals, dropping
// trailing zeros. A nil amount formats as "0".
func FormatUnits(value *big.Int, decimals int) string {
	if value == nil {
		return "0"
	}
	return decimal.NewFromBigInt(value, -int32(decimals)).String()
}

// SafeFormat renders an amount followed by its symbol. An empty symbol leaves
// no trailing space.
func SafeFormat(value *big.Int, decimals int, symbol string) string {
	return strings.TrimSpace(FormatUnits(value, decimals) + " " + symbol)
}

// ParseUnits converts a human amount such as "1.5" into its raw integer form
func ParseUnits(amount string, decimals int) (*big.Int, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("amount %q cannot be negative", amount)
	}

	raw := d.Shift(int32(decimals))
	if !raw.IsInteger() {
		return nil, fmt.Errorf("amount %q has more than %d decimal places", amount, decimals)
	}
	return raw.BigInt(), nil
}

// FormatTimestamp renders unix seconds as a UTC date, or "-" when unset
func FormatTimestamp(unix *big.Int) string {
	if unix == nil || unix.Sign() <= 0 || !unix.IsInt64() {
		return "-"
	}
	return time.Unix(unix.Int64(), 0).UTC().Format("2006-01-02 15:04 UTC")
}

// Time converts unix seconds into a time.Time, zero when unset
func Time(unix *big.Int) time.Time {
	if unix == nil || unix.Sign() <= 0 || !unix.IsInt64() {
		return time.Time{}
	}
	return time.Unix(unix.Int64(), 0).UTC()
}
