package watchlist

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// microAlgoDecimals is the base currency scale: 1 ALGO = 10^6 microalgos.
const microAlgoDecimals = 6

// FormatBaseAmount renders a microalgo amount as a decimal ALGO string with
// exactly six fractional digits, e.g. 1_000_000 -> "1.000000".
func FormatBaseAmount(microAlgos uint64) string {
	return FormatAssetAmount(microAlgos, microAlgoDecimals)
}

// FormatAssetAmount renders a base-unit asset amount as a decimal string
// with exactly `decimals` fractional digits. Zero decimals yields a plain
// integer string. The conversion goes through big.Int so the full uint64
// range is preserved; no floating point is involved.
func FormatAssetAmount(amount uint64, decimals uint32) string {
	d := decimal.NewFromBigInt(new(big.Int).SetUint64(amount), -int32(decimals))
	return d.StringFixed(int32(decimals))
}
