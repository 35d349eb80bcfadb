package payment

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Currencies whose minor unit is not 1/100 of the major unit.
var currencyExponents = map[string]int32{
	"bif": 0, "clp": 0, "djf": 0, "gnf": 0, "jpy": 0, "kmf": 0, "krw": 0,
	"mga": 0, "pyg": 0, "rwf": 0, "ugx": 0, "vnd": 0, "vuv": 0, "xaf": 0,
	"xof": 0, "xpf": 0,
	"bhd": 3, "jod": 3, "kwd": 3, "omr": 3, "tnd": 3,
}

// Exponent returns the number of decimal places of currency's minor unit.
func Exponent(currency string) int32 {
	if exp, ok := currencyExponents[strings.ToLower(strings.TrimSpace(currency))]; ok {
		return exp
	}
	return 2
}

// MinorUnits converts a major amount to the gateway's integer minor units,
// rounding half away from zero.
func MinorUnits(amount decimal.Decimal, currency string) int64 {
	return amount.Shift(Exponent(currency)).Round(0).IntPart()
}
