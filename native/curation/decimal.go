package curation

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// CostBasisDigits is the number of fractional digits every cost-basis quotient
// is truncated to. Truncation is toward zero, never rounding.
const CostBasisDigits = 18

var costBasisScale = new(big.Int).Exp(big.NewInt(10), big.NewInt(CostBasisDigits), nil)

// DivTruncate divides a by b exactly and truncates the quotient to
// CostBasisDigits fractional digits. shopspring's Div rounds at its configured
// precision, so the quotient is taken through big.Rat instead and cut with
// integer division.
func DivTruncate(a, b decimal.Decimal) decimal.Decimal {
	quo := new(big.Rat).Quo(a.Rat(), b.Rat())
	scaled := new(big.Int).Mul(quo.Num(), costBasisScale)
	scaled.Quo(scaled, quo.Denom())
	return decimal.NewFromBigInt(scaled, -CostBasisDigits)
}
