// Package costing maintains perpetual weighted-average item costs.
package costing

import (
	"costbook/internal/core/types"
)

// WeightedAverage blends a receipt of q units at cost c into an on-hand quantity
// preQty carried at oldAvg. When the resulting quantity is not positive the old
// average is kept. A negative preQty was already issued at oldAvg, so it carries
// no value into the blend and the receipt cost becomes the average.
// The result is rounded to unit-cost precision.
func WeightedAverage(preQty types.Quantity, oldAvg types.Money, q types.Quantity, c types.Money) types.Money {
	total := preQty + q
	if !total.IsPositive() {
		return oldAvg
	}
	if preQty.IsNegative() {
		return types.RoundUnitCost(c)
	}

	value := preQty.Decimal().Mul(oldAvg).Add(q.Decimal().Mul(c))
	return types.RoundUnitCost(value.Div(total.Decimal()))
}
