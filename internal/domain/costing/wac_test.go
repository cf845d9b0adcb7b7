package costing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"costbook/internal/core/types"
)

func TestWeightedAverage(t *testing.T) {
	tests := []struct {
		name   string
		preQty types.Quantity
		oldAvg string
		q      types.Quantity
		c      string
		want   string
	}{
		{"first receipt", 0, "0", types.Units(10), "5", "5"},
		{"blend", types.Units(10), "5", types.Units(10), "7", "6"},
		{"repeating fraction rounds to 6dp", types.Units(1), "1", types.Units(2), "2", "1.666667"},
		{"negative preQty takes the receipt cost", types.Units(-5), "4", types.Units(10), "6", "6"},
		{"non-positive total keeps old", types.Units(-10), "4", types.Units(5), "6", "4"},
		{"exactly zero keeps old", types.Units(-5), "4", types.Units(5), "6", "4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WeightedAverage(tt.preQty, types.MustMoney(tt.oldAvg), tt.q, types.MustMoney(tt.c))
			assert.True(t, got.Equal(types.MustMoney(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

type receipt struct {
	qty  types.Quantity
	cost types.Money
}

func permutations(in []receipt) [][]receipt {
	if len(in) <= 1 {
		return [][]receipt{append([]receipt(nil), in...)}
	}
	var out [][]receipt
	for i := range in {
		rest := make([]receipt, 0, len(in)-1)
		rest = append(rest, in[:i]...)
		rest = append(rest, in[i+1:]...)
		for _, p := range permutations(rest) {
			out = append(out, append([]receipt{in[i]}, p...))
		}
	}
	return out
}

func TestWeightedAverage_MatchesReferenceForAnyReceiptOrder(t *testing.T) {
	receipts := []receipt{
		{types.Units(10), types.MustMoney("5.00")},
		{types.Units(4), types.MustMoney("7.25")},
		{types.Units(6), types.MustMoney("3.10")},
		{types.Units(1), types.MustMoney("11.99")},
	}

	var totalQty types.Quantity
	totalValue := decimal.Zero
	for _, r := range receipts {
		totalQty += r.qty
		totalValue = totalValue.Add(r.qty.Decimal().Mul(r.cost))
	}
	reference := totalValue.Div(totalQty.Decimal())
	tolerance := types.MustMoney("0.00001")

	for _, order := range permutations(receipts) {
		var qty types.Quantity
		avg := types.Zero()
		for _, r := range order {
			avg = WeightedAverage(qty, avg, r.qty, r.cost)
			qty += r.qty
		}
		assert.True(t, avg.Sub(reference).Abs().LessThanOrEqual(tolerance),
			"order result %s diverges from reference %s", avg, reference)
	}
}

func TestWeightedAverage_IssuesDoNotChangeCost(t *testing.T) {
	same := receipt{types.Units(5), types.MustMoney("8.40")}
	sequences := [][]types.Quantity{
		{same.qty, same.qty, types.Units(-3), same.qty},
		{types.Units(-3), same.qty, same.qty, same.qty},
		{same.qty, types.Units(-3), same.qty, same.qty},
	}

	var finals []types.Money
	for _, seq := range sequences {
		var qty types.Quantity
		avg := types.Zero()
		for _, q := range seq {
			if q.IsPositive() {
				avg = WeightedAverage(qty, avg, q, same.cost)
			}
			qty += q
		}
		finals = append(finals, avg)
	}

	for _, f := range finals {
		assert.True(t, f.Equal(finals[0]), "%s != %s", f, finals[0])
	}
	assert.True(t, finals[0].Equal(same.cost))
}
