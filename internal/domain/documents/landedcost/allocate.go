package landedcost

import (
	"github.com/shopspring/decimal"

	"costbook/internal/core/apperror"
	"costbook/internal/core/types"
)

// Allocate prorates every charge across lines by its basis and accumulates per line.
// Each charge's share is rounded to cents and the rounding remainder goes to the
// last line, so every charge allocates exactly its amount.
func Allocate(charges []Charge, lines []ReceiptLine) (Allocation, error) {
	out := make(Allocation, len(lines))
	for _, l := range lines {
		out[l.ID] = types.Zero()
	}
	if len(charges) == 0 {
		return out, nil
	}
	if len(lines) == 0 {
		return nil, apperror.NewInvalidState("purchase_order", "NO_RECEIPTS", "purchase order has charges but no receipt lines")
	}

	for _, charge := range charges {
		weights := make([]decimal.Decimal, len(lines))
		total := decimal.Zero
		for i, l := range lines {
			if charge.Basis == BasisValue {
				weights[i] = l.Value()
			} else {
				weights[i] = l.Quantity.Decimal()
			}
			total = total.Add(weights[i])
		}
		if total.IsZero() {
			return nil, apperror.NewInvalidState("landed_cost_charge", charge.Basis,
				"allocation basis total is zero").WithDetail("charge_id", charge.ID)
		}

		allocated := decimal.Zero
		for i, l := range lines {
			share := types.RoundAmount(charge.Amount.Mul(weights[i]).Div(total))
			if i == len(lines)-1 {
				share = charge.Amount.Sub(allocated)
			}
			allocated = allocated.Add(share)
			out[l.ID] = out[l.ID].Add(share)
		}
	}

	return out, nil
}
