package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		in   string
		want Quantity
	}{
		{"10", Units(10)},
		{"-2.5", Quantity(-25_000)},
		{"0.12345", Quantity(1_234)},
		{"+.5", Quantity(5_000)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseQuantity(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseQuantity("")
	assert.Error(t, err)
}

func TestQuantity_DecimalRoundTrip(t *testing.T) {
	q := Quantity(-123_456)
	assert.Equal(t, "-12.3456", q.Decimal().String())
	assert.Equal(t, q, NewQuantityFromDecimal(q.Decimal()))
}

func TestQuantity_JSON(t *testing.T) {
	var payload struct {
		Qty Quantity `json:"qty"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"qty":"7.25"}`), &payload))
	assert.Equal(t, Quantity(72_500), payload.Qty)

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"qty":7.25}`, string(out))
}

func TestExtend(t *testing.T) {
	got := Extend(Units(3), MustMoney("3.333333"))
	assert.True(t, got.Equal(MustMoney("10.00")), got.String())
}
