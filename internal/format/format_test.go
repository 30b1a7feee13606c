package format

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/rovshanmuradov/tokenstats/internal/types"
)

func TestNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1_500_000, "1.5M"},
		{2_300, "2.3K"},
		{42, "42"},
		{999.5, "999.5"},
		{1_000, "1.0K"},
		{0, "0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Number(tt.in), "Number(%v)", tt.in)
	}
}

func TestPrice(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0.0000234, "2.340e-5"},
		{0.0056, "0.005600"},
		{1.23456, "1.2346"},
		{0.001, "0.001000"},
		{0.01, "0.0100"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Price(tt.in), "Price(%v)", tt.in)
	}
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "<0.01%", Percent(0.004))
	assert.Equal(t, "1.23%", Percent(1.2345))
	assert.Equal(t, "0.01%", Percent(0.01))
}

func TestAddress(t *testing.T) {
	assert.Equal(t, "EoLW...jups", Address("EoLW32eUjN9XibMLEb53CMzLtg9XxnHFU6fbpSukjups"))
	assert.Equal(t, "short", Address("short"))
}

func TestHolderFormatting(t *testing.T) {
	assert.Equal(t, "12.5M", Balance(12_500_000))
	assert.Equal(t, "512.25", Balance(512.25))
	assert.Equal(t, "$1.2K", USD(1_234))
	assert.Equal(t, "$3.50", USD(3.5))
	assert.Equal(t, "$0.0123", USD(0.0123))
	assert.Equal(t, "1 account", Accounts(1))
	assert.Equal(t, "2 accounts", Accounts(2))
	assert.Equal(t, "+1.50%", Change(1.5))
	assert.Equal(t, "-2.00%", Change(-2))
}

func TestOptionalValuesRenderNoData(t *testing.T) {
	assert.Equal(t, NoData, OptionalPrice(nil))
	assert.Equal(t, NoData, OptionalNumber(nil))
	assert.Equal(t, NoData, OptionalChange(nil))
	assert.Equal(t, NoData, Count(nil))

	zero := 0.0
	assert.Equal(t, "0", OptionalNumber(&zero))
}

func TestCount(t *testing.T) {
	assert.Equal(t, "5000+", Count(&types.HolderCount{Value: 5000, LowerBound: true}))
	assert.Equal(t, "1.4K", Count(&types.HolderCount{Value: 1420}))
}

func TestHolderValue(t *testing.T) {
	h := types.HolderSummary{Balance: decimal.NewFromInt(10)}
	assert.Equal(t, NoData, HolderValue(h))

	h.PriceKnown = true
	assert.Equal(t, "$0.0000", HolderValue(h))
}
