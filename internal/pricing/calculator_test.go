package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestRecalculate_BulkUploadScenario(t *testing.T) {
	prices := Recalculate(d("1000"), d("-20"), d("-10"))

	assert.True(t, prices.PurchasePrice.Equal(d("800.00")), "purchase: %s", prices.PurchasePrice)
	assert.True(t, prices.SalePrice.Equal(d("720.00")), "sale: %s", prices.SalePrice)
}

func TestRecalculate_Cascades(t *testing.T) {
	tests := []struct {
		name        string
		base        string
		purchasePct string
		salePct     string
	}{
		{"discount then discount", "1000", "-20", "-10"},
		{"markup then discount", "2499.99", "12.5", "-3"},
		{"discount then markup", "315.40", "-7.25", "18"},
		{"fractional base", "0.99", "-33.33", "50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, p, s := d(tt.base), d(tt.purchasePct), d(tt.salePct)
			prices := Recalculate(base, p, s)

			one := decimal.NewFromInt(1)
			wantPurchase := base.Mul(one.Add(p.Div(hundred))).Round(2)
			wantSale := wantPurchase.Mul(one.Add(s.Div(hundred))).Round(2)
			independent := base.Mul(one.Add(s.Div(hundred))).Round(2)

			assert.True(t, prices.PurchasePrice.Equal(wantPurchase), "purchase %s != %s", prices.PurchasePrice, wantPurchase)
			assert.True(t, prices.SalePrice.Equal(wantSale), "sale %s != %s", prices.SalePrice, wantSale)
			assert.False(t, prices.SalePrice.Equal(independent), "sale price must derive from purchase price")
		})
	}
}

func TestRecalculate_ZeroPurchasePercentage(t *testing.T) {
	prices := Recalculate(d("500"), decimal.Zero, d("10"))

	assert.True(t, prices.PurchasePrice.Equal(d("500")))
	assert.True(t, prices.SalePrice.Equal(d("550")))
}

func TestRecalculate_Idempotent(t *testing.T) {
	first := Recalculate(d("1234.56"), d("-17.5"), d("4.25"))
	second := Recalculate(d("1234.56"), d("-17.5"), d("4.25"))

	assert.True(t, first.PurchasePrice.Equal(second.PurchasePrice))
	assert.True(t, first.SalePrice.Equal(second.SalePrice))
}

func TestRecalculate_RoundsHalfUp(t *testing.T) {
	// 10.05 * 0.5 = 5.025 -> 5.03
	prices := Recalculate(d("10.05"), d("-50"), decimal.Zero)

	assert.Equal(t, "5.03", prices.PurchasePrice.StringFixed(2))
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(d("0"), d("-100"), d("1000")))

	err := Validate(d("-1"), decimal.Zero, decimal.Zero)
	assert.ErrorIs(t, err, ErrNegativeBase)

	err = Validate(d("10"), d("-100.01"), decimal.Zero)
	assert.ErrorIs(t, err, ErrPercentageOutOfRange)

	err = Validate(d("10"), decimal.Zero, d("1000.5"))
	assert.ErrorIs(t, err, ErrPercentageOutOfRange)
}

func TestCODAdvance(t *testing.T) {
	assert.Equal(t, "150.00", CODAdvance(d("1000"), d("10"), d("50")).StringFixed(2))
	assert.Equal(t, "80.00", CODAdvance(d("80"), d("10"), d("100")).StringFixed(2), "capped at order total")
	assert.True(t, CODAdvance(decimal.Zero, d("10"), d("50")).IsZero())
	assert.Equal(t, "12.35", CODAdvance(d("123.45"), d("10"), decimal.Zero).StringFixed(2))
}
