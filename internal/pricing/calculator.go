package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// CurrencyPlaces is the precision every derived price is rounded to
const CurrencyPlaces = 2

var (
	hundred = decimal.NewFromInt(100)

	// MinPercentage is the lowest accepted adjustment; anything below would yield a negative price
	MinPercentage = decimal.NewFromInt(-100)

	// MaxPercentage caps markups so a typo in a spreadsheet can't publish absurd prices
	MaxPercentage = decimal.NewFromInt(1000)

	// ErrNegativeBase is returned when the base price is below zero
	ErrNegativeBase = errors.New("base price must not be negative")

	// ErrPercentageOutOfRange is returned when a percentage falls outside [MinPercentage, MaxPercentage]
	ErrPercentageOutOfRange = errors.New("percentage out of range")
)

// Prices holds the derived dealer prices of a product
type Prices struct {
	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal
}

// Recalculate derives purchase and sale prices from the base price.
// The sale price cascades from the rounded purchase price, not from the base.
func Recalculate(base, purchasePct, salePct decimal.Decimal) Prices {
	purchase := adjust(base, purchasePct)
	sale := adjust(purchase, salePct)

	return Prices{
		PurchasePrice: purchase,
		SalePrice:     sale,
	}
}

// Validate checks the inputs Recalculate accepts
func Validate(base, purchasePct, salePct decimal.Decimal) error {
	if base.IsNegative() {
		return ErrNegativeBase
	}
	if !inRange(purchasePct) {
		return fmt.Errorf("purchase %w: %s", ErrPercentageOutOfRange, purchasePct.String())
	}
	if !inRange(salePct) {
		return fmt.Errorf("sale %w: %s", ErrPercentageOutOfRange, salePct.String())
	}
	return nil
}

// CODAdvance returns the up-front amount required before a cash-on-delivery order ships:
// percent of the order total plus a fixed surcharge, never more than the total itself.
func CODAdvance(total, percent, surcharge decimal.Decimal) decimal.Decimal {
	if !total.IsPositive() {
		return decimal.Zero
	}

	advance := total.Mul(percent).Div(hundred).Add(surcharge).Round(CurrencyPlaces)
	if advance.GreaterThan(total) {
		return total.Round(CurrencyPlaces)
	}
	if advance.IsNegative() {
		return decimal.Zero
	}
	return advance
}

// Round rounds an amount half-up to currency precision
func Round(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(CurrencyPlaces)
}

func adjust(amount, pct decimal.Decimal) decimal.Decimal {
	return amount.Add(amount.Mul(pct).Div(hundred)).Round(CurrencyPlaces)
}

func inRange(pct decimal.Decimal) bool {
	return pct.GreaterThanOrEqual(MinPercentage) && pct.LessThanOrEqual(MaxPercentage)
}
