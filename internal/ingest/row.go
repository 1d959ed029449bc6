package ingest

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/camvault/dealer-ledger/internal/domain"
	"github.com/camvault/dealer-ledger/internal/usecase/catalog"
)

// ToProductInput converts the row into typed catalog input.
// Required-field checks are left to the catalog so all rows report the same way.
func (r Row) ToProductInput() (catalog.ProductInput, error) {
	input := catalog.ProductInput{
		Company:        r.Fields[ColCompany],
		Segment:        r.Fields[ColSegment],
		ModelNumber:    r.Fields[ColModelNumber],
		ProductType:    r.Fields[ColProductType],
		Description:    r.Fields[ColDescription],
		Specifications: r.Fields[ColSpecifications],
	}

	var err error
	if input.BasePrice, err = parseAmount(ColBasePrice, r.Fields[ColBasePrice], true); err != nil {
		return input, err
	}
	if input.PurchasePercentage, err = parseAmount(ColPurchasePercentage, r.Fields[ColPurchasePercentage], false); err != nil {
		return input, err
	}
	if input.SalePercentage, err = parseAmount(ColSalePercentage, r.Fields[ColSalePercentage], false); err != nil {
		return input, err
	}

	if raw := r.Fields[ColStockQuantity]; raw != "" {
		qty, convErr := strconv.Atoi(strings.ReplaceAll(raw, ",", ""))
		if convErr != nil {
			return input, domain.NewValidationError(ColStockQuantity, "is not a whole number")
		}
		input.StockQuantity = qty
	}

	if input.InStock, err = parseFlag(ColInStock, r.Fields[ColInStock]); err != nil {
		return input, err
	}
	if input.IsActive, err = parseFlag(ColIsActive, r.Fields[ColIsActive]); err != nil {
		return input, err
	}

	return input, nil
}

// ToBulkRows converts parsed rows into catalog bulk rows, keeping conversion errors per row
func ToBulkRows(rows []Row) []catalog.BulkRow {
	out := make([]catalog.BulkRow, 0, len(rows))
	for _, row := range rows {
		input, err := row.ToProductInput()
		out = append(out, catalog.BulkRow{
			Line:  row.Line,
			Input: input,
			Err:   err,
		})
	}
	return out
}

// parseAmount accepts "1,250.50", "₹ 999", "-20%" and similar spreadsheet renderings
func parseAmount(field, raw string, required bool) (decimal.Decimal, error) {
	cleaned := strings.NewReplacer(",", "", "%", "", "₹", "", "Rs.", "", "Rs", "", " ", "").Replace(raw)
	if cleaned == "" {
		if required {
			return decimal.Zero, domain.NewValidationError(field, "is required")
		}
		return decimal.Zero, nil
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, domain.NewValidationError(field, "is not a number")
	}
	return d, nil
}

func parseFlag(field, raw string) (*bool, error) {
	var v bool
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return nil, nil
	case "1", "true", "yes", "y", "t":
		v = true
	case "0", "false", "no", "n", "f":
		v = false
	default:
		return nil, domain.NewValidationError(field, "must be yes or no")
	}
	return &v, nil
}
