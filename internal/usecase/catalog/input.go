package catalog

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/camvault/dealer-ledger/internal/domain"
	"github.com/camvault/dealer-ledger/internal/pricing"
	"github.com/camvault/dealer-ledger/internal/pkg/validator"
)

// ProductInput carries every caller-settable product attribute.
// Purchase and sale prices are absent on purpose: they are always derived.
type ProductInput struct {
	Company            string          `json:"company" validate:"max=100"`
	Segment            string          `json:"segment" validate:"max=100"`
	ModelNumber        string          `json:"model_number" validate:"required,max=100"`
	ProductType        string          `json:"product_type" validate:"max=100"`
	Description        string          `json:"description" validate:"max=2000"`
	Specifications     string          `json:"specifications" validate:"max=5000"`
	BasePrice          decimal.Decimal `json:"base_price"`
	PurchasePercentage decimal.Decimal `json:"purchase_percentage"`
	SalePercentage     decimal.Decimal `json:"sale_percentage"`
	StockQuantity      int             `json:"stock_quantity" validate:"gte=0"`
	InStock            *bool           `json:"in_stock,omitempty"`
	IsActive           *bool           `json:"is_active,omitempty"`
}

// UpdateProductInput is a partial update; nil fields keep their stored value
type UpdateProductInput struct {
	Company            *string          `json:"company,omitempty" validate:"omitempty,max=100"`
	Segment            *string          `json:"segment,omitempty" validate:"omitempty,max=100"`
	ModelNumber        *string          `json:"model_number,omitempty" validate:"omitempty,min=1,max=100"`
	ProductType        *string          `json:"product_type,omitempty" validate:"omitempty,max=100"`
	Description        *string          `json:"description,omitempty" validate:"omitempty,max=2000"`
	Specifications     *string          `json:"specifications,omitempty" validate:"omitempty,max=5000"`
	BasePrice          *decimal.Decimal `json:"base_price,omitempty"`
	PurchasePercentage *decimal.Decimal `json:"purchase_percentage,omitempty"`
	SalePercentage     *decimal.Decimal `json:"sale_percentage,omitempty"`
	StockQuantity      *int             `json:"stock_quantity,omitempty" validate:"omitempty,gte=0"`
	InStock            *bool            `json:"in_stock,omitempty"`
	IsActive           *bool            `json:"is_active,omitempty"`
}

func (in ProductInput) validate() error {
	if err := validator.Struct(in); err != nil {
		return err
	}
	return validatePricing(in.BasePrice, in.PurchasePercentage, in.SalePercentage)
}

func (in ProductInput) toProduct() *domain.Product {
	product := &domain.Product{
		IsActive: true,
		InStock:  in.StockQuantity > 0,
	}
	in.applyTo(product)
	return product
}

// applyTo overwrites every attribute of p with the input, as a bulk row does
func (in ProductInput) applyTo(p *domain.Product) {
	p.Company = in.Company
	p.Segment = in.Segment
	p.ModelNumber = in.ModelNumber
	p.ProductType = in.ProductType
	p.Description = in.Description
	p.Specifications = in.Specifications
	p.BasePrice = in.BasePrice
	p.PurchasePercentage = in.PurchasePercentage
	p.SalePercentage = in.SalePercentage
	p.StockQuantity = in.StockQuantity
	p.InStock = in.StockQuantity > 0
	if in.InStock != nil {
		p.InStock = *in.InStock
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
}

func (in UpdateProductInput) applyTo(p *domain.Product) {
	if in.Company != nil {
		p.Company = *in.Company
	}
	if in.Segment != nil {
		p.Segment = *in.Segment
	}
	if in.ModelNumber != nil && *in.ModelNumber != "" {
		p.ModelNumber = *in.ModelNumber
	}
	if in.ProductType != nil {
		p.ProductType = *in.ProductType
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Specifications != nil {
		p.Specifications = *in.Specifications
	}
	if in.BasePrice != nil {
		p.BasePrice = *in.BasePrice
	}
	if in.PurchasePercentage != nil {
		p.PurchasePercentage = *in.PurchasePercentage
	}
	if in.SalePercentage != nil {
		p.SalePercentage = *in.SalePercentage
	}
	if in.StockQuantity != nil {
		p.StockQuantity = *in.StockQuantity
		p.InStock = *in.StockQuantity > 0
	}
	if in.InStock != nil {
		p.InStock = *in.InStock
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
}

func validatePricing(base, purchasePct, salePct decimal.Decimal) error {
	err := pricing.Validate(pricing.Round(base), pricing.Round(purchasePct), pricing.Round(salePct))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pricing.ErrNegativeBase):
		return domain.NewValidationError("base_price", "must not be negative")
	default:
		return domain.NewValidationError("percentage", err.Error())
	}
}
