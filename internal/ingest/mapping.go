package ingest

import (
	"strings"
	"unicode"
)

// Canonical column names of a product upload
const (
	ColCompany            = "company"
	ColSegment            = "segment"
	ColModelNumber        = "model_number"
	ColProductType        = "product_type"
	ColDescription        = "description"
	ColSpecifications     = "specifications"
	ColBasePrice          = "base_price"
	ColPurchasePercentage = "purchase_percentage"
	ColSalePercentage     = "sale_percentage"
	ColStockQuantity      = "stock_quantity"
	ColInStock            = "in_stock"
	ColIsActive           = "is_active"
)

// FieldMapping maps canonical columns to the header spellings accepted for them.
// Bump Version whenever an alias is added or removed.
type FieldMapping struct {
	Version int
	Aliases map[string][]string
}

// DefaultMapping is the mapping used for product uploads
var DefaultMapping = FieldMapping{
	Version: 1,
	Aliases: map[string][]string{
		ColCompany:            {"company", "brand", "manufacturer", "company name"},
		ColSegment:            {"segment", "category"},
		ColModelNumber:        {"model_number", "model number", "model no", "model no.", "model", "modelnumber", "model_no", "sku"},
		ColProductType:        {"product_type", "product type", "type"},
		ColDescription:        {"description", "desc", "product description"},
		ColSpecifications:     {"specifications", "specification", "specs", "spec"},
		ColBasePrice:          {"base_price", "base price", "baseprice", "price", "mrp"},
		ColPurchasePercentage: {"purchase_percentage", "purchase percentage", "purchase %", "purchase_pct", "dealer discount", "purchase discount"},
		ColSalePercentage:     {"sale_percentage", "sale percentage", "sale %", "sale_pct", "sale discount"},
		ColStockQuantity:      {"stock_quantity", "stock quantity", "stock", "qty", "quantity"},
		ColInStock:            {"in_stock", "in stock", "available"},
		ColIsActive:           {"is_active", "is active", "active", "enabled"},
	},
}

// Resolve maps header column indexes to canonical names. Unknown headers are ignored;
// when two headers resolve to the same column the first one wins.
func (m FieldMapping) Resolve(header []string) map[int]string {
	lookup := make(map[string]string)
	for canonical, aliases := range m.Aliases {
		lookup[normalizeHeader(canonical)] = canonical
		for _, alias := range aliases {
			lookup[normalizeHeader(alias)] = canonical
		}
	}

	resolved := make(map[int]string, len(header))
	seen := make(map[string]bool)
	for i, h := range header {
		canonical, ok := lookup[normalizeHeader(h)]
		if !ok || seen[canonical] {
			continue
		}
		seen[canonical] = true
		resolved[i] = canonical
	}

	return resolved
}

// normalizeHeader lowercases and keeps only letters, digits and '%', which also drops a UTF-8 BOM
func normalizeHeader(h string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(h) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '%' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
