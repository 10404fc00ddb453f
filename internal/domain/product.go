package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MaxPrice is the largest price a numeric(12,2) column holds.
var MaxPrice = decimal.RequireFromString("9999999999.99")

// Price is a non-negative amount with two fractional digits. It marshals as a
// JSON number and accepts either a number or a numeric string.
type Price struct {
	decimal.Decimal
}

// ParsePrice validates and rounds d.
func ParsePrice(d decimal.Decimal) (Price, error) {
	if d.IsNegative() {
		return Price{}, fmt.Errorf("price must not be negative")
	}
	d = d.Round(2)
	if d.GreaterThan(MaxPrice) {
		return Price{}, fmt.Errorf("price must not exceed %s", MaxPrice.StringFixed(2))
	}
	return Price{d}, nil
}

// PriceFromFloat converts a value scanned from a numeric(12,2) column.
func PriceFromFloat(f float64) Price {
	return Price{decimal.NewFromFloat(f).Round(2)}
}

func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(p.StringFixed(2)), nil
}

func (p *Price) UnmarshalJSON(b []byte) error {
	return p.Decimal.UnmarshalJSON(b)
}

// Product belongs to exactly one vendor. Price is optional.
type Product struct {
	ID          string    `json:"id"`
	VendorID    string    `json:"vendor_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Price       *Price    `json:"price"`
	ImageURL    *string   `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OwnedBy reports whether vendorID owns the product.
func (p *Product) OwnedBy(vendorID string) bool {
	return p.VendorID == vendorID
}
