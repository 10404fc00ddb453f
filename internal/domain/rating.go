package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Review rating bounds, inclusive.
const (
	MinRating = 1
	MaxRating = 5
)

// ErrInvalidRating is returned by ParseRating for anything that is not an
// integer in [MinRating, MaxRating].
var ErrInvalidRating = fmt.Errorf("rating must be an integer between %d and %d", MinRating, MaxRating)

// ErrRatingRequired is returned by ParseRating when no rating was sent.
var ErrRatingRequired = errors.New("rating is required")

// maxRatingLen and maxRatingExp bound the input before any decimal
// arithmetic runs; a huge exponent makes comparison and IsInteger expensive.
const (
	maxRatingLen = 32
	maxRatingExp = 16
)

// ParseRating accepts a JSON number or numeric string. Values with a
// fractional part are rejected rather than rounded; 4.0 and "4" are 4.
func ParseRating(raw json.RawMessage) (int, error) {
	text := strings.TrimSpace(string(raw))
	if text == "" || text == "null" {
		return 0, ErrRatingRequired
	}

	if strings.HasPrefix(text, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, ErrInvalidRating
		}
		text = strings.TrimSpace(s)
		if text == "" {
			return 0, ErrRatingRequired
		}
	}

	if len(text) > maxRatingLen {
		return 0, ErrInvalidRating
	}
	d, err := decimal.NewFromString(text)
	if err != nil || d.Exponent() > maxRatingExp || d.Exponent() < -maxRatingExp {
		return 0, ErrInvalidRating
	}
	if !d.IsInteger() {
		return 0, ErrInvalidRating
	}
	if d.LessThan(decimal.NewFromInt(MinRating)) || d.GreaterThan(decimal.NewFromInt(MaxRating)) {
		return 0, ErrInvalidRating
	}
	return int(d.IntPart()), nil
}

// AverageRating is a vendor's mean review rating with two fractional digits.
// It marshals as a JSON number such as 4.50, and is 0 while a vendor has no
// reviews.
type AverageRating struct {
	decimal.Decimal
}

// NewAverageRating rounds d to two places.
func NewAverageRating(d decimal.Decimal) AverageRating {
	return AverageRating{d.Round(2)}
}

// Scan reads a numeric(3,2) column without going through float64.
func (a *AverageRating) Scan(value any) error {
	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return fmt.Errorf("scan average rating: %w", err)
	}
	a.Decimal = d.Round(2)
	return nil
}

// ComputeAverage returns sum/count rounded half away from zero to two
// places, so the mean of 1, 2 and 2 is 1.67. Zero reviews yield 0.
func ComputeAverage(sum, count int64) AverageRating {
	if count <= 0 {
		return AverageRating{decimal.Zero}
	}
	return AverageRating{decimal.NewFromInt(sum).DivRound(decimal.NewFromInt(count), 2)}
}

// String returns the value with exactly two fractional digits.
func (a AverageRating) String() string {
	return a.StringFixed(2)
}

func (a AverageRating) MarshalJSON() ([]byte, error) {
	return []byte(a.StringFixed(2)), nil
}

func (a *AverageRating) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return err
	}
	a.Decimal = d.Round(2)
	return nil
}
