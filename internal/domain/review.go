package domain

import (
	"time"
)

// Review is a public, immutable client review of a vendor.
type Review struct {
	ID         string    `json:"id"`
	VendorID   string    `json:"vendor_id"`
	ClientName string    `json:"client_name"`
	Project    *string   `json:"project"`
	Rating     int       `json:"rating"`
	Comment    *string   `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewReview is a validated review submission.
type NewReview struct {
	VendorID   string
	ClientName string
	Project    *string
	Rating     int
	Comment    *string
}

// ReviewResult is what a successful submission returns: the stored review
// and the vendor's average after it.
type ReviewResult struct {
	Review        *Review       `json:"review"`
	AverageRating AverageRating `json:"average_rating"`
}
