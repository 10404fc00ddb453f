package domain

import (
	"fmt"
	"strings"
)

// VendorSort orders the public directory.
type VendorSort string

const (
	// SortNewest is the default: most recently registered first.
	SortNewest     VendorSort = ""
	SortRatingDesc VendorSort = "rating_desc"
	SortRatingAsc  VendorSort = "rating_asc"
)

// ParseVendorSort validates the sort query parameter.
func ParseVendorSort(s string) (VendorSort, error) {
	switch VendorSort(strings.TrimSpace(s)) {
	case SortNewest:
		return SortNewest, nil
	case SortRatingDesc:
		return SortRatingDesc, nil
	case SortRatingAsc:
		return SortRatingAsc, nil
	default:
		return "", fmt.Errorf("sort must be one of %q or %q", SortRatingDesc, SortRatingAsc)
	}
}

// VendorFilter narrows the public directory. Zero values match everything.
type VendorFilter struct {
	// Search is a case-insensitive substring of the vendor name.
	Search   string
	Category string
	Sort     VendorSort
}

// AdminOrder orders the admin vendor table.
type AdminOrder string

const (
	AdminOrderCreated AdminOrder = "created"
	AdminOrderName    AdminOrder = "name"
)

// ParseAdminOrder validates the admin order parameter; empty means created.
func ParseAdminOrder(s string) (AdminOrder, error) {
	switch AdminOrder(strings.TrimSpace(s)) {
	case "", AdminOrderCreated:
		return AdminOrderCreated, nil
	case AdminOrderName:
		return AdminOrderName, nil
	default:
		return "", fmt.Errorf("order must be %q or %q", AdminOrderCreated, AdminOrderName)
	}
}

// NullableString trims s and returns nil when nothing is left.
func NullableString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
