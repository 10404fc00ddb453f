package domain

import (
	"time"
)

// Vendor is a registered business listed in the directory.
type Vendor struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	OwnerName     string        `json:"owner_name"`
	Email         string        `json:"email"`
	PasswordHash  string        `json:"-"`
	Contact       string        `json:"contact"`
	Category      string        `json:"category"`
	City          string        `json:"city"`
	Description   *string       `json:"description"`
	LogoURL       *string       `json:"logo_url"`
	AverageRating AverageRating `json:"average_rating"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// VendorProfile is the public profile page: the vendor and its products.
type VendorProfile struct {
	Vendor
	Products []Product `json:"products"`
}

// VendorSummary is one row of the public directory listing.
type VendorSummary struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Category      string        `json:"category"`
	City          string        `json:"city"`
	LogoURL       *string       `json:"logo_url"`
	AverageRating AverageRating `json:"average_rating"`
	CreatedAt     time.Time     `json:"created_at"`
}

// VendorStats is one row of the admin table. It carries only public
// directory fields; owner contact details stay behind the vendor's own
// profile endpoint.
type VendorStats struct {
	VendorSummary
	ReviewCount int64 `json:"review_count"`
}

// ProfileUpdate carries the profile fields a vendor may change. Nil fields
// are left as they are.
type ProfileUpdate struct {
	Name        *string
	OwnerName   *string
	Contact     *string
	Category    *string
	City        *string
	Description *string
}

// Empty reports whether the update changes nothing.
func (u ProfileUpdate) Empty() bool {
	return u.Name == nil && u.OwnerName == nil && u.Contact == nil &&
		u.Category == nil && u.City == nil && u.Description == nil
}

// Apply copies the set fields onto v. An empty description clears it.
func (u ProfileUpdate) Apply(v *Vendor) {
	if u.Name != nil {
		v.Name = *u.Name
	}
	if u.OwnerName != nil {
		v.OwnerName = *u.OwnerName
	}
	if u.Contact != nil {
		v.Contact = *u.Contact
	}
	if u.Category != nil {
		v.Category = *u.Category
	}
	if u.City != nil {
		v.City = *u.City
	}
	if u.Description != nil {
		v.Description = NullableString(*u.Description)
	}
}
