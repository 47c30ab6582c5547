package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxTitleLength is the longest listing title accepted, in characters.
const MaxTitleLength = 100

// ListingField names a user-editable listing column.
type ListingField string

const (
	FieldTitle       ListingField = "title"
	FieldDescription ListingField = "description"
	FieldPrice       ListingField = "price"
	FieldContact     ListingField = "contact"
)

// IsValid checks if the field is one of the editable columns.
func (f ListingField) IsValid() bool {
	switch f {
	case FieldTitle, FieldDescription, FieldPrice, FieldContact:
		return true
	}
	return false
}

// Listing is one sale offer.
type Listing struct {
	ID             int64
	SellerID       int64
	Title          string
	Description    string
	Price          string
	Contact        string
	CreatedAt      time.Time
	ExpiresAt      time.Time
	LastExtendedAt *time.Time
	LastCheckedAt  time.Time
	ExpiryNotified bool
}

// IsActive reports whether the listing is visible at now.
func (l *Listing) IsActive(now time.Time) bool {
	return now.Before(l.ExpiresAt)
}

// ValidateTitle enforces the title length limit.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title cannot be empty", ErrValidation)
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return fmt.Errorf("%w: title exceeds %d characters", ErrValidation, MaxTitleLength)
	}
	return nil
}

// NewListing builds a listing created at now that stays active for ttl.
func NewListing(sellerID int64, title, description, price, contact string, now time.Time, ttl time.Duration) (*Listing, error) {
	if err := ValidateTitle(title); err != nil {
		return nil, err
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("%w: listing validity must be positive", ErrValidation)
	}
	return &Listing{
		SellerID:      sellerID,
		Title:         title,
		Description:   description,
		Price:         price,
		Contact:       NormalizeContact(contact),
		CreatedAt:     now,
		ExpiresAt:     now.Add(ttl),
		LastCheckedAt: now,
	}, nil
}

// NormalizeContact strips surrounding space and a leading "@".
func NormalizeContact(contact string) string {
	return strings.TrimPrefix(strings.TrimSpace(contact), "@")
}
