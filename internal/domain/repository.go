package domain

import (
	"context"
	"time"
)

// ListingRepository persists listings. Ownership checks happen in the
// caller, never here.
type ListingRepository interface {
	Create(ctx context.Context, listing *Listing) error
	GetByID(ctx context.Context, id int64) (*Listing, error)
	UpdateField(ctx context.Context, id int64, field ListingField, value string) error
	// Delete is idempotent and reports whether a row existed.
	Delete(ctx context.Context, id int64) (bool, error)

	// ListActive returns listings with expires_at > now ordered by id ascending.
	ListActive(ctx context.Context, now time.Time) ([]*Listing, error)
	CountActive(ctx context.Context, now time.Time) (int, error)
	ListBySeller(ctx context.Context, sellerID int64) ([]*Listing, error)
	CountCreatedSince(ctx context.Context, sellerID int64, since time.Time) (int, error)

	Renew(ctx context.Context, id int64, expiresAt, renewedAt time.Time) error
	// ListExpiring returns not-yet-announced listings with expires_at in [from, to).
	ListExpiring(ctx context.Context, from, to time.Time) ([]*Listing, error)
	MarkExpiryNotified(ctx context.Context, id int64) error
	// ListUnchecked returns active listings whose last relevance check is before checkedBefore.
	ListUnchecked(ctx context.Context, now, checkedBefore time.Time) ([]*Listing, error)
	TouchChecked(ctx context.Context, id int64, at time.Time) error
}

// UserRepository persists users.
type UserRepository interface {
	// Ensure inserts the user if absent and returns the stored row.
	Ensure(ctx context.Context, profile Profile, now time.Time) (*User, error)
	// RefreshProfile inserts or updates the self-reported profile fields.
	RefreshProfile(ctx context.Context, profile Profile, now time.Time) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	SetBan(ctx context.Context, id int64, banned bool, reason string) error
	SetWhitelist(ctx context.Context, id int64, whitelisted bool) error
	SetDailyLimit(ctx context.Context, id int64, limit int) error
	Count(ctx context.Context) (int, error)
}

// ReviewRepository persists reviews.
type ReviewRepository interface {
	Create(ctx context.Context, review *Review) error
	GetByID(ctx context.Context, id int64) (*Review, error)
	// Approve flips a pending review to approved and reports whether it did.
	Approve(ctx context.Context, id int64) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	// ListPendingIDs returns pending ids ordered by submission time ascending.
	ListPendingIDs(ctx context.Context) ([]int64, error)
	// SellerRating aggregates approved reviews only.
	SellerRating(ctx context.Context, sellerID int64) (Rating, error)
}

// AdminActionRepository is the append-only audit log.
type AdminActionRepository interface {
	Create(ctx context.Context, action *AdminAction) error
	ListRecent(ctx context.Context, limit int) ([]*AdminAction, error)
}
