package usecase

import (
	"context"

	"github.com/gget5897-gif/brainrot-bot/internal/domain"
	"github.com/gget5897-gif/brainrot-bot/internal/platform/logger"
)

// BrowseItem is one listing shown to a buyer.
type BrowseItem struct {
	Listing *domain.Listing
	// Position is 1-based within the active set at the time of the call.
	Position     int
	Total        int
	SellerRating domain.Rating
}

// BrowseUsecase walks a buyer through the active listings in id order.
// The cursor lives in the session store and is clamped against the live
// active set on every call.
type BrowseUsecase struct {
	listings domain.ListingRepository
	reviews  domain.ReviewRepository
	sessions domain.SessionStore
	now      Clock
	logger   *logger.Logger
}

func NewBrowseUsecase(d Deps) *BrowseUsecase {
	return &BrowseUsecase{
		listings: d.Listings,
		reviews:  d.Reviews,
		sessions: d.Sessions,
		now:      d.clock(),
		logger:   d.Logger.Named("BrowseUsecase"),
	}
}

// Enter resets the cursor to 0 and returns the first active listing
// without advancing.
func (uc *BrowseUsecase) Enter(ctx context.Context, userID int64) (*BrowseItem, error) {
	if err := uc.sessions.SetBrowsePosition(ctx, userID, 0); err != nil {
		return nil, err
	}
	active, err := uc.listings.ListActive(ctx, uc.now())
	if err != nil {
		return nil, err
	}
	if len(active) == 0 {
		return nil, domain.ErrNotFound
	}
	return uc.item(ctx, active, 0), nil
}

// Reset puts the cursor back at the start, e.g. on /start or main menu.
func (uc *BrowseUsecase) Reset(ctx context.Context, userID int64) error {
	return uc.sessions.SetBrowsePosition(ctx, userID, 0)
}

// Next returns the listing under the cursor and advances it, wrapping to
// 0 past the end. With no active listings the cursor is left untouched.
func (uc *BrowseUsecase) Next(ctx context.Context, userID int64) (*BrowseItem, error) {
	active, err := uc.listings.ListActive(ctx, uc.now())
	if err != nil {
		return nil, err
	}
	if len(active) == 0 {
		return nil, domain.ErrNotFound
	}
	pos, err := uc.sessions.BrowsePosition(ctx, userID)
	if err != nil {
		return nil, err
	}
	if pos < 0 || pos >= len(active) {
		pos = 0
	}
	if err := uc.sessions.SetBrowsePosition(ctx, userID, (pos+1)%len(active)); err != nil {
		return nil, err
	}
	return uc.item(ctx, active, pos), nil
}

func (uc *BrowseUsecase) item(ctx context.Context, active []*domain.Listing, pos int) *BrowseItem {
	it := &BrowseItem{Listing: active[pos], Position: pos + 1, Total: len(active)}
	if uc.reviews != nil {
		if r, err := uc.reviews.SellerRating(ctx, it.Listing.SellerID); err == nil {
			it.SellerRating = r
		}
	}
	return it
}
