package domain

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Review is a buyer's rating of a seller. It only counts towards the
// seller's aggregate once approved.
type Review struct {
	ID          int64
	SellerID    int64
	BuyerID     int64
	ListingID   *int64
	Rating      int
	Comment     string
	IsModerated bool
	CreatedAt   time.Time
}

// ValidateRating checks the rating bounds.
func ValidateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return fmt.Errorf("%w: rating must be between %d and %d", ErrValidation, MinRating, MaxRating)
	}
	return nil
}

// NewReview creates a pending review.
func NewReview(sellerID, buyerID int64, listingID *int64, rating int, comment string, now time.Time) (*Review, error) {
	if err := ValidateRating(rating); err != nil {
		return nil, err
	}
	if sellerID == 0 || buyerID == 0 {
		return nil, fmt.Errorf("%w: seller and buyer are required", ErrValidation)
	}
	if sellerID == buyerID {
		return nil, fmt.Errorf("%w: cannot review yourself", ErrValidation)
	}
	return &Review{
		SellerID:  sellerID,
		BuyerID:   buyerID,
		ListingID: listingID,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: now,
	}, nil
}

// Rating is a seller's aggregate over approved reviews.
type Rating struct {
	Average float64
	Count   int
}

// NewRating rounds the average to one decimal place.
func NewRating(sum, count int) Rating {
	if count == 0 {
		return Rating{}
	}
	avg := float64(sum) / float64(count)
	return Rating{Average: math.Round(avg*10) / 10, Count: count}
}

// String renders "none" when there are no approved reviews.
func (r Rating) String() string {
	if r.Count == 0 {
		return "none"
	}
	return strconv.FormatFloat(r.Average, 'f', 1, 64) + " (" + strconv.Itoa(r.Count) + " reviews)"
}
