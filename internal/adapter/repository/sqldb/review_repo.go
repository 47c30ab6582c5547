package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gget5897-gif/brainrot-bot/internal/domain"
	"github.com/gget5897-gif/brainrot-bot/internal/platform/logger"
	"go.uber.org/zap"
)

// ReviewRepository implements domain.ReviewRepository on the reviews table.
type ReviewRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewReviewRepository creates a review repository.
func NewReviewRepository(db *DB, log *logger.Logger) *ReviewRepository {
	return &ReviewRepository{db: db, logger: log.Named("ReviewRepository")}
}

// Create inserts a review in the pending state and sets its ID.
func (r *ReviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	if err := domain.ValidateRating(rv.Rating); err != nil {
		return err
	}
	err := r.db.QueryRowContext(ctx, r.db.q(`INSERT INTO reviews
		(seller_id, buyer_id, product_id, rating, comment, is_moderated, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`),
		rv.SellerID, rv.BuyerID, nullInt(rv.ListingID), rv.Rating, nullString(rv.Comment), false, unix(rv.CreatedAt),
	).Scan(&rv.ID)
	if err != nil {
		r.logger.Error("Failed to insert review", zap.Int64("seller_id", rv.SellerID), zap.Error(err))
		return fmt.Errorf("%w: insert review: %v", domain.ErrRepository, err)
	}
	rv.IsModerated = false
	return nil
}

func (r *ReviewRepository) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	var (
		rv        domain.Review
		listingID sql.NullInt64
		comment   sql.NullString
		createdAt int64
	)
	err := r.db.QueryRowContext(ctx, r.db.q(`SELECT id, seller_id, buyer_id, product_id, rating, comment, is_moderated, created_at
		FROM reviews WHERE id = ?`), id).
		Scan(&rv.ID, &rv.SellerID, &rv.BuyerID, &listingID, &rv.Rating, &comment, &rv.IsModerated, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get review: %v", domain.ErrRepository, err)
	}
	rv.ListingID = fromNullInt(listingID)
	rv.Comment = comment.String
	rv.CreatedAt = fromUnix(createdAt)
	return &rv, nil
}

// Approve only touches pending rows, so a second approval reports false.
func (r *ReviewRepository) Approve(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, r.db.q(`UPDATE reviews SET is_moderated = ? WHERE id = ? AND is_moderated = ?`), true, id, false)
	if err != nil {
		return false, fmt.Errorf("%w: approve review: %v", domain.ErrRepository, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrRepository, err)
	}
	return n > 0, nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, r.db.q(`DELETE FROM reviews WHERE id = ?`), id)
	if err != nil {
		return false, fmt.Errorf("%w: delete review: %v", domain.ErrRepository, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrRepository, err)
	}
	return n > 0, nil
}

func (r *ReviewRepository) ListPendingIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, r.db.q(`SELECT id FROM reviews WHERE is_moderated = ? ORDER BY created_at ASC, id ASC`), false)
	if err != nil {
		return nil, fmt.Errorf("%w: list pending: %v", domain.ErrRepository, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: scan pending id: %v", domain.ErrRepository, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRepository, err)
	}
	return ids, nil
}

// SellerRating returns the rounded average and count of approved reviews.
func (r *ReviewRepository) SellerRating(ctx context.Context, sellerID int64) (domain.Rating, error) {
	var sum, count int64
	err := r.db.QueryRowContext(ctx, r.db.q(`SELECT COALESCE(SUM(rating), 0), COUNT(*) FROM reviews
		WHERE seller_id = ? AND is_moderated = ?`), sellerID, true).Scan(&sum, &count)
	if err != nil {
		return domain.Rating{}, fmt.Errorf("%w: seller rating: %v", domain.ErrRepository, err)
	}
	return domain.NewRating(int(sum), int(count)), nil
}
