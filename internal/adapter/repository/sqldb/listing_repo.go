package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gget5897-gif/brainrot-bot/internal/domain"
	"github.com/gget5897-gif/brainrot-bot/internal/platform/logger"
	"go.uber.org/zap"
)

const listingColumns = `id, seller_id, title, description, price, contact, created_at, expires_at, last_extended_at, last_checked_at, expiry_notified`

// ListingRepository implements domain.ListingRepository on the products table.
type ListingRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewListingRepository creates a listing repository.
func NewListingRepository(db *DB, log *logger.Logger) *ListingRepository {
	return &ListingRepository{db: db, logger: log.Named("ListingRepository")}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanListing(row rowScanner) (*domain.Listing, error) {
	var (
		l                    domain.Listing
		createdAt, expiresAt int64
		lastChecked          int64
		lastExtended         sql.NullInt64
	)
	if err := row.Scan(&l.ID, &l.SellerID, &l.Title, &l.Description, &l.Price, &l.Contact,
		&createdAt, &expiresAt, &lastExtended, &lastChecked, &l.ExpiryNotified); err != nil {
		return nil, err
	}
	l.CreatedAt = fromUnix(createdAt)
	l.ExpiresAt = fromUnix(expiresAt)
	l.LastExtendedAt = fromNullUnix(lastExtended)
	l.LastCheckedAt = fromUnix(lastChecked)
	return &l, nil
}

func (r *ListingRepository) query(ctx context.Context, query string, args ...any) ([]*domain.Listing, error) {
	rows, err := r.db.QueryContext(ctx, r.db.q(query), args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRepository, err)
	}
	defer rows.Close()

	var out []*domain.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan listing: %v", domain.ErrRepository, err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRepository, err)
	}
	return out, nil
}

func (r *ListingRepository) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, r.db.q(query), args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrRepository, err)
	}
	return n, nil
}

// Create inserts the listing and sets its ID.
func (r *ListingRepository) Create(ctx context.Context, l *domain.Listing) error {
	if err := domain.ValidateTitle(l.Title); err != nil {
		return err
	}
	err := r.db.QueryRowContext(ctx, r.db.q(`INSERT INTO products
		(seller_id, title, description, price, contact, created_at, expires_at, last_extended_at, last_checked_at, expiry_notified)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`),
		l.SellerID, l.Title, l.Description, l.Price, l.Contact,
		unix(l.CreatedAt), unix(l.ExpiresAt), nullUnix(l.LastExtendedAt), unix(l.LastCheckedAt), l.ExpiryNotified,
	).Scan(&l.ID)
	if err != nil {
		r.logger.Error("Failed to insert listing", zap.Int64("seller_id", l.SellerID), zap.Error(err))
		return fmt.Errorf("%w: insert listing: %v", domain.ErrRepository, err)
	}
	r.logger.Debug("Listing inserted", zap.Int64("listing_id", l.ID))
	return nil
}

// GetByID returns domain.ErrNotFound if there is no such listing.
func (r *ListingRepository) GetByID(ctx context.Context, id int64) (*domain.Listing, error) {
	row := r.db.QueryRowContext(ctx, r.db.q(`SELECT `+listingColumns+` FROM products WHERE id = ?`), id)
	l, err := scanListing(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get listing: %v", domain.ErrRepository, err)
	}
	return l, nil
}

// UpdateField sets one editable column.
func (r *ListingRepository) UpdateField(ctx context.Context, id int64, field domain.ListingField, value string) error {
	if !field.IsValid() {
		return fmt.Errorf("%w: unknown field %q", domain.ErrValidation, field)
	}
	if field == domain.FieldTitle {
		if err := domain.ValidateTitle(value); err != nil {
			return err
		}
	}
	// field is whitelisted above, so interpolating the column name is safe
	res, err := r.db.ExecContext(ctx, r.db.q(`UPDATE products SET `+string(field)+` = ? WHERE id = ?`), value, id)
	if err != nil {
		return fmt.Errorf("%w: update listing: %v", domain.ErrRepository, err)
	}
	return requireAffected(res)
}

// Delete removes the listing and reports whether it existed.
func (r *ListingRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, r.db.q(`DELETE FROM products WHERE id = ?`), id)
	if err != nil {
		return false, fmt.Errorf("%w: delete listing: %v", domain.ErrRepository, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrRepository, err)
	}
	return n > 0, nil
}

func (r *ListingRepository) ListActive(ctx context.Context, now time.Time) ([]*domain.Listing, error) {
	return r.query(ctx, `SELECT `+listingColumns+` FROM products WHERE expires_at > ? ORDER BY id ASC`, unix(now))
}

func (r *ListingRepository) CountActive(ctx context.Context, now time.Time) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM products WHERE expires_at > ?`, unix(now))
}

func (r *ListingRepository) ListBySeller(ctx context.Context, sellerID int64) ([]*domain.Listing, error) {
	return r.query(ctx, `SELECT `+listingColumns+` FROM products WHERE seller_id = ? ORDER BY id DESC`, sellerID)
}

// CountCreatedSince counts listings created strictly after since, expired
// ones included.
func (r *ListingRepository) CountCreatedSince(ctx context.Context, sellerID int64, since time.Time) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM products WHERE seller_id = ? AND created_at > ?`, sellerID, unix(since))
}

// Renew moves the expiry forward and clears the expiry-warning flag.
func (r *ListingRepository) Renew(ctx context.Context, id int64, expiresAt, renewedAt time.Time) error {
	res, err := r.db.ExecContext(ctx, r.db.q(`UPDATE products
		SET expires_at = ?, last_extended_at = ?, expiry_notified = ? WHERE id = ?`),
		unix(expiresAt), unix(renewedAt), false, id)
	if err != nil {
		return fmt.Errorf("%w: renew listing: %v", domain.ErrRepository, err)
	}
	return requireAffected(res)
}

func (r *ListingRepository) ListExpiring(ctx context.Context, from, to time.Time) ([]*domain.Listing, error) {
	return r.query(ctx, `SELECT `+listingColumns+` FROM products
		WHERE expires_at >= ? AND expires_at < ? AND expiry_notified = ? ORDER BY expires_at ASC`,
		unix(from), unix(to), false)
}

func (r *ListingRepository) MarkExpiryNotified(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, r.db.q(`UPDATE products SET expiry_notified = ? WHERE id = ?`), true, id)
	if err != nil {
		return fmt.Errorf("%w: mark notified: %v", domain.ErrRepository, err)
	}
	return nil
}

func (r *ListingRepository) ListUnchecked(ctx context.Context, now, checkedBefore time.Time) ([]*domain.Listing, error) {
	return r.query(ctx, `SELECT `+listingColumns+` FROM products
		WHERE expires_at > ? AND last_checked_at < ? ORDER BY id ASC`,
		unix(now), unix(checkedBefore))
}

func (r *ListingRepository) TouchChecked(ctx context.Context, id int64, at time.Time) error {
	_, err := r.db.ExecContext(ctx, r.db.q(`UPDATE products SET last_checked_at = ? WHERE id = ?`), unix(at), id)
	if err != nil {
		return fmt.Errorf("%w: touch checked: %v", domain.ErrRepository, err)
	}
	return nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRepository, err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
