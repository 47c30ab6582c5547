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

// UserRepository implements domain.UserRepository on the users table.
type UserRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewUserRepository creates a user repository.
func NewUserRepository(db *DB, log *logger.Logger) *UserRepository {
	return &UserRepository{db: db, logger: log.Named("UserRepository")}
}

// Ensure inserts the user on first interaction and returns the stored row.
func (r *UserRepository) Ensure(ctx context.Context, p domain.Profile, now time.Time) (*domain.User, error) {
	_, err := r.db.ExecContext(ctx, r.db.q(`INSERT INTO users (user_id, username, first_name, last_name, registered_at)
		VALUES (?, ?, ?, ?, ?) ON CONFLICT (user_id) DO NOTHING`),
		p.ID, nullString(p.Username), nullString(p.FirstName), nullString(p.LastName), unix(now))
	if err != nil {
		return nil, fmt.Errorf("%w: ensure user: %v", domain.ErrRepository, err)
	}
	return r.GetByID(ctx, p.ID)
}

// RefreshProfile upserts the self-reported fields; ban, whitelist and
// quota columns are left alone.
func (r *UserRepository) RefreshProfile(ctx context.Context, p domain.Profile, now time.Time) (*domain.User, error) {
	_, err := r.db.ExecContext(ctx, r.db.q(`INSERT INTO users (user_id, username, first_name, last_name, registered_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			username = excluded.username,
			first_name = excluded.first_name,
			last_name = excluded.last_name`),
		p.ID, nullString(p.Username), nullString(p.FirstName), nullString(p.LastName), unix(now))
	if err != nil {
		r.logger.Error("Failed to refresh profile", zap.Int64("user_id", p.ID), zap.Error(err))
		return nil, fmt.Errorf("%w: refresh profile: %v", domain.ErrRepository, err)
	}
	return r.GetByID(ctx, p.ID)
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var (
		u                   domain.User
		username, firstName sql.NullString
		lastName, banReason sql.NullString
		registeredAt        int64
	)
	err := r.db.QueryRowContext(ctx, r.db.q(`SELECT user_id, username, first_name, last_name,
		is_banned, ban_reason, is_whitelisted, daily_limit, registered_at FROM users WHERE user_id = ?`), id).
		Scan(&u.ID, &username, &firstName, &lastName, &u.IsBanned, &banReason, &u.IsWhitelisted, &u.DailyLimit, &registeredAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get user: %v", domain.ErrRepository, err)
	}
	u.Username = username.String
	u.FirstName = firstName.String
	u.LastName = lastName.String
	u.BanReason = banReason.String
	u.RegisteredAt = fromUnix(registeredAt)
	return &u, nil
}

func (r *UserRepository) SetBan(ctx context.Context, id int64, banned bool, reason string) error {
	if !banned {
		reason = ""
	}
	res, err := r.db.ExecContext(ctx, r.db.q(`UPDATE users SET is_banned = ?, ban_reason = ? WHERE user_id = ?`),
		banned, nullString(reason), id)
	if err != nil {
		return fmt.Errorf("%w: set ban: %v", domain.ErrRepository, err)
	}
	return requireAffected(res)
}

func (r *UserRepository) SetWhitelist(ctx context.Context, id int64, whitelisted bool) error {
	res, err := r.db.ExecContext(ctx, r.db.q(`UPDATE users SET is_whitelisted = ? WHERE user_id = ?`), whitelisted, id)
	if err != nil {
		return fmt.Errorf("%w: set whitelist: %v", domain.ErrRepository, err)
	}
	return requireAffected(res)
}

// SetDailyLimit stores a per-user quota; zero restores the global default.
func (r *UserRepository) SetDailyLimit(ctx context.Context, id int64, limit int) error {
	res, err := r.db.ExecContext(ctx, r.db.q(`UPDATE users SET daily_limit = ? WHERE user_id = ?`), limit, id)
	if err != nil {
		return fmt.Errorf("%w: set daily limit: %v", domain.ErrRepository, err)
	}
	return requireAffected(res)
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: count users: %v", domain.ErrRepository, err)
	}
	return n, nil
}
