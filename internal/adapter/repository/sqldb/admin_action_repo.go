package sqldb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gget5897-gif/brainrot-bot/internal/domain"
	"github.com/gget5897-gif/brainrot-bot/internal/platform/logger"
)

// AdminActionRepository implements domain.AdminActionRepository. Rows are
// never updated or deleted.
type AdminActionRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewAdminActionRepository creates an audit log repository.
func NewAdminActionRepository(db *DB, log *logger.Logger) *AdminActionRepository {
	return &AdminActionRepository{db: db, logger: log.Named("AdminActionRepository")}
}

func (r *AdminActionRepository) Create(ctx context.Context, a *domain.AdminAction) error {
	err := r.db.QueryRowContext(ctx, r.db.q(`INSERT INTO admin_actions
		(admin_id, action_type, target_id, target_type, reason, details, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`),
		a.AdminID, string(a.ActionType), nullInt(a.TargetID), nullString(string(a.TargetType)),
		nullString(a.Reason), nullString(a.Details), unix(a.CreatedAt),
	).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("%w: insert admin action: %v", domain.ErrRepository, err)
	}
	return nil
}

// ListRecent returns the newest entries first.
func (r *AdminActionRepository) ListRecent(ctx context.Context, limit int) ([]*domain.AdminAction, error) {
	rows, err := r.db.QueryContext(ctx, r.db.q(`SELECT id, admin_id, action_type, target_id, target_type, reason, details, created_at
		FROM admin_actions ORDER BY id DESC LIMIT ?`), limit)
	if err != nil {
		return nil, fmt.Errorf("%w: list admin actions: %v", domain.ErrRepository, err)
	}
	defer rows.Close()

	var out []*domain.AdminAction
	for rows.Next() {
		var (
			a                  domain.AdminAction
			actionType         string
			targetID           sql.NullInt64
			targetType, reason sql.NullString
			details            sql.NullString
			createdAt          int64
		)
		if err := rows.Scan(&a.ID, &a.AdminID, &actionType, &targetID, &targetType, &reason, &details, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: scan admin action: %v", domain.ErrRepository, err)
		}
		a.ActionType = domain.ActionType(actionType)
		a.TargetID = fromNullInt(targetID)
		a.TargetType = domain.TargetType(targetType.String)
		a.Reason = reason.String
		a.Details = details.String
		a.CreatedAt = fromUnix(createdAt)
		out = append(out, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRepository, err)
	}
	return out, nil
}
