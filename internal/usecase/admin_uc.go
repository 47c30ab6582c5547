package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gget5897-gif/brainrot-bot/internal/domain"
	"github.com/gget5897-gif/brainrot-bot/internal/platform/logger"
	"go.uber.org/zap"
)

// AdminUsecase implements user moderation and the audit/stat views.
type AdminUsecase struct {
	users     domain.UserRepository
	reviews   domain.ReviewRepository
	actions   domain.AdminActionRepository
	sales     *ListingUsecase
	notifier  *Notifier
	publisher EventPublisher
	admins    AdminSet
	now       Clock
	logger    *logger.Logger
}

func NewAdminUsecase(d Deps, notifier *Notifier, sales *ListingUsecase) *AdminUsecase {
	return &AdminUsecase{
		users:     d.Users,
		reviews:   d.Reviews,
		actions:   d.Actions,
		sales:     sales,
		notifier:  notifier,
		publisher: d.Publisher,
		admins:    d.Admins,
		now:       d.clock(),
		logger:    d.Logger.Named("AdminUsecase"),
	}
}

func (uc *AdminUsecase) IsAdmin(id int64) bool { return uc.admins.IsAdmin(id) }

// Ban blocks the target from creating listings and tells them why.
func (uc *AdminUsecase) Ban(ctx context.Context, adminID, targetID int64, reason string) (*domain.User, error) {
	if reason == "" {
		return nil, fmt.Errorf("%w: a ban reason is required", domain.ErrValidation)
	}
	u, err := uc.target(ctx, adminID, targetID)
	if err != nil {
		return nil, err
	}
	if err := uc.users.SetBan(ctx, targetID, true, reason); err != nil {
		return nil, err
	}
	u.IsBanned, u.BanReason = true, reason
	uc.audit(ctx, adminID, domain.ActionBan, targetID, reason, "")
	uc.notifier.Notify(ctx, KindBan, targetID, "🚫 You have been banned from posting listings.\nReason: "+reason, nil)
	publish(ctx, uc.publisher, uc.logger, SubjectUserModerated, UserEvent{
		UserID: targetID, AdminID: adminID, Action: string(domain.ActionBan), Reason: reason, At: uc.now(),
	})
	return u, nil
}

func (uc *AdminUsecase) Unban(ctx context.Context, adminID, targetID int64) (*domain.User, error) {
	u, err := uc.target(ctx, adminID, targetID)
	if err != nil {
		return nil, err
	}
	if err := uc.users.SetBan(ctx, targetID, false, ""); err != nil {
		return nil, err
	}
	u.IsBanned, u.BanReason = false, ""
	uc.audit(ctx, adminID, domain.ActionUnban, targetID, "", "")
	uc.notifier.Notify(ctx, KindUnban, targetID, "✅ Your ban has been lifted. You can post listings again.", nil)
	publish(ctx, uc.publisher, uc.logger, SubjectUserModerated, UserEvent{
		UserID: targetID, AdminID: adminID, Action: string(domain.ActionUnban), At: uc.now(),
	})
	return u, nil
}

// SetWhitelist adds or removes the target's quota exemption.
func (uc *AdminUsecase) SetWhitelist(ctx context.Context, adminID, targetID int64, on bool) (*domain.User, error) {
	u, err := uc.target(ctx, adminID, targetID)
	if err != nil {
		return nil, err
	}
	if err := uc.users.SetWhitelist(ctx, targetID, on); err != nil {
		return nil, err
	}
	u.IsWhitelisted = on
	action := domain.ActionWhitelistAdd
	if !on {
		action = domain.ActionWhitelistDrop
	}
	uc.audit(ctx, adminID, action, targetID, "", "")
	return u, nil
}

// SetLimit overrides the target's daily quota; 0 restores the default.
func (uc *AdminUsecase) SetLimit(ctx context.Context, adminID, targetID int64, limit int) (*domain.User, error) {
	if limit < 0 {
		return nil, fmt.Errorf("%w: limit cannot be negative", domain.ErrValidation)
	}
	u, err := uc.target(ctx, adminID, targetID)
	if err != nil {
		return nil, err
	}
	if err := uc.users.SetDailyLimit(ctx, targetID, limit); err != nil {
		return nil, err
	}
	u.DailyLimit = limit
	uc.audit(ctx, adminID, domain.ActionSetLimit, targetID, "", "limit="+strconv.Itoa(limit))
	return u, nil
}

// DeleteListing is the admin removal path with a mandatory reason.
func (uc *AdminUsecase) DeleteListing(ctx context.Context, adminID, listingID int64, reason string) (*domain.Listing, error) {
	return uc.sales.AdminDelete(ctx, adminID, listingID, reason)
}

// RecentActions returns the newest audit entries.
func (uc *AdminUsecase) RecentActions(ctx context.Context, adminID int64, limit int) ([]*domain.AdminAction, error) {
	if !uc.admins.IsAdmin(adminID) {
		return nil, fmt.Errorf("%w: admin only", domain.ErrForbidden)
	}
	if limit <= 0 {
		limit = 10
	}
	return uc.actions.ListRecent(ctx, limit)
}

// Stats is the admin dashboard.
type Stats struct {
	Users          int
	ActiveListings int
	PendingReviews int
}

func (uc *AdminUsecase) Stats(ctx context.Context, adminID int64) (*Stats, error) {
	if !uc.admins.IsAdmin(adminID) {
		return nil, fmt.Errorf("%w: admin only", domain.ErrForbidden)
	}
	users, err := uc.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	active, err := uc.sales.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := uc.reviews.ListPendingIDs(ctx)
	if err != nil {
		return nil, err
	}
	return &Stats{Users: users, ActiveListings: active, PendingReviews: len(pending)}, nil
}

// Status is the public /status view.
type Status struct {
	ServerTime     time.Time
	ActiveListings int
	Users          int
}

func (uc *AdminUsecase) Status(ctx context.Context) (*Status, error) {
	now := uc.now()
	active, err := uc.sales.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	users, err := uc.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &Status{ServerTime: now, ActiveListings: active, Users: users}, nil
}

// target checks the caller is an admin and loads the target user.
func (uc *AdminUsecase) target(ctx context.Context, adminID, targetID int64) (*domain.User, error) {
	if !uc.admins.IsAdmin(adminID) {
		return nil, fmt.Errorf("%w: admin only", domain.ErrForbidden)
	}
	if targetID == 0 {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrValidation)
	}
	return uc.users.GetByID(ctx, targetID)
}

func (uc *AdminUsecase) audit(ctx context.Context, adminID int64, action domain.ActionType, targetID int64, reason, details string) {
	uc.logger.Info("Admin action", zap.Int64("admin_id", adminID), zap.String("action", string(action)), zap.Int64("target_id", targetID))
	recordAction(ctx, uc.actions, uc.logger, &domain.AdminAction{
		AdminID:    adminID,
		ActionType: action,
		TargetID:   &targetID,
		TargetType: domain.TargetUser,
		Reason:     reason,
		Details:    details,
		CreatedAt:  uc.now(),
	})
}

// recordAction writes an audit entry. The admin operation has already
// taken effect, so a failed write is logged rather than returned.
func recordAction(ctx context.Context, repo domain.AdminActionRepository, log *logger.Logger, a *domain.AdminAction) {
	if repo == nil {
		return
	}
	if err := repo.Create(ctx, a); err != nil {
		log.Error("Failed to record admin action", zap.String("action", string(a.ActionType)), zap.Error(err))
	}
}
