package usecase

import (
	"context"
	"fmt"

	"github.com/gget5897-gif/brainrot-bot/internal/domain"
	"github.com/gget5897-gif/brainrot-bot/internal/platform/logger"
	"go.uber.org/zap"
)

// UserUsecase registers users implicitly and refreshes their profile.
type UserUsecase struct {
	users  domain.UserRepository
	admins AdminSet
	now    Clock
	logger *logger.Logger
}

func NewUserUsecase(d Deps) *UserUsecase {
	return &UserUsecase{users: d.Users, admins: d.Admins, now: d.clock(), logger: d.Logger.Named("UserUsecase")}
}

// Touch makes sure the sender of an inbound event exists.
func (uc *UserUsecase) Touch(ctx context.Context, p domain.Profile) (*domain.User, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrValidation)
	}
	return uc.users.Ensure(ctx, p, uc.now())
}

// StartSession refreshes the self-reported profile; called on /start.
func (uc *UserUsecase) StartSession(ctx context.Context, p domain.Profile) (*domain.User, error) {
	u, err := uc.users.RefreshProfile(ctx, p, uc.now())
	if err != nil {
		uc.logger.Error("Failed to refresh profile", zap.Int64("user_id", p.ID), zap.Error(err))
		return nil, err
	}
	return u, nil
}

func (uc *UserUsecase) Get(ctx context.Context, id int64) (*domain.User, error) {
	return uc.users.GetByID(ctx, id)
}

func (uc *UserUsecase) IsAdmin(id int64) bool { return uc.admins.IsAdmin(id) }
