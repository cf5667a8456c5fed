package usecase

import (
	"context"
	"time"

	"github.com/gabrieldeltasollutions/aws-office/internal/repository"
	"github.com/gabrieldeltasollutions/aws-office/internal/usecase/domain"

	"go.uber.org/zap"
)

// InterfaceUsecase aggregates all usecase interfaces.
type InterfaceUsecase interface {
	LicenseUsecaseInterface
	UserUsecaseInterface
	StatsUsecaseInterface
}

// New constructs a new usecase layer with its dependencies.
func New(
	log *zap.SugaredLogger,
	ctx context.Context,
	repo repository.Repository,
	timeout time.Duration,
	sealer domain.Sealer,
	policy domain.Policy,
) InterfaceUsecase {
	return domain.New(log, ctx, repo, timeout, sealer, policy)
}
