package domain

import (
	"context"
	"time"

	"github.com/gabrieldeltasollutions/aws-office/internal/entities"
	"github.com/gabrieldeltasollutions/aws-office/internal/repository"

	"go.uber.org/zap"
)

// Sealer protects credential fields before they reach the repository.
type Sealer interface {
	Seal(plain string) (string, error)
	Open(sealed string) (string, error)
}

// Policy holds the configurable business rules.
type Policy struct {
	Email         entities.EmailPolicy
	MaxUsersLimit int
}

// Usecase struct implements all usecase interfaces.
type Usecase struct {
	ctx     context.Context
	log     *zap.SugaredLogger
	repo    repository.Repository
	timeout time.Duration
	sealer  Sealer
	policy  Policy
}

// New constructs a new usecase layer with its dependencies.
func New(
	log *zap.SugaredLogger,
	ctx context.Context,
	repo repository.Repository,
	timeout time.Duration,
	sealer Sealer,
	policy Policy,
) *Usecase {
	return &Usecase{
		ctx:     ctx,
		log:     log.Named("usecase"),
		repo:    repo,
		timeout: timeout,
		sealer:  sealer,
		policy:  policy,
	}
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
