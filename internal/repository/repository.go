// Package repository provides factory for repositories.
package repository

import (
	"context"
	"fmt"

	"github.com/gabrieldeltasollutions/aws-office/config"
	"github.com/gabrieldeltasollutions/aws-office/internal/repository/memory"
	"github.com/gabrieldeltasollutions/aws-office/internal/repository/postgres"
	"github.com/gabrieldeltasollutions/aws-office/internal/repository/redis"

	"go.uber.org/zap"
)

// Repository aggregates all persistence interfaces.
type Repository interface {
	LifecycleInterface
	LicenseInterface
}

var (
	_ Repository = (*memory.Memory)(nil)
	_ Repository = (*postgres.Postgres)(nil)
	_ Repository = (*redis.Redis)(nil)
)

// New constructs repository backend by name.
func New(ctx context.Context, name string, log *zap.SugaredLogger, cfg *config.Config) (Repository, error) {
	switch name {
	case config.BackendMemory:
		return memory.New(log), nil
	case config.BackendPostgres:
		return postgres.New(ctx, log, cfg), nil
	case config.BackendRedis:
		return redis.New(log, cfg.Redis), nil
	default:
		return nil, fmt.Errorf("unknown repo backend: %s", name)
	}
}
