package domain

import (
	"context"

	"github.com/gabrieldeltasollutions/aws-office/internal/entities"
)

// Stats aggregates seat usage across every license.
func (u *Usecase) Stats(ctx context.Context) (entities.Stats, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	list, err := u.repo.ListLicenses(ctx)
	if err != nil {
		return entities.Stats{}, err
	}
	return entities.ComputeStats(list), nil
}
