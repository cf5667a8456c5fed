// Package repotest holds the behaviour every license repository backend must satisfy.
package repotest

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/gabrieldeltasollutions/aws-office/internal/entities"

	"github.com/stretchr/testify/require"
)

// Store is the subset of the repository the contract exercises.
type Store interface {
	ListLicenses(ctx context.Context) ([]entities.License, error)
	GetLicense(ctx context.Context, id string) (*entities.License, error)
	InsertLicense(ctx context.Context, license entities.License) (*entities.License, error)
	ReplaceLicense(ctx context.Context, id string, license entities.License) (*entities.License, error)
	DeleteLicense(ctx context.Context, id string) error
	UpdateLicense(ctx context.Context, id string, fn func(l *entities.License) error) (*entities.License, error)
}

// Sample returns a valid license without id.
func Sample(name string, maxUsers int) entities.License {
	return entities.License{
		Name:               name,
		Email:              name + "@corp.io",
		ActivationEmail:    "activation@corp.io",
		ActivationPassword: "activation-secret",
		DefaultPassword:    "default-secret",
		MaxUsers:           maxUsers,
		Users:              []entities.User{},
	}
}

// Run executes the contract against fresh stores built by newStore.
func Run(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("insert and get round trip", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		in := Sample("e3", 5)
		in.Users = []entities.User{{Name: "Ana", Email: "ana@corp.io"}}
		created, err := s.InsertLicense(ctx, in)
		require.NoError(t, err)
		require.NotEmpty(t, created.ID)
		require.Len(t, created.Users, 1)
		require.NotEmpty(t, created.Users[0].ID)

		got, err := s.GetLicense(ctx, created.ID)
		require.NoError(t, err)
		require.Equal(t, created, got)
	})

	t.Run("list keeps insertion order", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		empty, err := s.ListLicenses(ctx)
		require.NoError(t, err)
		require.Empty(t, empty)

		ids := make([]string, 0, 3)
		for i := 0; i < 3; i++ {
			l, err := s.InsertLicense(ctx, Sample("lic"+strconv.Itoa(i), 2))
			require.NoError(t, err)
			ids = append(ids, l.ID)
		}

		list, err := s.ListLicenses(ctx)
		require.NoError(t, err)
		require.Len(t, list, 3)
		for i, l := range list {
			require.Equal(t, ids[i], l.ID)
		}
	})

	t.Run("missing ids", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		_, err := s.GetLicense(ctx, "missing")
		require.ErrorIs(t, err, entities.ErrLicenseNotFound)
		_, err = s.ReplaceLicense(ctx, "missing", Sample("x", 1))
		require.ErrorIs(t, err, entities.ErrLicenseNotFound)
		require.ErrorIs(t, s.DeleteLicense(ctx, "missing"), entities.ErrLicenseNotFound)
		_, err = s.UpdateLicense(ctx, "missing", func(*entities.License) error { return nil })
		require.ErrorIs(t, err, entities.ErrLicenseNotFound)
	})

	t.Run("replace keeps id", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		created, err := s.InsertLicense(ctx, Sample("old", 2))
		require.NoError(t, err)

		repl := Sample("new", 4)
		repl.ID = "ignored"
		repl.Users = []entities.User{{ID: "u-1", Name: "Bo", Email: "bo@corp.io"}}
		replaced, err := s.ReplaceLicense(ctx, created.ID, repl)
		require.NoError(t, err)
		require.Equal(t, created.ID, replaced.ID)
		require.Equal(t, "new", replaced.Name)
		require.Equal(t, 4, replaced.MaxUsers)

		got, err := s.GetLicense(ctx, created.ID)
		require.NoError(t, err)
		require.Equal(t, replaced, got)
	})

	t.Run("delete cascades and is not idempotent", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		in := Sample("del", 3)
		in.Users = []entities.User{{Name: "Ana", Email: "ana@corp.io"}, {Name: "Bo", Email: "bo@corp.io"}}
		created, err := s.InsertLicense(ctx, in)
		require.NoError(t, err)
		keep, err := s.InsertLicense(ctx, Sample("keep", 1))
		require.NoError(t, err)

		require.NoError(t, s.DeleteLicense(ctx, created.ID))
		require.ErrorIs(t, s.DeleteLicense(ctx, created.ID), entities.ErrLicenseNotFound)

		_, err = s.GetLicense(ctx, created.ID)
		require.ErrorIs(t, err, entities.ErrLicenseNotFound)

		list, err := s.ListLicenses(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, keep.ID, list[0].ID)
	})

	t.Run("update aborts on error", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		created, err := s.InsertLicense(ctx, Sample("abort", 1))
		require.NoError(t, err)

		boom := errors.New("boom")
		_, err = s.UpdateLicense(ctx, created.ID, func(l *entities.License) error {
			l.Name = "changed"
			return boom
		})
		require.ErrorIs(t, err, boom)

		got, err := s.GetLicense(ctx, created.ID)
		require.NoError(t, err)
		require.Equal(t, "abort", got.Name)
	})

	t.Run("update preserves user order", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		created, err := s.InsertLicense(ctx, Sample("order", 5))
		require.NoError(t, err)

		for i := 0; i < 4; i++ {
			id := "u" + strconv.Itoa(i)
			_, err := s.UpdateLicense(ctx, created.ID, func(l *entities.License) error {
				l.Users = append(l.Users, entities.User{ID: id, Name: id, Email: id + "@corp.io"})
				return nil
			})
			require.NoError(t, err)
		}

		updated, err := s.UpdateLicense(ctx, created.ID, func(l *entities.License) error {
			idx, ok := l.FindUser("u1")
			require.True(t, ok)
			l.Users = append(l.Users[:idx], l.Users[idx+1:]...)
			return nil
		})
		require.NoError(t, err)

		got, err := s.GetLicense(ctx, created.ID)
		require.NoError(t, err)
		require.Equal(t, updated, got)

		ids := make([]string, 0, len(got.Users))
		for _, u := range got.Users {
			ids = append(ids, u.ID)
		}
		require.Equal(t, []string{"u0", "u2", "u3"}, ids)
	})

	t.Run("concurrent updates never exceed capacity", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		const capacity = 8
		created, err := s.InsertLicense(ctx, Sample("race", capacity))
		require.NoError(t, err)

		var (
			wg       sync.WaitGroup
			mu       sync.Mutex
			ok, full int
		)
		for i := 0; i < capacity*2; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				id := "c" + strconv.Itoa(i)
				_, err := s.UpdateLicense(ctx, created.ID, func(l *entities.License) error {
					if !entities.HasCapacity(*l) {
						return entities.ErrCapacityExceeded
					}
					l.Users = append(l.Users, entities.User{ID: id, Name: id, Email: id + "@corp.io"})
					return nil
				})
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					ok++
				case errors.Is(err, entities.ErrCapacityExceeded):
					full++
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}(i)
		}
		wg.Wait()

		require.Equal(t, capacity, ok)
		require.Equal(t, capacity, full)

		got, err := s.GetLicense(ctx, created.ID)
		require.NoError(t, err)
		require.Len(t, got.Users, capacity)
	})

	t.Run("every free seat is granted under contention", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		const slots = 48
		created, err := s.InsertLicense(ctx, Sample("crowd", slots))
		require.NoError(t, err)

		var wg sync.WaitGroup
		errs := make([]error, slots)
		for i := 0; i < slots; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				id := "s" + strconv.Itoa(i)
				_, errs[i] = s.UpdateLicense(ctx, created.ID, func(l *entities.License) error {
					if !entities.HasCapacity(*l) {
						return entities.ErrCapacityExceeded
					}
					l.Users = append(l.Users, entities.User{ID: id, Name: id, Email: id + "@corp.io"})
					return nil
				})
			}(i)
		}
		wg.Wait()

		for i, err := range errs {
			require.NoError(t, err, "update %d", i)
		}
		got, err := s.GetLicense(ctx, created.ID)
		require.NoError(t, err)
		require.Len(t, got.Users, slots)
	})
}
