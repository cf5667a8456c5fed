package domain

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gabrieldeltasollutions/aws-office/internal/entities"
	"github.com/gabrieldeltasollutions/aws-office/internal/repository"
	"github.com/gabrieldeltasollutions/aws-office/internal/repository/memory"
	"github.com/gabrieldeltasollutions/aws-office/internal/secret"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type repoMock struct{ mock.Mock }

var _ repository.Repository = (*repoMock)(nil)

func (m *repoMock) OnStart(_ context.Context) error { return nil }
func (m *repoMock) OnStop(_ context.Context) error  { return nil }

func (m *repoMock) ListLicenses(ctx context.Context) ([]entities.License, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.License), args.Error(1)
}

func (m *repoMock) GetLicense(ctx context.Context, id string) (*entities.License, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.License), args.Error(1)
}

func (m *repoMock) InsertLicense(ctx context.Context, license entities.License) (*entities.License, error) {
	args := m.Called(ctx, license)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.License), args.Error(1)
}

func (m *repoMock) ReplaceLicense(ctx context.Context, id string, license entities.License) (*entities.License, error) {
	args := m.Called(ctx, id, license)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.License), args.Error(1)
}

func (m *repoMock) DeleteLicense(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *repoMock) UpdateLicense(ctx context.Context, id string, fn repository.UpdateFunc) (*entities.License, error) {
	args := m.Called(ctx, id, fn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.License), args.Error(1)
}

const testSecret = "0123456789abcdef-test-secret"

func testPolicy() Policy {
	return Policy{
		Email:         entities.EmailPolicy{Mode: entities.EmailModeFull},
		MaxUsersLimit: 50,
	}
}

func newSealer(t *testing.T) *secret.Sealer {
	t.Helper()
	s, err := secret.NewSealer(testSecret)
	require.NoError(t, err)
	return s
}

func newMockUsecase(t *testing.T, repo repository.Repository) *Usecase {
	t.Helper()
	return New(zap.NewNop().Sugar(), context.Background(), repo, time.Second, newSealer(t), testPolicy())
}

func newMemoryUsecase(t *testing.T, policy Policy) (*Usecase, *memory.Memory) {
	t.Helper()
	repo := memory.New(zap.NewNop().Sugar())
	return New(zap.NewNop().Sugar(), context.Background(), repo, time.Second, newSealer(t), policy), repo
}

func validDraft(name string, maxUsers int) entities.LicenseDraft {
	return entities.LicenseDraft{
		Name:               name,
		Email:              "admin@example.com",
		ActivationEmail:    "activate@example.com",
		ActivationPassword: "activate-me",
		DefaultPassword:    "welcome",
		MaxUsers:           maxUsers,
	}
}

func userDraft(name string) entities.UserDraft {
	return entities.UserDraft{
		Name:            name,
		Email:           name + "@example.com",
		Password:        "pw-" + name,
		DefaultPassword: "welcome",
	}
}

func TestUsecase_CreateLicenseValidation(t *testing.T) {
	repo := &repoMock{}
	uc := newMockUsecase(t, repo)

	cases := map[string]entities.LicenseDraft{
		"empty":             {},
		"blank name":        func() entities.LicenseDraft { d := validDraft("  ", 1); return d }(),
		"zero capacity":     validDraft("Office", 0),
		"negative capacity": validDraft("Office", -3),
		"above limit":       validDraft("Office", 51),
		"missing password":  func() entities.LicenseDraft { d := validDraft("Office", 1); d.ActivationPassword = ""; return d }(),
	}
	for name, draft := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.CreateLicense(context.Background(), draft)
			require.ErrorIs(t, err, entities.ErrInvalidInput)
		})
	}
	repo.AssertNotCalled(t, "InsertLicense", mock.Anything, mock.Anything)
}

func TestUsecase_CreateLicenseSealsCredentials(t *testing.T) {
	repo := &repoMock{}
	uc := newMockUsecase(t, repo)

	var stored entities.License
	repo.On("InsertLicense", mock.Anything, mock.MatchedBy(func(l entities.License) bool {
		return secret.IsSealed(l.ActivationPassword) && secret.IsSealed(l.DefaultPassword) && len(l.Users) == 0
	})).Run(func(args mock.Arguments) {
		stored = args.Get(1).(entities.License)
		stored.ID = "lic-1"
	}).Return(&stored, nil)

	got, err := uc.CreateLicense(context.Background(), validDraft(" Office 365 ", 5))
	require.NoError(t, err)
	require.Equal(t, "lic-1", got.ID)
	require.Equal(t, "Office 365", got.Name)
	require.Equal(t, "activate-me", got.ActivationPassword)
	require.Equal(t, "welcome", got.DefaultPassword)
	require.NotNil(t, got.Users)
	require.Empty(t, got.Users)
	repo.AssertExpectations(t)
}

func TestUsecase_RepositoryErrorsPropagate(t *testing.T) {
	repo := &repoMock{}
	uc := newMockUsecase(t, repo)
	boom := errors.New("storage down")

	repo.On("ListLicenses", mock.Anything).Return(nil, boom)
	repo.On("GetLicense", mock.Anything, "missing").Return(nil, entities.ErrLicenseNotFound)
	repo.On("DeleteLicense", mock.Anything, "missing").Return(entities.ErrLicenseNotFound)
	repo.On("UpdateLicense", mock.Anything, "missing", mock.Anything).Return(nil, entities.ErrLicenseNotFound)

	_, err := uc.ListLicenses(context.Background())
	require.ErrorIs(t, err, boom)
	_, err = uc.Stats(context.Background())
	require.ErrorIs(t, err, boom)
	_, err = uc.GetLicense(context.Background(), "missing")
	require.ErrorIs(t, err, entities.ErrNotFound)
	_, err = uc.LicenseUsage(context.Background(), "missing")
	require.ErrorIs(t, err, entities.ErrLicenseNotFound)
	require.ErrorIs(t, uc.DeleteLicense(context.Background(), "missing"), entities.ErrLicenseNotFound)
	_, err = uc.AddUser(context.Background(), "missing", userDraft("ana"))
	require.ErrorIs(t, err, entities.ErrLicenseNotFound)
	_, err = uc.RemoveUser(context.Background(), "missing", "u1")
	require.ErrorIs(t, err, entities.ErrLicenseNotFound)
	repo.AssertExpectations(t)
}

func TestUsecase_EmptyIDsRejected(t *testing.T) {
	repo := &repoMock{}
	uc := newMockUsecase(t, repo)
	ctx := context.Background()

	_, err := uc.GetLicense(ctx, "")
	require.ErrorIs(t, err, entities.ErrInvalidInput)
	_, err = uc.EditLicense(ctx, "", validDraft("x", 1))
	require.ErrorIs(t, err, entities.ErrInvalidInput)
	require.ErrorIs(t, uc.DeleteLicense(ctx, ""), entities.ErrInvalidInput)
	_, err = uc.AddUser(ctx, "", userDraft("ana"))
	require.ErrorIs(t, err, entities.ErrInvalidInput)
	_, err = uc.EditUser(ctx, "lic", "", userDraft("ana"))
	require.ErrorIs(t, err, entities.ErrInvalidInput)
	_, err = uc.RemoveUser(ctx, "", "u1")
	require.ErrorIs(t, err, entities.ErrInvalidInput)
	repo.AssertNotCalled(t, "UpdateLicense", mock.Anything, mock.Anything, mock.Anything)
}

func TestUsecase_AddUserValidation(t *testing.T) {
	repo := &repoMock{}
	uc := newMockUsecase(t, repo)

	for name, draft := range map[string]entities.UserDraft{
		"no name":   {Email: "a@example.com"},
		"no email":  {Name: "Ana"},
		"bad email": {Name: "Ana", Email: "ana"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := uc.AddUser(context.Background(), "lic", draft)
			require.ErrorIs(t, err, entities.ErrInvalidInput)
		})
	}
	repo.AssertNotCalled(t, "UpdateLicense", mock.Anything, mock.Anything, mock.Anything)
}

func TestUsecase_AddUserPrefixEmail(t *testing.T) {
	uc, _ := newMemoryUsecase(t, Policy{
		Email:         entities.EmailPolicy{Mode: entities.EmailModePrefix, Domain: "corp.example"},
		MaxUsersLimit: 50,
	})
	ctx := context.Background()

	lic, err := uc.CreateLicense(ctx, validDraft("Office", 2))
	require.NoError(t, err)

	got, err := uc.AddUser(ctx, lic.ID, entities.UserDraft{Name: "Ana", Email: "ana"})
	require.NoError(t, err)
	require.Equal(t, "ana@corp.example", got.Users[0].Email)

	_, err = uc.AddUser(ctx, lic.ID, entities.UserDraft{Name: "Bob", Email: "bob@corp.example"})
	require.ErrorIs(t, err, entities.ErrInvalidInput)
}

func TestUsecase_CapacityIsEnforced(t *testing.T) {
	uc, _ := newMemoryUsecase(t, testPolicy())
	ctx := context.Background()

	lic, err := uc.CreateLicense(ctx, validDraft("Office", 2))
	require.NoError(t, err)

	_, err = uc.AddUser(ctx, lic.ID, userDraft("ana"))
	require.NoError(t, err)
	got, err := uc.AddUser(ctx, lic.ID, userDraft("bob"))
	require.NoError(t, err)
	require.Len(t, got.Users, 2)
	require.NotEqual(t, got.Users[0].ID, got.Users[1].ID)

	_, err = uc.AddUser(ctx, lic.ID, userDraft("eve"))
	require.ErrorIs(t, err, entities.ErrCapacityExceeded)

	after, err := uc.GetLicense(ctx, lic.ID)
	require.NoError(t, err)
	require.Len(t, after.Users, 2)
	require.Equal(t, "ana", after.Users[0].Name)
	require.Equal(t, "bob", after.Users[1].Name)
}

func TestUsecase_EditLicense(t *testing.T) {
	uc, _ := newMemoryUsecase(t, testPolicy())
	ctx := context.Background()

	lic, err := uc.CreateLicense(ctx, validDraft("Office", 3))
	require.NoError(t, err)
	for _, n := range []string{"ana", "bob"} {
		_, err = uc.AddUser(ctx, lic.ID, userDraft(n))
		require.NoError(t, err)
	}

	_, err = uc.EditLicense(ctx, lic.ID, validDraft("Office", 1))
	require.ErrorIs(t, err, entities.ErrCapacityViolation)

	draft := validDraft("Office Pro", 2)
	draft.ActivationPassword = "rotated"
	got, err := uc.EditLicense(ctx, lic.ID, draft)
	require.NoError(t, err)
	require.Equal(t, lic.ID, got.ID)
	require.Equal(t, "Office Pro", got.Name)
	require.Equal(t, "rotated", got.ActivationPassword)
	require.Equal(t, 2, got.MaxUsers)
	require.Len(t, got.Users, 2)
	require.Equal(t, "pw-ana", got.Users[0].Password)

	_, err = uc.EditLicense(ctx, "missing", draft)
	require.ErrorIs(t, err, entities.ErrLicenseNotFound)
}

func TestUsecase_EditAndRemoveUser(t *testing.T) {
	uc, _ := newMemoryUsecase(t, testPolicy())
	ctx := context.Background()

	lic, err := uc.CreateLicense(ctx, validDraft("Office", 3))
	require.NoError(t, err)
	for _, n := range []string{"ana", "bob", "cid"} {
		lic, err = uc.AddUser(ctx, lic.ID, userDraft(n))
		require.NoError(t, err)
	}
	bobID := lic.Users[1].ID

	edited, err := uc.EditUser(ctx, lic.ID, bobID, userDraft("robert"))
	require.NoError(t, err)
	require.Equal(t, bobID, edited.Users[1].ID)
	require.Equal(t, "robert", edited.Users[1].Name)
	require.Equal(t, "robert@example.com", edited.Users[1].Email)

	_, err = uc.EditUser(ctx, lic.ID, "ghost", userDraft("x"))
	require.ErrorIs(t, err, entities.ErrUserNotFound)

	removed, err := uc.RemoveUser(ctx, lic.ID, bobID)
	require.NoError(t, err)
	require.Len(t, removed.Users, 2)
	require.Equal(t, "ana", removed.Users[0].Name)
	require.Equal(t, "cid", removed.Users[1].Name)

	_, err = uc.RemoveUser(ctx, lic.ID, bobID)
	require.ErrorIs(t, err, entities.ErrUserNotFound)
	require.ErrorIs(t, err, entities.ErrNotFound)
}

func TestUsecase_CredentialsSealedAtRest(t *testing.T) {
	uc, repo := newMemoryUsecase(t, testPolicy())
	ctx := context.Background()

	lic, err := uc.CreateLicense(ctx, validDraft("Office", 2))
	require.NoError(t, err)
	_, err = uc.AddUser(ctx, lic.ID, userDraft("ana"))
	require.NoError(t, err)

	raw, err := repo.GetLicense(ctx, lic.ID)
	require.NoError(t, err)
	require.True(t, secret.IsSealed(raw.ActivationPassword))
	require.True(t, secret.IsSealed(raw.DefaultPassword))
	require.True(t, secret.IsSealed(raw.Users[0].Password))
	require.NotContains(t, raw.Users[0].Password, "pw-ana")
	require.Equal(t, "ana@example.com", raw.Users[0].Email)

	plain, err := uc.GetLicense(ctx, lic.ID)
	require.NoError(t, err)
	require.Equal(t, "pw-ana", plain.Users[0].Password)
	require.Equal(t, "activate-me", plain.ActivationPassword)
}

func TestUsecase_StatsAndUsage(t *testing.T) {
	uc, _ := newMemoryUsecase(t, testPolicy())
	ctx := context.Background()

	stats, err := uc.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, entities.Stats{}, stats)

	a, err := uc.CreateLicense(ctx, validDraft("A", 4))
	require.NoError(t, err)
	b, err := uc.CreateLicense(ctx, validDraft("B", 4))
	require.NoError(t, err)
	for _, n := range []string{"ana", "bob", "cid"} {
		_, err = uc.AddUser(ctx, a.ID, userDraft(n))
		require.NoError(t, err)
	}
	b, err = uc.AddUser(ctx, b.ID, userDraft("dan"))
	require.NoError(t, err)

	stats, err = uc.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, entities.Stats{TotalLicenses: 2, TotalUsers: 4, AvailableSlots: 4, UsagePercentage: 50}, stats)

	usage, err := uc.LicenseUsage(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, entities.LicenseUsage{
		LicenseID: a.ID, UsedSlots: 3, MaxUsers: 4, AvailableSlots: 1, UsagePercentage: 75,
	}, usage)

	_, err = uc.RemoveUser(ctx, b.ID, b.Users[0].ID)
	require.NoError(t, err)
	stats, err = uc.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, stats.TotalUsers)
	require.Equal(t, 5, stats.AvailableSlots)

	require.NoError(t, uc.DeleteLicense(ctx, a.ID))
	stats, err = uc.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, entities.Stats{TotalLicenses: 1, TotalUsers: 0, AvailableSlots: 4, UsagePercentage: 0}, stats)

	require.ErrorIs(t, uc.DeleteLicense(ctx, a.ID), entities.ErrLicenseNotFound)
}

func TestUsecase_ListKeepsCreationOrder(t *testing.T) {
	uc, _ := newMemoryUsecase(t, testPolicy())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := uc.CreateLicense(ctx, validDraft(fmt.Sprintf("L%d", i), 1))
		require.NoError(t, err)
	}
	list, err := uc.ListLicenses(ctx)
	require.NoError(t, err)
	require.Len(t, list, 5)
	for i, l := range list {
		require.Equal(t, fmt.Sprintf("L%d", i), l.Name)
		require.Equal(t, "welcome", l.DefaultPassword)
	}
}

func TestUsecase_ConcurrentAddUserNeverOverfills(t *testing.T) {
	uc, _ := newMemoryUsecase(t, testPolicy())
	ctx := context.Background()

	lic, err := uc.CreateLicense(ctx, validDraft("Office", 5))
	require.NoError(t, err)

	var ok, full atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := uc.AddUser(ctx, lic.ID, userDraft(fmt.Sprintf("user%d", i)))
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, entities.ErrCapacityExceeded):
				full.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	require.EqualValues(t, 5, ok.Load())
	require.EqualValues(t, 15, full.Load())

	got, err := uc.GetLicense(ctx, lic.ID)
	require.NoError(t, err)
	require.Len(t, got.Users, 5)
}

func TestUsecase_CreateThenGetReturnsSameLicense(t *testing.T) {
	uc, _ := newMemoryUsecase(t, testPolicy())
	ctx := context.Background()

	created, err := uc.CreateLicense(ctx, validDraft("Office", 5))
	require.NoError(t, err)

	got, err := uc.GetLicense(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created, got)
	require.Equal(t, "activate-me", got.ActivationPassword)
	require.Equal(t, "activate@example.com", got.ActivationEmail)
}

func TestUsecase_AddUserFillsLastSeat(t *testing.T) {
	uc, _ := newMemoryUsecase(t, testPolicy())
	ctx := context.Background()

	lic, err := uc.CreateLicense(ctx, validDraft("Office", 5))
	require.NoError(t, err)
	for _, n := range []string{"ana", "bob", "cid", "dan"} {
		lic, err = uc.AddUser(ctx, lic.ID, userDraft(n))
		require.NoError(t, err)
	}
	before := lic.Users

	got, err := uc.AddUser(ctx, lic.ID, userDraft("eve"))
	require.NoError(t, err)
	require.Len(t, got.Users, 5)
	require.Equal(t, before, got.Users[:4])

	last := got.Users[4]
	require.Equal(t, "eve", last.Name)
	require.NotEmpty(t, last.ID)
	for _, u := range before {
		require.NotEqual(t, u.ID, last.ID)
	}

	_, err = uc.AddUser(ctx, lic.ID, userDraft("fay"))
	require.ErrorIs(t, err, entities.ErrCapacityExceeded)

	after, err := uc.GetLicense(ctx, lic.ID)
	require.NoError(t, err)
	require.Equal(t, got.Users, after.Users)
}
