// Package memory implements the repository in process memory.
package memory

import (
	"context"
	"sync"

	"github.com/gabrieldeltasollutions/aws-office/internal/entities"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Memory keeps licenses in insertion order. Updates to one license are serialised by a
// per-license mutex; reads only take the store read lock.
type Memory struct {
	log *zap.SugaredLogger

	mu    sync.RWMutex
	byID  map[string]entities.License
	order []string
	locks map[string]*sync.Mutex
}

// New creates an empty in-memory repository.
func New(log *zap.SugaredLogger) *Memory {
	return &Memory{
		log:   log.Named("repo.memory"),
		byID:  make(map[string]entities.License),
		locks: make(map[string]*sync.Mutex),
	}
}

// OnStart is a no-op.
func (m *Memory) OnStart(_ context.Context) error {
	m.log.Infow("memory repository ready")
	return nil
}

// OnStop is a no-op.
func (m *Memory) OnStop(_ context.Context) error { return nil }

// ListLicenses returns copies of all licenses in insertion order.
func (m *Memory) ListLicenses(ctx context.Context) ([]entities.License, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	res := make([]entities.License, 0, len(m.order))
	for _, id := range m.order {
		res = append(res, m.byID[id].Clone())
	}
	return res, nil
}

// GetLicense returns a copy of the license.
func (m *Memory) GetLicense(ctx context.Context, id string) (*entities.License, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	l, ok := m.byID[id]
	if !ok {
		return nil, entities.ErrLicenseNotFound
	}
	res := l.Clone()
	return &res, nil
}

// InsertLicense stores license under a fresh id.
func (m *Memory) InsertLicense(ctx context.Context, license entities.License) (*entities.License, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stored := license.Clone()
	stored.ID = uuid.NewString()
	for i := range stored.Users {
		if stored.Users[i].ID == "" {
			stored.Users[i].ID = uuid.NewString()
		}
	}

	m.mu.Lock()
	m.byID[stored.ID] = stored
	m.order = append(m.order, stored.ID)
	m.locks[stored.ID] = &sync.Mutex{}
	m.mu.Unlock()

	m.log.Infow("license inserted", "license_id", stored.ID)
	res := stored.Clone()
	return &res, nil
}

// ReplaceLicense overwrites the stored record, keeping its id.
func (m *Memory) ReplaceLicense(ctx context.Context, id string, license entities.License) (*entities.License, error) {
	return m.UpdateLicense(ctx, id, func(l *entities.License) error {
		*l = license.Clone()
		return nil
	})
}

// DeleteLicense removes the license and its users.
func (m *Memory) DeleteLicense(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[id]; !ok {
		return entities.ErrLicenseNotFound
	}
	delete(m.byID, id)
	delete(m.locks, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}

	m.log.Infow("license deleted", "license_id", id)
	return nil
}

// UpdateLicense applies fn to a copy of the license under its lock and stores the result.
func (m *Memory) UpdateLicense(ctx context.Context, id string, fn func(l *entities.License) error) (*entities.License, error) {
	m.mu.RLock()
	lock, ok := m.locks[id]
	m.mu.RUnlock()
	if !ok {
		return nil, entities.ErrLicenseNotFound
	}

	lock.Lock()
	defer lock.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	current, ok := m.byID[id]
	m.mu.RUnlock()
	if !ok {
		return nil, entities.ErrLicenseNotFound
	}

	next := current.Clone()
	if err := fn(&next); err != nil {
		return nil, err
	}
	next.ID = id

	m.mu.Lock()
	if _, ok := m.byID[id]; !ok {
		m.mu.Unlock()
		return nil, entities.ErrLicenseNotFound
	}
	m.byID[id] = next.Clone()
	m.mu.Unlock()

	return &next, nil
}
