// Package redis implements the repository on Redis with optimistic transactions.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gabrieldeltasollutions/aws-office/config"
	"github.com/gabrieldeltasollutions/aws-office/internal/entities"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrConflict is returned when the context ends while an update is still losing
// the compare-and-swap race.
var ErrConflict = errors.New("license update conflict")

// Redis stores each license as a JSON document. The sorted set <prefix>licenses
// orders ids by insertion sequence.
type Redis struct {
	log    *zap.SugaredLogger
	cfg    config.RedisConfig
	client *goredis.Client
}

// New creates a Redis repository instance. The connection is opened by OnStart.
func New(log *zap.SugaredLogger, cfg config.RedisConfig) *Redis {
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 2 * time.Second
	}
	return &Redis{
		log: log.Named("repo.redis"),
		cfg: cfg,
	}
}

// OnStart connects and pings the server.
func (r *Redis) OnStart(ctx context.Context) error {
	client := goredis.NewClient(&goredis.Options{
		Addr:        r.cfg.Addr,
		Password:    r.cfg.Password,
		DB:          r.cfg.DB,
		DialTimeout: r.cfg.DialTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, r.cfg.DialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("ping redis: %w", err)
	}

	r.client = client
	r.log.Infow("redis ready", "addr", r.cfg.Addr, "db", r.cfg.DB)
	return nil
}

// OnStop closes the client.
func (r *Redis) OnStop(_ context.Context) error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

func (r *Redis) licenseKey(id string) string { return r.cfg.KeyPrefix + "license:" + id }
func (r *Redis) indexKey() string            { return r.cfg.KeyPrefix + "licenses" }
func (r *Redis) seqKey() string              { return r.cfg.KeyPrefix + "seq" }

// ListLicenses returns all licenses in insertion order.
func (r *Redis) ListLicenses(ctx context.Context) ([]entities.License, error) {
	ids, err := r.client.ZRange(ctx, r.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list license ids: %w", err)
	}
	res := make([]entities.License, 0, len(ids))
	if len(ids) == 0 {
		return res, nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, r.licenseKey(id))
	}
	raws, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("list licenses: %w", err)
	}
	for i, raw := range raws {
		s, ok := raw.(string)
		if !ok {
			// deleted between ZRANGE and MGET
			continue
		}
		l, err := decode([]byte(s))
		if err != nil {
			r.log.Errorw("failed to decode license", "error", err, "license_id", ids[i])
			return nil, err
		}
		res = append(res, *l)
	}
	return res, nil
}

// GetLicense fetches one license.
func (r *Redis) GetLicense(ctx context.Context, id string) (*entities.License, error) {
	raw, err := r.client.Get(ctx, r.licenseKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, entities.ErrLicenseNotFound
		}
		return nil, fmt.Errorf("get license: %w", err)
	}
	return decode(raw)
}

// InsertLicense stores license under a fresh id.
func (r *Redis) InsertLicense(ctx context.Context, license entities.License) (*entities.License, error) {
	stored := license.Clone()
	stored.ID = uuid.NewString()
	for i := range stored.Users {
		if stored.Users[i].ID == "" {
			stored.Users[i].ID = uuid.NewString()
		}
	}

	data, err := json.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("encode license: %w", err)
	}
	seq, err := r.client.Incr(ctx, r.seqKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("next sequence: %w", err)
	}

	if _, err := r.client.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.Set(ctx, r.licenseKey(stored.ID), data, 0)
		p.ZAdd(ctx, r.indexKey(), goredis.Z{Score: float64(seq), Member: stored.ID})
		return nil
	}); err != nil {
		r.log.Errorw("failed to insert license", "error", err, "license_id", stored.ID)
		return nil, fmt.Errorf("insert license: %w", err)
	}

	r.log.Infow("license inserted", "license_id", stored.ID)
	return &stored, nil
}

// ReplaceLicense overwrites the stored record, keeping its id.
func (r *Redis) ReplaceLicense(ctx context.Context, id string, license entities.License) (*entities.License, error) {
	return r.UpdateLicense(ctx, id, func(l *entities.License) error {
		*l = license.Clone()
		return nil
	})
}

// DeleteLicense removes the license document and its index entry.
func (r *Redis) DeleteLicense(ctx context.Context, id string) error {
	var del *goredis.IntCmd
	if _, err := r.client.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		del = p.Del(ctx, r.licenseKey(id))
		p.ZRem(ctx, r.indexKey(), id)
		return nil
	}); err != nil {
		return fmt.Errorf("delete license: %w", err)
	}
	if del.Val() == 0 {
		return entities.ErrLicenseNotFound
	}

	r.log.Infow("license deleted", "license_id", id)
	return nil
}

// UpdateLicense runs fn inside WATCH/MULTI and retries only when another writer
// touched the same license between read and commit. Every lost round means some
// other update committed, so the loop ends; ctx bounds how long a caller waits.
func (r *Redis) UpdateLicense(ctx context.Context, id string, fn func(l *entities.License) error) (*entities.License, error) {
	key := r.licenseKey(id)
	var res *entities.License

	txf := func(tx *goredis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, goredis.Nil) {
				return entities.ErrLicenseNotFound
			}
			return fmt.Errorf("get license: %w", err)
		}
		current, err := decode(raw)
		if err != nil {
			return err
		}
		if err := fn(current); err != nil {
			return err
		}
		current.ID = id

		data, err := json.Marshal(current)
		if err != nil {
			return fmt.Errorf("encode license: %w", err)
		}
		if _, err := tx.TxPipelined(ctx, func(p goredis.Pipeliner) error {
			p.Set(ctx, key, data, 0)
			return nil
		}); err != nil {
			return err
		}
		res = current
		return nil
	}

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			if attempt == 1 {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %s: %w", ErrConflict, id, err)
		}
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			return res, nil
		}
		if !errors.Is(err, goredis.TxFailedErr) {
			return nil, err
		}
		r.log.Debugw("license update lost race", "license_id", id, "attempt", attempt)
	}
}

func decode(raw []byte) (*entities.License, error) {
	var l entities.License
	if err := json.Unmarshal(raw, &l); err != nil {
		return nil, fmt.Errorf("decode license: %w", err)
	}
	if l.Users == nil {
		l.Users = []entities.User{}
	}
	return &l, nil
}
