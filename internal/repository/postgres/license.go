package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/gabrieldeltasollutions/aws-office/internal/entities"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	licenseColumns              = `id, name, email, activation_email, activation_password, default_password, max_users`
	selectLicensesQuery         = `SELECT ` + licenseColumns + ` FROM licenses ORDER BY seq`
	selectLicenseQuery          = `SELECT ` + licenseColumns + ` FROM licenses WHERE id=$1`
	selectLicenseForUpdateQuery = `SELECT ` + licenseColumns + ` FROM licenses WHERE id=$1 FOR UPDATE`
	insertLicenseQuery          = `
INSERT INTO licenses(id, name, email, activation_email, activation_password, default_password, max_users)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	updateLicenseQuery = `
UPDATE licenses
SET name=$2, email=$3, activation_email=$4, activation_password=$5, default_password=$6, max_users=$7
WHERE id=$1`
	deleteLicenseQuery = `DELETE FROM licenses WHERE id=$1`

	userColumns         = `license_id, id, name, email, password, default_password`
	selectAllUsersQuery = `SELECT ` + userColumns + ` FROM license_users ORDER BY license_id, position`
	selectUsersQuery    = `SELECT ` + userColumns + ` FROM license_users WHERE license_id=$1 ORDER BY position`
	deleteUsersQuery    = `DELETE FROM license_users WHERE license_id=$1`
	insertUserQuery     = `
INSERT INTO license_users(license_id, id, position, name, email, password, default_password)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	checkViolationCode = "23514"
)

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// ListLicenses returns all licenses with users in insertion order.
func (p *Postgres) ListLicenses(ctx context.Context) ([]entities.License, error) {
	rows, err := p.db.Query(ctx, selectLicensesQuery)
	if err != nil {
		return nil, fmt.Errorf("list licenses: %w", err)
	}
	defer rows.Close()

	licenses := make([]entities.License, 0)
	index := make(map[string]int)
	for rows.Next() {
		l, err := scanLicense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan license: %w", err)
		}
		index[l.ID] = len(licenses)
		licenses = append(licenses, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate licenses: %w", err)
	}

	userRows, err := p.db.Query(ctx, selectAllUsersQuery)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer userRows.Close()
	for userRows.Next() {
		licenseID, u, err := scanUser(userRows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		// users of a license inserted after the first query are skipped
		if i, ok := index[licenseID]; ok {
			licenses[i].Users = append(licenses[i].Users, u)
		}
	}
	if err := userRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return licenses, nil
}

// GetLicense fetches a license with its users.
func (p *Postgres) GetLicense(ctx context.Context, id string) (*entities.License, error) {
	return p.readLicense(ctx, p.db, selectLicenseQuery, id)
}

// InsertLicense stores license under a fresh id.
func (p *Postgres) InsertLicense(ctx context.Context, license entities.License) (*entities.License, error) {
	stored := license.Clone()
	stored.ID = uuid.NewString()
	for i := range stored.Users {
		if stored.Users[i].ID == "" {
			stored.Users[i].ID = uuid.NewString()
		}
	}

	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, insertLicenseQuery, licenseArgs(stored)...); err != nil {
		p.log.Errorw("failed to insert license", "error", err)
		return nil, mapWriteError("insert license", err)
	}
	if err := p.writeUsers(ctx, tx, stored); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	p.log.Infow("license inserted", "license_id", stored.ID)
	return &stored, nil
}

// ReplaceLicense overwrites the stored record, keeping its id.
func (p *Postgres) ReplaceLicense(ctx context.Context, id string, license entities.License) (*entities.License, error) {
	return p.UpdateLicense(ctx, id, func(l *entities.License) error {
		*l = license.Clone()
		return nil
	})
}

// DeleteLicense removes a license; users go with it through ON DELETE CASCADE.
func (p *Postgres) DeleteLicense(ctx context.Context, id string) error {
	tag, err := p.db.Exec(ctx, deleteLicenseQuery, id)
	if err != nil {
		p.log.Errorw("failed to delete license", "error", err, "license_id", id)
		return fmt.Errorf("delete license: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrLicenseNotFound
	}

	p.log.Infow("license deleted", "license_id", id)
	return nil
}

// UpdateLicense locks the license row, applies fn and rewrites the record in one transaction.
func (p *Postgres) UpdateLicense(ctx context.Context, id string, fn func(l *entities.License) error) (*entities.License, error) {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	l, err := p.readLicense(ctx, tx, selectLicenseForUpdateQuery, id)
	if err != nil {
		return nil, err
	}
	if err := fn(l); err != nil {
		return nil, err
	}
	l.ID = id

	if _, err := tx.Exec(ctx, updateLicenseQuery, licenseArgs(*l)...); err != nil {
		p.log.Errorw("failed to update license", "error", err, "license_id", id)
		return nil, mapWriteError("update license", err)
	}
	if _, err := tx.Exec(ctx, deleteUsersQuery, id); err != nil {
		return nil, fmt.Errorf("clear users: %w", err)
	}
	if err := p.writeUsers(ctx, tx, *l); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return l, nil
}

func (p *Postgres) readLicense(ctx context.Context, q querier, query, id string) (*entities.License, error) {
	l, err := scanLicense(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrLicenseNotFound
		}
		return nil, fmt.Errorf("get license: %w", err)
	}

	rows, err := q.Query(ctx, selectUsersQuery, id)
	if err != nil {
		return nil, fmt.Errorf("get users: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		_, u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		l.Users = append(l.Users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return &l, nil
}

func (p *Postgres) writeUsers(ctx context.Context, tx pgx.Tx, l entities.License) error {
	for i, u := range l.Users {
		if _, err := tx.Exec(ctx, insertUserQuery, l.ID, u.ID, i, u.Name, u.Email, u.Password, u.DefaultPassword); err != nil {
			p.log.Errorw("failed to insert user", "error", err, "license_id", l.ID, "user_id", u.ID)
			return fmt.Errorf("insert user: %w", err)
		}
	}
	return nil
}

func scanLicense(row pgx.Row) (entities.License, error) {
	l := entities.License{Users: []entities.User{}}
	err := row.Scan(&l.ID, &l.Name, &l.Email, &l.ActivationEmail, &l.ActivationPassword, &l.DefaultPassword, &l.MaxUsers)
	return l, err
}

func scanUser(row pgx.Row) (string, entities.User, error) {
	var licenseID string
	var u entities.User
	err := row.Scan(&licenseID, &u.ID, &u.Name, &u.Email, &u.Password, &u.DefaultPassword)
	return licenseID, u, err
}

func licenseArgs(l entities.License) []any {
	return []any{l.ID, l.Name, l.Email, l.ActivationEmail, l.ActivationPassword, l.DefaultPassword, l.MaxUsers}
}

func mapWriteError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == checkViolationCode {
		return fmt.Errorf("%w: %s", entities.ErrInvalidInput, pgErr.ConstraintName)
	}
	return fmt.Errorf("%s: %w", op, err)
}
