package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/shopcart/internal/domain/user"
)

const (
	userColumns = `u.id, u.name, u.lastname, u.dni, u.address, u.email, u.username,
		u.password_hash, u.avatar, r.id, r.description`

	getUserByUsernameSQL = `SELECT ` + userColumns + `
		FROM users u LEFT JOIN roles r ON r.id = u.role_id
		WHERE u.username = $1`

	getUserByIDSQL = `SELECT ` + userColumns + `
		FROM users u LEFT JOIN roles r ON r.id = u.role_id
		WHERE u.id = $1`

	// role_id is left untouched when $9 is NULL.
	updateUserSQL = `UPDATE users SET name = $2, lastname = $3, dni = $4, address = $5,
		email = $6, username = $7, password_hash = $8, role_id = COALESCE($9, role_id), avatar = $10
		WHERE id = $1`

	upsertRoleSQL = `INSERT INTO roles (id, description) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET description = EXCLUDED.description`
)

var _ user.Repository = (*UserRepository)(nil)

// UserRepository implements user.Repository backed by PostgreSQL.
type UserRepository struct {
	pool   *pgxpool.Pool
	pepper []byte
}

// NewUserRepository returns a UserRepository that uses the given pool.
func NewUserRepository(pool *pgxpool.Pool, pepper []byte) *UserRepository {
	return &UserRepository{pool: pool, pepper: pepper}
}

// Authenticate returns user.ErrInvalidCredentials for an unknown username or
// a wrong password.
func (r *UserRepository) Authenticate(ctx context.Context, c user.Credentials) (*user.User, error) {
	rows, err := r.pool.Query(ctx, getUserByUsernameSQL, c.Username)
	if err != nil {
		return nil, fmt.Errorf("finding user %q: %w", c.Username, err)
	}
	a, err := pgx.CollectExactlyOneRow(rows, scanAccount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("finding user %q: %w", c.Username, err)
	}

	if !user.VerifyPassword(r.pepper, c.Password, a.PasswordHash) {
		return nil, user.ErrInvalidCredentials
	}
	u := a.Public()
	return &u, nil
}

// Update stores p and returns the resulting profile. It returns
// user.ErrNotFound for unknown ids.
func (r *UserRepository) Update(ctx context.Context, p user.ProfileUpdate) (*user.User, error) {
	var updated user.Account
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var roleID *int
		if p.Role != nil {
			if _, err := tx.Exec(ctx, upsertRoleSQL, p.Role.ID, p.Role.Description); err != nil {
				return fmt.Errorf("upserting role %d: %w", p.Role.ID, err)
			}
			roleID = &p.Role.ID
		}

		tag, err := tx.Exec(ctx, updateUserSQL,
			p.ID, p.Name, p.Lastname, p.DNI, p.Address, p.Email, p.Username,
			user.HashPassword(r.pepper, p.Password), roleID, p.Avatar,
		)
		if err != nil {
			return fmt.Errorf("updating user %d: %w", p.ID, err)
		}
		if tag.RowsAffected() == 0 {
			return user.ErrNotFound
		}

		rows, err := tx.Query(ctx, getUserByIDSQL, p.ID)
		if err != nil {
			return fmt.Errorf("reading user %d: %w", p.ID, err)
		}
		updated, err = pgx.CollectExactlyOneRow(rows, scanAccount)
		return err
	})
	if err != nil {
		return nil, err
	}

	u := updated.Public()
	return &u, nil
}

func scanAccount(row pgx.CollectableRow) (user.Account, error) {
	var (
		a               user.Account
		roleID          *int
		roleDescription *string
	)
	err := row.Scan(
		&a.User.ID, &a.User.Name, &a.User.Lastname, &a.User.DNI, &a.User.Address,
		&a.User.Email, &a.User.Username, &a.PasswordHash, &a.User.Avatar,
		&roleID, &roleDescription,
	)
	if roleID != nil {
		a.User.Role = &user.Role{ID: *roleID}
		if roleDescription != nil {
			a.User.Role.Description = *roleDescription
		}
	}
	return a, err
}
