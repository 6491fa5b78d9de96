package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"
)

// Repository persists users.
type Repository interface {
	Create(ctx context.Context, user *User) (*User, error)
	List(ctx context.Context) ([]User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	Update(ctx context.Context, user *User) (*User, error)
	Delete(ctx context.Context, id int64) (*User, error)
}

// DB is the subset of *pgxpool.Pool the repository needs.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const userColumns = "id, first_name, last_name, phone, email, address"

type postgresRepository struct {
	db DB
}

func NewRepository(db DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, user *User) (*User, error) {
	query := `
		INSERT INTO users (first_name, last_name, phone, email, address)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + userColumns

	row := r.db.QueryRow(ctx, query,
		user.FirstName,
		user.LastName,
		user.Phone,
		user.Email,
		user.Address,
	)

	created, err := scanUser(row)
	if err != nil {
		return nil, wrapErr(err, "failed to insert user")
	}

	return created, nil
}

func (r *postgresRepository) List(ctx context.Context) ([]User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, wrapErr(err, "failed to query users")
	}
	defer rows.Close()

	users := make([]User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, wrapErr(err, "failed to scan user")
		}
		users = append(users, *u)
	}

	if err = rows.Err(); err != nil {
		return nil, wrapErr(err, "failed iterating users")
	}

	return users, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}

		return nil, wrapErr(err, fmt.Sprintf("failed to select user by id %d", id))
	}

	return u, nil
}

// Update overwrites every column of the row. A zero-valued field in user
// is written as the empty string.
func (r *postgresRepository) Update(ctx context.Context, user *User) (*User, error) {
	query := `
		UPDATE users
		SET first_name = $1, last_name = $2, phone = $3, email = $4, address = $5
		WHERE id = $6
		RETURNING ` + userColumns

	row := r.db.QueryRow(ctx, query,
		user.FirstName,
		user.LastName,
		user.Phone,
		user.Email,
		user.Address,
		user.ID,
	)

	updated, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Warn().Int64("user_id", user.ID).Msg("repository: user not found for update")
			return nil, ErrNotFound
		}

		return nil, wrapErr(err, fmt.Sprintf("failed to update user %d", user.ID))
	}

	return updated, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) (*User, error) {
	query := `DELETE FROM users WHERE id = $1 RETURNING ` + userColumns

	deleted, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}

		return nil, wrapErr(err, fmt.Sprintf("failed to delete user %d", id))
	}

	return deleted, nil
}

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID,
		&u.FirstName,
		&u.LastName,
		&u.Phone,
		&u.Email,
		&u.Address,
	)
	if err != nil {
		return nil, err
	}

	return &u, nil
}

func wrapErr(err error, msg string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UndefinedTable {
		log.Error().Str("pg_code", pgErr.Code).Msg("repository: users table is missing, run `user-service migrate`")
	}

	return fmt.Errorf("repository: %s: %w", msg, err)
}
