package user

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type errRow struct{ err error }

func (r errRow) Scan(dest ...any) error { return r.err }

// rowDB answers every QueryRow with the same row and fails every Query.
type rowDB struct {
	row      pgx.Row
	queryErr error
	lastSQL  string
	lastArgs []any
}

func (d *rowDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	d.lastSQL, d.lastArgs = sql, args
	return nil, d.queryErr
}

func (d *rowDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	d.lastSQL, d.lastArgs = sql, args
	return d.row
}

func TestPostgresRepository_NoRowsIsNotFound(t *testing.T) {
	fake := &rowDB{row: errRow{err: pgx.ErrNoRows}}
	repo := NewRepository(fake)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, 1)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = repo.Update(ctx, &User{ID: 999})
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, int64(999), fake.lastArgs[5], "id must be the last bound argument")

	_, err = repo.Delete(ctx, 2)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresRepository_DriverErrorsAreWrapped(t *testing.T) {
	pgErr := &pgconn.PgError{Code: pgerrcode.UndefinedTable, Message: `relation "users" does not exist`}
	fake := &rowDB{row: errRow{err: pgErr}, queryErr: pgErr}
	repo := NewRepository(fake)
	ctx := context.Background()

	_, err := repo.Create(ctx, &User{Email: "a@b.co"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)

	var got *pgconn.PgError
	require.True(t, errors.As(err, &got))
	assert.Equal(t, pgerrcode.UndefinedTable, got.Code)

	_, err = repo.List(ctx)
	require.ErrorIs(t, err, pgErr)

	_, err = repo.GetByID(ctx, 1)
	require.ErrorIs(t, err, pgErr)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestPostgresRepository_CreateBindsAllFields(t *testing.T) {
	fake := &rowDB{row: errRow{err: errors.New("stop")}}
	repo := NewRepository(fake)

	_, _ = repo.Create(context.Background(), &User{
		FirstName: "Ann",
		LastName:  "Lee",
		Phone:     "5551234567",
		Email:     "ann@example.com",
		Address:   "1 Main St",
	})

	assert.Equal(t, []any{"Ann", "Lee", "5551234567", "ann@example.com", "1 Main St"}, fake.lastArgs)
	assert.Contains(t, fake.lastSQL, "RETURNING id, first_name, last_name, phone, email, address")
}
