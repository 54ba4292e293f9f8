package secretstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/credstore/internal/common"
	"github.com/dmitrijs2005/credstore/internal/secretstore/migrations"
)

// pgUniqueViolation is the PostgreSQL SQLSTATE for unique constraint errors.
const pgUniqueViolation = "23505"

// PostgresStore keeps credential records in a PostgreSQL table. The primary
// key on the identifier column gives the write-once guarantee: a duplicate
// insert fails at the database and maps to common.ErrConflict.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore wraps an existing database handle. Use OpenPostgresStore
// to also open the connection and apply migrations.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// OpenPostgresStore opens a pgx connection for the DSN, applies the embedded
// schema migrations, and returns a ready store.
func OpenPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: db open: %v", common.ErrStoreIO, err)
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return nil, fmt.Errorf("%w: migration: %v", common.ErrStoreIO, err)
	}

	return NewPostgresStore(db), nil
}

func (s *PostgresStore) Save(ctx context.Context, id string, data []byte) error {
	query :=
		`INSERT INTO credentials (id, record)
		 VALUES ($1, $2)
		 `

	if _, err := s.db.ExecContext(ctx, query, id, data); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("%w: %s", common.ErrConflict, id)
		}
		return fmt.Errorf("%w: db error: %v", common.ErrStoreIO, err)
	}

	return nil
}

func (s *PostgresStore) Load(ctx context.Context, id string) ([]byte, error) {
	query :=
		`SELECT record FROM credentials
		 WHERE id = $1
		 `

	var data []byte
	err := s.db.QueryRowContext(ctx, query, id).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", common.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: db error: %v", common.ErrStoreIO, err)
	}

	return data, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	query :=
		`DELETE FROM credentials
		 WHERE id = $1
		 `

	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%w: db error: %v", common.ErrStoreIO, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: db error: %v", common.ErrStoreIO, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", common.ErrNotFound, id)
	}

	return nil
}

// Close releases the underlying database handle.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
