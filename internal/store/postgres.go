package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres keeps the whole Data blob in a single jsonb row, guarded by row
// locking. It implements the same whole-blob semantics as the JSON file
// backend so repositories work against either without change; the tradeoff
// is identical (whole-store serialization) with durability delegated to the
// database.
type Postgres struct {
	pool  *pgxpool.Pool
	table string
}

// NewPostgres creates a jsonb-backed store and ensures its schema.
func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}
	cfg.MaxConns = 10

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Postgres{pool: pool, table: "para_store"}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the connection pool.
func (s *Postgres) Close() {
	s.pool.Close()
}

func (s *Postgres) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s (id smallint PRIMARY KEY, data jsonb NOT NULL)`, s.table))
	if err != nil {
		return fmt.Errorf("ensure store table: %w", err)
	}
	return nil
}

func (s *Postgres) View(ctx context.Context, fn func(*Data) error) error {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT data FROM %s WHERE id = 1`, s.table)).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return fn(&Data{})
	}
	if err != nil {
		return fmt.Errorf("read store: %w", err)
	}

	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("decode store: %w", err)
	}
	return fn(&data)
}

func (s *Postgres) Update(ctx context.Context, fn func(*Data) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin store update: %w", err)
	}
	defer tx.Rollback(ctx)

	var raw []byte
	data := &Data{}
	err = tx.QueryRow(ctx,
		fmt.Sprintf(`SELECT data FROM %s WHERE id = 1 FOR UPDATE`, s.table)).Scan(&raw)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		// first write seeds the row
	case err != nil:
		return fmt.Errorf("read store: %w", err)
	default:
		if err := json.Unmarshal(raw, data); err != nil {
			return fmt.Errorf("decode store: %w", err)
		}
	}

	if err := fn(data); err != nil {
		return err
	}

	out, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}
	_, err = tx.Exec(ctx, fmt.Sprintf(
		`INSERT INTO %s (id, data) VALUES (1, $1)
		 ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data`, s.table), out)
	if err != nil {
		return fmt.Errorf("write store: %w", err)
	}
	return tx.Commit(ctx)
}
