package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"trip-wizard-service/internal/platform/obs"
)

// SQLStore is a KeyValueStore over the kv_store table. The statements are
// valid for both postgres (pgx) and sqlite.
type SQLStore struct {
	DB *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{DB: db}
}

func (s *SQLStore) Get(ctx context.Context, key string) (_ string, _ bool, err error) {
	defer obs.Time(ctx, "kv.sql.Get")(&err)

	if s.DB == nil {
		return "", false, errors.New("sql store: db is nil")
	}

	var v string
	err = s.DB.QueryRowContext(ctx, `
	SELECT value
    FROM kv_store
    WHERE key = $1;
	`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get kv: query kv_store table: %w", err)
	}
	return v, true, nil
}

func (s *SQLStore) Set(ctx context.Context, key string, value string) (err error) {
	defer obs.Time(ctx, "kv.sql.Set")(&err)

	if s.DB == nil {
		return errors.New("sql store: db is nil")
	}

	if strings.TrimSpace(key) == "" {
		return errors.New("set kv: key must not be empty")
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT INTO kv_store (key, value, updated_at_ms)
    VALUES ($1, $2, $3)
	ON CONFLICT (key) DO UPDATE
	SET value = EXCLUDED.value,
		updated_at_ms = EXCLUDED.updated_at_ms;
	`, key, value, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("set kv %q: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Remove(ctx context.Context, key string) (err error) {
	defer obs.Time(ctx, "kv.sql.Remove")(&err)

	if s.DB == nil {
		return errors.New("sql store: db is nil")
	}

	if _, err := s.DB.ExecContext(ctx, `DELETE FROM kv_store WHERE key = $1;`, key); err != nil {
		return fmt.Errorf("remove kv %q: %w", key, err)
	}
	return nil
}
