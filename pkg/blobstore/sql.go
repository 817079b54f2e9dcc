package blobstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// SQLStore keeps blobs in the kv_blob table of a database/sql database
// (SQLite in practice).
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Get(ctx context.Context, namespace, key string) (string, error) {
	query := `SELECT value FROM kv_blob WHERE namespace = ? AND key = ?`

	var value string
	err := s.db.QueryRowContext(ctx, query, namespace, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		err := fmt.Errorf("could not read blob %s/%s: %w", namespace, key, err)
		log.Error(err)
		return "", err
	}
	return value, nil
}

func (s *SQLStore) Put(ctx context.Context, namespace, key, value string) error {
	query := `INSERT INTO kv_blob (namespace, key, value, updated_at)
              VALUES (?, ?, ?, CURRENT_TIMESTAMP)
              ON CONFLICT (namespace, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

	stmt, err := s.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %w", err)
		log.Error(err)
		return err
	}
	defer stmt.Close()

	if _, err := stmt.ExecContext(ctx, namespace, key, value); err != nil {
		err := fmt.Errorf("could not write blob %s/%s: %w", namespace, key, err)
		log.Error(err)
		return err
	}
	return nil
}
