package blobstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, namespace, key string) (string, error) {
	query := `SELECT value FROM kv_blob WHERE namespace = $1 AND key = $2`

	var value string
	err := s.db.QueryRow(ctx, query, namespace, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		err := fmt.Errorf("could not read blob %s/%s: %w", namespace, key, err)
		log.Error(err)
		return "", err
	}
	return value, nil
}

func (s *PostgresStore) Put(ctx context.Context, namespace, key, value string) error {
	query := `INSERT INTO kv_blob (namespace, key, value, updated_at)
              VALUES ($1, $2, $3, now())
              ON CONFLICT (namespace, key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`

	if _, err := s.db.Exec(ctx, query, namespace, key, value); err != nil {
		err := fmt.Errorf("could not write blob %s/%s: %w", namespace, key, err)
		log.Error(err)
		return err
	}
	return nil
}
