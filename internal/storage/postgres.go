package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/fitledger/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var _ Store = (*PostgresStore)(nil)

// PostgresStore keeps state blobs in the app_state table:
//
//	CREATE TABLE app_state (
//	    key        TEXT PRIMARY KEY,
//	    value      BYTEA NOT NULL,
//	    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
//	);
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{
		db: db,
	}
}

func (s *PostgresStore) Load(ctx context.Context, key string) (_ []byte, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "storage.postgres.load")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("key", key))

	var data []byte
	err = s.db.
		QueryRow(ctx, `SELECT value FROM app_state WHERE key = $1`, key).
		Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select state [%s]: %w", key, err)
	}
	return data, nil
}

func (s *PostgresStore) Save(ctx context.Context, key string, data []byte) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "storage.postgres.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("key", key))
	span.SetAttributes(attribute.Int("size", len(data)))

	_, err = s.db.Exec(
		ctx,
		`INSERT INTO app_state (key, value, updated_at)
			VALUES ($1, $2, now())
			ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now();`,
		key, data,
	)
	if err != nil {
		return fmt.Errorf("upsert state [%s]: %w", key, err)
	}
	return nil
}
