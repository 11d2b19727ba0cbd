package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"citeguard/internal/scoring"
	"citeguard/internal/verification/models"
	"citeguard/pkg/platform/sentinel"
	txcontext "citeguard/pkg/platform/tx"
)

// Schema creates the verifications table. It is idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS verifications (
	id          UUID PRIMARY KEY,
	domain      TEXT NOT NULL,
	verdict     TEXT NOT NULL,
	reference   JSONB NOT NULL,
	evidence    JSONB NOT NULL,
	linear      JSONB,
	bayesian    JSONB,
	latencies   JSONB,
	created_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS verifications_domain_created_idx ON verifications (domain, created_at DESC);
`

const uniqueViolation = "23505"

// PostgresStore persists verifications in Postgres. Nested values are stored
// as JSONB.
type PostgresStore struct {
	db *sql.DB
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// execer joins the caller's transaction when the context carries one.
func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// NewPostgres creates a store on an open database handle.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate applies Schema in one transaction, so a failed migration leaves
// neither the table nor its index behind.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	err := txcontext.RunInTx(ctx, s.db, func(txCtx context.Context) error {
		_, err := s.execer(txCtx).ExecContext(txCtx, Schema)
		return err
	})
	if err != nil {
		return fmt.Errorf("apply verification schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, v *models.Verification) error {
	reference, err := jsonText(v.Reference)
	if err != nil {
		return err
	}
	evidence, err := jsonText(v.Evidence)
	if err != nil {
		return err
	}
	linear, err := nullableJSON(v.Linear != nil, v.Linear)
	if err != nil {
		return err
	}
	bayesian, err := nullableJSON(v.Bayesian != nil, v.Bayesian)
	if err != nil {
		return err
	}
	latencies, err := nullableJSON(len(v.Latencies) > 0, v.Latencies)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO verifications (id, domain, verdict, reference, evidence, linear, bayesian, latencies, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = s.execer(ctx).ExecContext(ctx, query,
		v.ID,
		string(v.Domain),
		string(v.Verdict()),
		reference,
		evidence,
		linear,
		bayesian,
		latencies,
		v.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert verification: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Verification, error) {
	query := `
		SELECT id, domain, reference, evidence, linear, bayesian, latencies, created_at
		FROM verifications
		WHERE id = $1
	`
	var (
		v                           models.Verification
		domain                      string
		reference, evidence         []byte
		linear, bayesian, latencies []byte
	)
	err := s.execer(ctx).QueryRowContext(ctx, query, id).Scan(
		&v.ID, &domain, &reference, &evidence, &linear, &bayesian, &latencies, &v.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query verification: %w", err)
	}
	v.Domain = scoring.Domain(domain)
	v.CreatedAt = v.CreatedAt.UTC()

	if err := json.Unmarshal(reference, &v.Reference); err != nil {
		return nil, fmt.Errorf("decode reference: %w", err)
	}
	if err := json.Unmarshal(evidence, &v.Evidence); err != nil {
		return nil, fmt.Errorf("decode evidence: %w", err)
	}
	if linear != nil {
		v.Linear = &scoring.LinearResult{}
		if err := json.Unmarshal(linear, v.Linear); err != nil {
			return nil, fmt.Errorf("decode linear result: %w", err)
		}
	}
	if bayesian != nil {
		v.Bayesian = &scoring.BayesianResult{}
		if err := json.Unmarshal(bayesian, v.Bayesian); err != nil {
			return nil, fmt.Errorf("decode bayesian result: %w", err)
		}
	}
	if latencies != nil {
		if err := json.Unmarshal(latencies, &v.Latencies); err != nil {
			return nil, fmt.Errorf("decode latencies: %w", err)
		}
	}
	return &v, nil
}

// jsonText encodes v as a string; lib/pq sends []byte as bytea, which jsonb
// columns reject.
func jsonText(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode verification: %w", err)
	}
	return string(raw), nil
}

func nullableJSON(present bool, v any) (any, error) {
	if !present {
		return nil, nil
	}
	return jsonText(v)
}
