package audit

import (
	"context"
	"database/sql"
)

// PostgresRepo appends call events to Postgres.
//
// Assumes the following table with an INSERT-only policy:
//
//	CREATE TABLE call_events (
//	    id         TEXT PRIMARY KEY,
//	    call_sid   TEXT NOT NULL,
//	    type       TEXT NOT NULL,
//	    message    TEXT NOT NULL DEFAULT '',
//	    metadata   TEXT NOT NULL DEFAULT '',
//	    created_at TIMESTAMPTZ NOT NULL
//	);
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

func (r *PostgresRepo) Append(ctx context.Context, e Event) error {
	const q = `
INSERT INTO call_events (id, call_sid, type, message, metadata, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
`
	_, err := r.db.ExecContext(ctx, q, e.ID, e.CallSid, string(e.Type), e.Message, e.Metadata, e.CreatedAt)
	return err
}
