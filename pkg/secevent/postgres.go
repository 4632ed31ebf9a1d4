package secevent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStorage persists security events in PostgreSQL, for
// deployments where audit records must survive process restarts. The
// same FIFO bound as MemoryStorage is enforced in SQL: every insert
// trims rows beyond the capacity, oldest first, inside one transaction.
type PostgresStorage struct {
	pool     *pgxpool.Pool
	capacity int
}

// NewPostgresStorage creates a PostgreSQL-backed event storage holding
// at most capacity events. Non-positive capacity falls back to
// DefaultCapacity.
func NewPostgresStorage(pool *pgxpool.Pool, capacity int) (*PostgresStorage, error) {
	if pool == nil {
		return nil, errors.New("secevent: pgx pool is required")
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &PostgresStorage{pool: pool, capacity: capacity}, nil
}

// Migrate creates the backing table when it does not exist yet.
func (p *PostgresStorage) Migrate(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS security_events (
			id            UUID PRIMARY KEY,
			type          TEXT NOT NULL,
			session_token TEXT NOT NULL DEFAULT '',
			user_id       UUID,
			ip            TEXT NOT NULL DEFAULT '',
			user_agent    TEXT NOT NULL DEFAULT '',
			details       JSONB,
			created_at    TIMESTAMPTZ NOT NULL
		)`,
	); err != nil {
		return err
	}

	_, err := p.pool.Exec(ctx, `
		CREATE INDEX IF NOT EXISTS security_events_user_id_idx
			ON security_events (user_id, created_at DESC)`)
	return err
}

func (p *PostgresStorage) Store(ctx context.Context, event Event) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var userID *uuid.UUID
	if event.UserID != uuid.Nil {
		userID = &event.UserID
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO security_events (id, type, session_token, user_id, ip, user_agent, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		event.ID, string(event.Type), event.SessionToken, userID,
		event.IP, event.UserAgent, event.Details, event.CreatedAt,
	); err != nil {
		return err
	}

	// FIFO bound: drop rows past the capacity, oldest first.
	if _, err := tx.Exec(ctx, `
		DELETE FROM security_events
		WHERE id IN (
			SELECT id FROM security_events
			ORDER BY created_at DESC, id
			OFFSET $1
		)`, p.capacity,
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// buildQuery renders the criteria as a parameterized SELECT, newest
// first; placeholder numbering follows criteria order.
func buildQuery(criteria Criteria) (string, []any) {
	var (
		conditions []string
		args       []any
	)

	if criteria.UserID != uuid.Nil {
		args = append(args, criteria.UserID)
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if criteria.Type != "" {
		args = append(args, string(criteria.Type))
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)))
	}

	query := `SELECT id, type, session_token, user_id, ip, user_agent, details, created_at FROM security_events`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, id"
	if criteria.Limit > 0 {
		args = append(args, criteria.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	return query, args
}

func (p *PostgresStorage) Query(ctx context.Context, criteria Criteria) ([]Event, error) {
	query, args := buildQuery(criteria)

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			event  Event
			typ    string
			userID *uuid.UUID
		)
		if err := rows.Scan(&event.ID, &typ, &event.SessionToken, &userID,
			&event.IP, &event.UserAgent, &event.Details, &event.CreatedAt); err != nil {
			return nil, err
		}
		event.Type = Type(typ)
		if userID != nil {
			event.UserID = *userID
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

var _ Storage = (*PostgresStorage)(nil)
