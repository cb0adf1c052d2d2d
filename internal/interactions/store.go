package interactions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrUnavailable marks failures to reach the underlying store. The inbound
// flow logs these and keeps going; the user's reply is never blocked on
// persistence.
var ErrUnavailable = errors.New("interactions: store unavailable")

// Record is one persisted turn: the inbound message and the final reply that
// was returned for it. Records are immutable once written.
type Record struct {
	ID          uuid.UUID
	UserID      string
	CreatedAt   time.Time
	Language    string
	InboundText string
	ReplyText   string
}

// PgxPool is the subset of pgxpool.Pool the store needs; pgxmock satisfies it.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store persists interaction records in Postgres. Append-only: there is no
// update or delete.
type Store struct {
	pool PgxPool
}

// NewStore wraps a pgx pool.
func NewStore(pool PgxPool) *Store {
	if pool == nil {
		return nil
	}
	return &Store{pool: pool}
}

// Append inserts one record and returns it with the id and store-assigned
// timestamp filled in.
func (s *Store) Append(ctx context.Context, rec Record) (Record, error) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	query := `
		INSERT INTO interactions (id, user_id, language, inbound_text, reply_text)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	if err := s.pool.QueryRow(ctx, query, rec.ID, rec.UserID, rec.Language, rec.InboundText, rec.ReplyText).Scan(&rec.CreatedAt); err != nil {
		return Record{}, fmt.Errorf("%w: append: %v", ErrUnavailable, err)
	}
	return rec, nil
}

// ListDistinctUsers returns every user id that has at least one record.
// Used by the daily check-in job.
func (s *Store) ListDistinctUsers(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT DISTINCT user_id FROM interactions`)
	if err != nil {
		return nil, fmt.Errorf("%w: list users: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("interactions: scan user id: %w", err)
		}
		users = append(users, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list users: %v", ErrUnavailable, err)
	}
	return users, nil
}

// ListByUser returns the most recent records for one user, newest first.
// Supports the direct-API history path when Redis has no cached turns.
func (s *Store) ListByUser(ctx context.Context, userID string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT id, user_id, created_at, language, inbound_text, reply_text
		FROM interactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := s.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: list by user: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.CreatedAt, &rec.Language, &rec.InboundText, &rec.ReplyText); err != nil {
			return nil, fmt.Errorf("interactions: scan record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list by user: %v", ErrUnavailable, err)
	}
	return records, nil
}
