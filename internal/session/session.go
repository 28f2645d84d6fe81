// Package session persists chat sessions and their interactions in
// PostgreSQL. Persistence is optional: a nil Store is valid and turns every
// operation into a no-op, so the pipeline runs without a database.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Session is one conversation with the recommender.
type Session struct {
	ID           uuid.UUID `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	LastActiveAt time.Time `json:"last_active_at"`
}

// Interaction is one query/response pair within a session.
type Interaction struct {
	ID           uuid.UUID `json:"id"`
	SessionID    uuid.UUID `json:"session_id"`
	Query        string    `json:"query"`
	Intent       string    `json:"intent"`
	OutcomeKind  string    `json:"outcome_kind"`
	ResponseText string    `json:"response_text,omitempty"`
	// Recommendations holds the recommended assessment names, JSON-encoded.
	Recommendations []string  `json:"recommendations,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// Store wraps a PostgreSQL connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool and verifies it.
func Connect(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Close closes the connection pool.
func (s *Store) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the session tables if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if s == nil {
		return nil
	}
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS sessions (
			id UUID PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			last_active_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS interactions (
			id UUID PRIMARY KEY,
			session_id UUID NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			query TEXT NOT NULL,
			intent TEXT NOT NULL,
			outcome_kind TEXT NOT NULL,
			response_text TEXT,
			recommendations JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_interactions_session
			ON interactions (session_id, created_at);
	`)
	if err != nil {
		return fmt.Errorf("failed to ensure session schema: %w", err)
	}
	return nil
}

// CreateSession creates a new session and returns it.
func (s *Store) CreateSession(ctx context.Context) (*Session, error) {
	if s == nil {
		return &Session{ID: uuid.New(), CreatedAt: time.Now(), LastActiveAt: time.Now()}, nil
	}
	var session Session
	err := s.pool.QueryRow(ctx,
		`INSERT INTO sessions (id) VALUES ($1)
		 RETURNING id, created_at, last_active_at`,
		uuid.New(),
	).Scan(&session.ID, &session.CreatedAt, &session.LastActiveAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return &session, nil
}

// EnsureSession creates the session row for id if it does not exist yet.
// Clients may present a session ID they generated themselves; interactions
// reference sessions by foreign key, so the row has to exist first.
func (s *Store) EnsureSession(ctx context.Context, id uuid.UUID) error {
	if s == nil {
		return nil
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO sessions (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to ensure session: %w", err)
	}
	return nil
}

// GetSession retrieves a session by ID. Returns nil, nil when not found.
func (s *Store) GetSession(ctx context.Context, id uuid.UUID) (*Session, error) {
	if s == nil {
		return nil, nil
	}
	var session Session
	err := s.pool.QueryRow(ctx,
		`SELECT id, created_at, last_active_at FROM sessions WHERE id = $1`,
		id,
	).Scan(&session.ID, &session.CreatedAt, &session.LastActiveAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &session, nil
}

// AppendInteraction records one query/response pair and touches the
// session's last-active timestamp.
func (s *Store) AppendInteraction(ctx context.Context, interaction Interaction) error {
	if s == nil {
		return nil
	}
	recJSON, err := json.Marshal(interaction.Recommendations)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendations: %w", err)
	}

	if interaction.ID == uuid.Nil {
		interaction.ID = uuid.New()
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO interactions (id, session_id, query, intent, outcome_kind, response_text, recommendations)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		interaction.ID, interaction.SessionID, interaction.Query, interaction.Intent,
		interaction.OutcomeKind, interaction.ResponseText, recJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to append interaction: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`UPDATE sessions SET last_active_at = NOW() WHERE id = $1`,
		interaction.SessionID,
	)
	if err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}
	return nil
}

// History retrieves the last limit interactions for a session, oldest
// first.
func (s *Store) History(ctx context.Context, sessionID uuid.UUID, limit int) ([]Interaction, error) {
	if s == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, session_id, query, intent, outcome_kind, COALESCE(response_text, ''), recommendations, created_at
		 FROM (
			SELECT * FROM interactions WHERE session_id = $1
			ORDER BY created_at DESC LIMIT $2
		 ) recent
		 ORDER BY created_at ASC`,
		sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load session history: %w", err)
	}
	defer rows.Close()

	var history []Interaction
	for rows.Next() {
		var interaction Interaction
		var recJSON []byte
		if err := rows.Scan(&interaction.ID, &interaction.SessionID, &interaction.Query,
			&interaction.Intent, &interaction.OutcomeKind, &interaction.ResponseText,
			&recJSON, &interaction.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan interaction: %w", err)
		}
		if len(recJSON) > 0 {
			if err := json.Unmarshal(recJSON, &interaction.Recommendations); err != nil {
				return nil, fmt.Errorf("failed to decode recommendations: %w", err)
			}
		}
		history = append(history, interaction)
	}
	return history, nil
}
