package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresStore is the database-backed provider. Same contract as FileStore;
// updated_at ordering stands in for file modification time.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	s := &PostgresStore{db: db}
	if err := s.migrate(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS saved_queries (
			hash TEXT PRIMARY KEY,
			text TEXT NOT NULL,
			question TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE TABLE IF NOT EXISTS saved_results (
			hash TEXT PRIMARY KEY,
			payload JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, q Query, result any) (string, error) {
	hash := Hash(q.Text, q.Question)
	payload, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("marshal %s record: %w", hash, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO saved_queries(hash, text, question) VALUES($1, $2, $3)
		ON CONFLICT (hash) DO UPDATE SET text=EXCLUDED.text, question=EXCLUDED.question, updated_at=now()`,
		hash, q.Text, q.Question)
	if err != nil {
		return "", err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO saved_results(hash, payload) VALUES($1, $2)
		ON CONFLICT (hash) DO UPDATE SET payload=EXCLUDED.payload, updated_at=now()`,
		hash, payload)
	if err != nil {
		return "", err
	}
	return hash, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]QuerySummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT hash, text, question FROM saved_queries ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []QuerySummary{}
	for rows.Next() {
		var hash, text, question string
		if err := rows.Scan(&hash, &text, &question); err != nil {
			return nil, err
		}
		summaries = append(summaries, QuerySummary{
			Hash:        hash,
			Question:    truncate(question, previewLen),
			TextPreview: truncate(text, previewLen),
		})
	}
	return summaries, rows.Err()
}

func (s *PostgresStore) Get(ctx context.Context, hash string) (Saved, error) {
	var saved Saved
	err := s.db.QueryRowContext(ctx,
		`SELECT text, question FROM saved_queries WHERE hash=$1`, hash).
		Scan(&saved.Query.Text, &saved.Query.Question)
	if errors.Is(err, sql.ErrNoRows) {
		return Saved{}, fmt.Errorf("%w: %s", ErrNotFound, hash)
	}
	if err != nil {
		return Saved{}, err
	}

	var payload []byte
	err = s.db.QueryRowContext(ctx,
		`SELECT payload FROM saved_results WHERE hash=$1`, hash).Scan(&payload)
	switch {
	case err == nil:
		saved.Result = json.RawMessage(payload)
	case errors.Is(err, sql.ErrNoRows):
		// A query can exist without a completed result.
	default:
		return Saved{}, err
	}
	return saved, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
