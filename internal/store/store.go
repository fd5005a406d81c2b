package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
)

// ErrNotFound is returned when a hash has no query record.
var ErrNotFound = errors.New("query not found")

// Query is the persisted projection of a highlight request.
type Query struct {
	Text     string `json:"text"`
	Question string `json:"question"`
}

// QuerySummary is one row of a listing: the hash plus truncated previews.
type QuerySummary struct {
	Hash        string `json:"hash"`
	Question    string `json:"question"`
	TextPreview string `json:"text_preview"`
}

// Saved pairs a query record with its result, if one was recorded. A nil
// Result marshals as JSON null.
type Saved struct {
	Query  Query           `json:"query"`
	Result json.RawMessage `json:"result"`
}

// Store persists query/result pairs keyed by content hash. Saving the same
// text/question twice overwrites silently; last writer wins.
type Store interface {
	// Save writes the query and its result under Hash(q.Text, q.Question)
	// and returns that hash.
	Save(ctx context.Context, q Query, result any) (string, error)
	// List returns all saved queries, most recently written first, with
	// question and text previews truncated to 100 characters.
	List(ctx context.Context) ([]QuerySummary, error)
	// Get returns the query for hash and its result if one exists.
	// Returns ErrNotFound when there is no query record.
	Get(ctx context.Context, hash string) (Saved, error)
}

// Hash derives the storage key for a text/question pair: the first 12 hex
// characters of SHA-256("text|question"). 48 bits, so collisions are possible
// at scale; colliding pairs silently share a key.
func Hash(text, question string) string {
	sum := sha256.Sum256([]byte(text + "|" + question))
	return hex.EncodeToString(sum[:])[:12]
}

const previewLen = 100

// truncate limits s to max runes, without an ellipsis.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
