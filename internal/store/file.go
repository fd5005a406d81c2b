package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// hashPattern matches the 12-hex keys produced by Hash. Anything else is
// rejected before it can reach the filesystem.
var hashPattern = regexp.MustCompile(`^[0-9a-f]{12}$`)

// FileStore keeps one JSON file per hash in two sibling directories: queries
// under savedDir, results under resultsDir. Directories are created on first
// write. Writes are whole-file overwrites with no locking.
type FileStore struct {
	savedDir   string
	resultsDir string
}

func NewFile(savedDir, resultsDir string) *FileStore {
	return &FileStore{savedDir: savedDir, resultsDir: resultsDir}
}

func (s *FileStore) Save(ctx context.Context, q Query, result any) (string, error) {
	hash := Hash(q.Text, q.Question)
	if err := s.write(s.savedDir, hash, q); err != nil {
		return "", err
	}
	if err := s.write(s.resultsDir, hash, result); err != nil {
		return "", err
	}
	return hash, nil
}

func (s *FileStore) write(dir, hash string, v any) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s record: %w", hash, err)
	}
	path := filepath.Join(dir, hash+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func (s *FileStore) List(ctx context.Context) ([]QuerySummary, error) {
	entries, err := os.ReadDir(s.savedDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []QuerySummary{}, nil
		}
		return nil, err
	}

	type fileInfo struct {
		hash  string
		mtime int64
	}
	var files []fileInfo
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, fileInfo{
			hash:  strings.TrimSuffix(e.Name(), ".json"),
			mtime: info.ModTime().UnixNano(),
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].mtime > files[j].mtime })

	summaries := make([]QuerySummary, 0, len(files))
	for _, f := range files {
		q, err := s.readQuery(f.hash)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, QuerySummary{
			Hash:        f.hash,
			Question:    truncate(q.Question, previewLen),
			TextPreview: truncate(q.Text, previewLen),
		})
	}
	return summaries, nil
}

func (s *FileStore) Get(ctx context.Context, hash string) (Saved, error) {
	if !hashPattern.MatchString(hash) {
		return Saved{}, fmt.Errorf("%w: %s", ErrNotFound, hash)
	}
	q, err := s.readQuery(hash)
	if err != nil {
		return Saved{}, err
	}
	saved := Saved{Query: q}

	data, err := os.ReadFile(filepath.Join(s.resultsDir, hash+".json"))
	switch {
	case err == nil:
		saved.Result = json.RawMessage(data)
	case os.IsNotExist(err):
		// A query can exist without a completed result.
	default:
		return Saved{}, err
	}
	return saved, nil
}

func (s *FileStore) readQuery(hash string) (Query, error) {
	data, err := os.ReadFile(filepath.Join(s.savedDir, hash+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return Query{}, fmt.Errorf("%w: %s", ErrNotFound, hash)
		}
		return Query{}, err
	}
	var q Query
	if err := json.Unmarshal(data, &q); err != nil {
		return Query{}, fmt.Errorf("corrupt query record %s: %w", hash, err)
	}
	return q, nil
}
