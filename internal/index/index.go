// Package index persists the structured summary index and its text rendering.
package index

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

const (
	// IndexFileName is the conventional index file name beside the output.
	IndexFileName = "summary_index.json"

	// SummaryFileName is the human-readable rendering beside the output.
	SummaryFileName = "summary.txt"
)

// Entry is one source document's record in the persisted index. Filename is
// the base name of the combined output the entry belongs to; it is the only
// field reassigned after creation, at persistence time.
type Entry struct {
	Filename   string `json:"filename"`
	Bookmark   string `json:"bookmark"`
	Summary    string `json:"summary"`
	PageNumber int    `json:"page_number"`
	PageCount  int    `json:"page_count"`
}

// key is the dedup identity of an entry: the (output filename, bookmark)
// pair. Entries for the same source merged into the same output are
// duplicates; the same bookmark in a different output is not.
func (e Entry) key() string { return e.Filename + "\x00" + e.Bookmark }

// entrySchema validates a loaded index before merging. Anything that fails
// here is treated as an empty index, never as a fatal error.
const entrySchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["filename", "bookmark", "summary"],
		"properties": {
			"filename":    {"type": "string"},
			"bookmark":    {"type": "string"},
			"summary":     {"type": "string"},
			"page_number": {"type": "integer", "minimum": 0},
			"page_count":  {"type": "integer", "minimum": 0}
		}
	}
}`

// Store reads and writes the index files beside a combined output.
type Store struct {
	dir string
	log *slog.Logger
}

// NewStore creates a Store for the directory containing outputPath.
func NewStore(outputPath string, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{dir: filepath.Dir(outputPath), log: log}
}

// IndexPath returns the structured index file path.
func (s *Store) IndexPath() string { return filepath.Join(s.dir, IndexFileName) }

// SummaryPath returns the text rendering file path.
func (s *Store) SummaryPath() string { return filepath.Join(s.dir, SummaryFileName) }

// Load reads any existing index. A missing file is an empty index. A
// malformed or schema-invalid file is logged and also treated as empty:
// new results must never be lost because old data was corrupt.
func (s *Store) Load() []Entry {
	data, err := os.ReadFile(s.IndexPath())
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("failed to read existing index, starting empty",
				"path", s.IndexPath(), "error", err)
		}
		return nil
	}

	if err := validateIndex(data); err != nil {
		s.log.Warn("existing index is malformed, starting empty",
			"path", s.IndexPath(), "error", err)
		return nil
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		s.log.Warn("failed to decode existing index, starting empty",
			"path", s.IndexPath(), "error", err)
		return nil
	}
	return entries
}

// Merge appends fresh entries to existing ones, skipping any whose
// (filename, bookmark) pair is already present. Existing entries are never
// modified or reordered.
func Merge(existing, fresh []Entry) []Entry {
	seen := make(map[string]struct{}, len(existing))
	merged := append([]Entry(nil), existing...)
	for _, e := range existing {
		seen[e.key()] = struct{}{}
	}
	for _, e := range fresh {
		if _, dup := seen[e.key()]; dup {
			continue
		}
		seen[e.key()] = struct{}{}
		merged = append(merged, e)
	}
	return merged
}

// Save persists the structured index and the text rendering. Each file is
// written to a temporary sibling and renamed into place, so a crash mid-write
// leaves the previous good version intact.
func (s *Store) Save(entries []Entry) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode index: %w", err)
	}
	if err := writeAtomic(s.IndexPath(), data); err != nil {
		return fmt.Errorf("failed to write index: %w", err)
	}

	if err := writeAtomic(s.SummaryPath(), []byte(Render(entries))); err != nil {
		return fmt.Errorf("failed to write summary text: %w", err)
	}

	s.log.Debug("index saved", "path", s.IndexPath(), "entries", len(entries))
	return nil
}

// Render produces the flat text form: a title line, a "- " summary line and
// a blank separator per entry.
func Render(entries []Entry) string {
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(e.Bookmark)
		b.WriteString("\n- ")
		b.WriteString(e.Summary)
		b.WriteString("\n\n")
	}
	return b.String()
}

func validateIndex(data []byte) error {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("index.json", strings.NewReader(entrySchema)); err != nil {
		return fmt.Errorf("failed to load index schema: %w", err)
	}
	schema, err := compiler.Compile("index.json")
	if err != nil {
		return fmt.Errorf("failed to compile index schema: %w", err)
	}

	var doc any
	if err := json.Unmarshal(bytes.TrimSpace(data), &doc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("index does not match schema: %w", err)
	}
	return nil
}

func writeAtomic(path string, data []byte) error {
	tmp := fmt.Sprintf("%s.%s.tmp", path, uuid.NewString()[:8])
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
