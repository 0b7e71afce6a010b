// Package assemble builds the combined output PDF with per-source bookmarks.
package assemble

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
)

// source is one document admitted to the combined output.
type source struct {
	path      string
	title     string
	startPage int
	pageCount int
}

// Assembler accumulates sources in discovery order and tracks the running
// page offset at which each begins. It is an explicit accumulator, created
// per run; it is not safe for concurrent use.
type Assembler struct {
	offset  int
	sources []source
	log     *slog.Logger
}

// New creates an empty Assembler.
func New(log *slog.Logger) *Assembler {
	if log == nil {
		log = slog.Default()
	}
	return &Assembler{log: log}
}

// Add records a source and returns the 1-based page in the combined output
// where it begins. A zero-page source advances no offset and contributes no
// physical pages, but its start page still reflects the running total.
func (a *Assembler) Add(path, bookmarkTitle string, pageCount int) (startPage int) {
	startPage = a.offset + 1
	if pageCount > 0 {
		a.sources = append(a.sources, source{
			path:      path,
			title:     bookmarkTitle,
			startPage: startPage,
			pageCount: pageCount,
		})
		a.offset += pageCount
	}
	return startPage
}

// PageCount returns the total pages accumulated so far.
func (a *Assembler) PageCount() int { return a.offset }

// Write merges all accumulated sources into outPath and sets one bookmark
// per source at its first page. The write is all-or-nothing: everything
// happens in temporary files beside the target, which is only replaced by a
// final rename. A failure here is fatal for the run.
func (a *Assembler) Write(outPath string) error {
	if len(a.sources) == 0 {
		return fmt.Errorf("no readable pages to merge")
	}

	if dir := filepath.Dir(outPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	suffix := uuid.NewString()[:8]
	merged := fmt.Sprintf("%s.%s.merge.tmp", outPath, suffix)
	marked := fmt.Sprintf("%s.%s.marked.tmp", outPath, suffix)
	defer os.Remove(merged)
	defer os.Remove(marked)

	paths := make([]string, len(a.sources))
	for i, src := range a.sources {
		paths[i] = src.path
	}
	if err := api.MergeCreateFile(paths, merged, false, nil); err != nil {
		return fmt.Errorf("failed to merge %d sources: %w", len(paths), err)
	}

	bookmarks := make([]pdfcpu.Bookmark, len(a.sources))
	for i, src := range a.sources {
		bookmarks[i] = pdfcpu.Bookmark{
			Title:    src.title,
			PageFrom: src.startPage,
			PageThru: src.startPage + src.pageCount - 1,
		}
	}
	if err := api.AddBookmarksFile(merged, marked, bookmarks, true, nil); err != nil {
		return fmt.Errorf("failed to add bookmarks: %w", err)
	}

	if err := os.Rename(marked, outPath); err != nil {
		return fmt.Errorf("failed to move output into place: %w", err)
	}

	a.log.Debug("combined output written", "path", outPath,
		"sources", len(a.sources), "pages", a.offset)
	return nil
}
