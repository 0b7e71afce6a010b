// Package pipeline orchestrates one aggregation run: locate, extract,
// summarize, assemble, persist.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/minsukang/bindery/internal/assemble"
	"github.com/minsukang/bindery/internal/config"
	"github.com/minsukang/bindery/internal/extract"
	"github.com/minsukang/bindery/internal/index"
	"github.com/minsukang/bindery/internal/lang"
	"github.com/minsukang/bindery/internal/locate"
	"github.com/minsukang/bindery/internal/sanitize"
	"github.com/minsukang/bindery/internal/summarize"
)

// Report summarizes a completed run for the CLI layer.
type Report struct {
	Found        int    `json:"found" yaml:"found"`
	Processed    int    `json:"processed" yaml:"processed"`
	Skipped      int    `json:"skipped" yaml:"skipped"`
	Pages        int    `json:"pages" yaml:"pages"`
	Output       string `json:"output,omitempty" yaml:"output,omitempty"`
	IndexEntries int    `json:"index_entries" yaml:"index_entries"`
}

// Run executes the whole pipeline for a validated configuration. Documents
// are processed strictly sequentially in discovery order; per-document
// failures are logged and counted, while a returned error is fatal for the
// run. Cancellation is honored between documents, never mid-document.
func Run(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Report, error) {
	if log == nil {
		log = slog.Default()
	}

	paths, err := locate.Find(cfg.Input, cfg.Recursive)
	if err != nil {
		return nil, err
	}
	report := &Report{Found: len(paths)}
	if len(paths) == 0 {
		log.Warn("no PDF files found, nothing to do", "input", cfg.Input)
		return report, nil
	}
	log.Info("starting run", "pdfs", len(paths), "output", cfg.Output)

	detector := lang.NewNoopDetector()
	if cfg.DetectLanguage {
		detector = lang.NewDetector()
	}
	summarizer := summarize.New(detector,
		summarize.WithFallbackLen(cfg.SummaryLength),
		summarize.WithLogger(log),
	)
	extractor := extract.New(log, 0)
	asm := assemble.New(log)
	outputBase := filepath.Base(cfg.Output)

	var entries []index.Entry
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("run canceled before document %d: %w", i+1, err)
		}

		doc, err := extractor.Extract(ctx, path)
		if err != nil {
			log.Warn("skipping unreadable document",
				"file", doc.Filename, "protected", doc.Protected, "error", err)
			report.Skipped++
		} else {
			report.Processed++
		}

		bookmark := sanitize.Title(bookmarkSource(doc), sanitize.DefaultMaxLen)
		summary := summarizer.Summarize(doc.Text, cfg.Sentences, cfg.MaxChars)
		if summary.Truncated {
			log.Debug("summary degraded to truncation", "file", doc.Filename)
		}

		startPage := asm.Add(doc.Path, bookmark, doc.PageCount)
		entries = append(entries, index.Entry{
			Filename:   outputBase,
			Bookmark:   bookmark,
			Summary:    summary.Text,
			PageNumber: startPage,
			PageCount:  doc.PageCount,
		})

		log.Debug("processed document", "file", doc.Filename,
			"pages", doc.PageCount, "start_page", startPage, "part", i+1, "of", len(paths))
	}
	report.Pages = asm.PageCount()

	if report.Pages > 0 {
		if err := asm.Write(cfg.Output); err != nil {
			return nil, fmt.Errorf("failed to write combined output: %w", err)
		}
		report.Output = cfg.Output
		log.Info("combined output written", "path", cfg.Output, "pages", report.Pages)
	} else {
		log.Warn("no readable pages in any source, combined output not written")
	}

	store := index.NewStore(cfg.Output, log)
	merged := index.Merge(store.Load(), entries)
	if err := store.Save(merged); err != nil {
		return nil, err
	}
	report.IndexEntries = len(merged)

	log.Info("run complete",
		"processed", report.Processed, "skipped", report.Skipped, "entries", len(merged))
	return report, nil
}

// bookmarkSource picks the raw bookmark label: the declared metadata title
// when present, the extension-less filename otherwise.
func bookmarkSource(doc extract.Document) string {
	if doc.DeclaredTitle != "" {
		return doc.DeclaredTitle
	}
	return strings.TrimSuffix(doc.Filename, filepath.Ext(doc.Filename))
}
