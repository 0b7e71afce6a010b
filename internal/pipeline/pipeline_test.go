package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/minsukang/bindery/internal/config"
	"github.com/minsukang/bindery/internal/index"
	"github.com/minsukang/bindery/internal/locate"
	"github.com/minsukang/bindery/internal/testutil"
)

func testConfig(input, output string) *config.Config {
	return &config.Config{
		Input:         input,
		Output:        output,
		Sentences:     config.DefaultSentences,
		SummaryLength: config.DefaultSummaryLength,
		MaxChars:      config.DefaultMaxChars,
	}
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	t.Run("end to end with one unreadable source", func(t *testing.T) {
		inputDir := t.TempDir()
		outDir := t.TempDir()
		testutil.WritePDF(t, filepath.Join(inputDir, "report1.pdf"), "", "Alpha. Beta. Gamma.", 2)
		testutil.WriteProtectedPDF(t, filepath.Join(inputDir, "report2.pdf"), "Hidden.", 1)

		cfg := testConfig(inputDir, filepath.Join(outDir, "merged.pdf"))
		report, err := Run(ctx, cfg, nil)
		if err != nil {
			t.Fatalf("run failed: %v", err)
		}

		if report.Found != 2 || report.Processed != 1 || report.Skipped != 1 {
			t.Errorf("unexpected counts: %+v", report)
		}

		pages, err := api.PageCountFile(cfg.Output)
		if err != nil {
			t.Fatalf("combined output unreadable: %v", err)
		}
		if pages != 2 {
			t.Errorf("expected 2 pages in combined output, got %d", pages)
		}

		store := index.NewStore(cfg.Output, nil)
		entries := store.Load()
		if len(entries) != 2 {
			t.Fatalf("expected 2 index entries, got %d", len(entries))
		}

		first, second := entries[0], entries[1]
		if first.Bookmark != "report1" || first.PageNumber != 1 || first.PageCount != 2 {
			t.Errorf("unexpected first entry: %+v", first)
		}
		if first.Summary == "" {
			t.Error("expected non-empty summary for readable source")
		}
		if second.Bookmark != "report2" || second.PageNumber != 3 || second.PageCount != 0 {
			t.Errorf("unexpected second entry: %+v", second)
		}
		if second.Summary != "" {
			t.Errorf("expected empty summary for unreadable source, got %q", second.Summary)
		}
		if first.Filename != "merged.pdf" || second.Filename != "merged.pdf" {
			t.Errorf("expected entries keyed to output filename, got %q / %q",
				first.Filename, second.Filename)
		}

		summary, err := os.ReadFile(store.SummaryPath())
		if err != nil {
			t.Fatalf("summary text missing: %v", err)
		}
		if len(summary) == 0 {
			t.Error("expected non-empty summary text")
		}
	})

	// Rerunning against the same output must not duplicate index entries.
	// Dedup is keyed on the (output filename, bookmark) pair; this pins
	// that design choice.
	t.Run("rerun does not duplicate entries", func(t *testing.T) {
		inputDir := t.TempDir()
		outDir := t.TempDir()
		testutil.WritePDF(t, filepath.Join(inputDir, "doc.pdf"), "", "One. Two. Three.", 1)

		cfg := testConfig(inputDir, filepath.Join(outDir, "merged.pdf"))
		if _, err := Run(ctx, cfg, nil); err != nil {
			t.Fatalf("first run failed: %v", err)
		}
		report, err := Run(ctx, cfg, nil)
		if err != nil {
			t.Fatalf("second run failed: %v", err)
		}
		if report.IndexEntries != 1 {
			t.Errorf("expected 1 index entry after rerun, got %d", report.IndexEntries)
		}
	})

	t.Run("natural discovery order drives page offsets", func(t *testing.T) {
		inputDir := t.TempDir()
		outDir := t.TempDir()
		testutil.WritePDF(t, filepath.Join(inputDir, "part10.pdf"), "", "Last part.", 1)
		testutil.WritePDF(t, filepath.Join(inputDir, "part2.pdf"), "", "First part.", 2)

		cfg := testConfig(inputDir, filepath.Join(outDir, "merged.pdf"))
		if _, err := Run(ctx, cfg, nil); err != nil {
			t.Fatalf("run failed: %v", err)
		}

		entries := index.NewStore(cfg.Output, nil).Load()
		if len(entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(entries))
		}
		if entries[0].Bookmark != "part2" || entries[0].PageNumber != 1 {
			t.Errorf("unexpected first entry: %+v", entries[0])
		}
		if entries[1].Bookmark != "part10" || entries[1].PageNumber != 3 {
			t.Errorf("unexpected second entry: %+v", entries[1])
		}
	})

	t.Run("declared title beats filename", func(t *testing.T) {
		inputDir := t.TempDir()
		outDir := t.TempDir()
		testutil.WritePDF(t, filepath.Join(inputDir, "raw_name.pdf"), "Proper Title", "Some text.", 1)

		cfg := testConfig(inputDir, filepath.Join(outDir, "merged.pdf"))
		if _, err := Run(ctx, cfg, nil); err != nil {
			t.Fatalf("run failed: %v", err)
		}

		entries := index.NewStore(cfg.Output, nil).Load()
		if len(entries) != 1 || entries[0].Bookmark != "Proper Title" {
			t.Errorf("expected declared title bookmark, got %+v", entries)
		}
	})

	t.Run("empty input directory is nothing to do", func(t *testing.T) {
		outDir := t.TempDir()
		cfg := testConfig(t.TempDir(), filepath.Join(outDir, "merged.pdf"))

		report, err := Run(ctx, cfg, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.Found != 0 {
			t.Errorf("expected 0 found, got %d", report.Found)
		}
		if _, err := os.Stat(cfg.Output); !os.IsNotExist(err) {
			t.Error("expected no combined output for an empty run")
		}
	})

	t.Run("missing input directory is fatal", func(t *testing.T) {
		cfg := testConfig(filepath.Join(t.TempDir(), "absent"), "merged.pdf")
		if _, err := Run(ctx, cfg, nil); err == nil {
			t.Fatal("expected a fatal error")
		} else if !errors.Is(err, locate.ErrNotDirectory) {
			t.Errorf("expected ErrNotDirectory, got %v", err)
		}
	})

	t.Run("all sources unreadable still writes the index", func(t *testing.T) {
		inputDir := t.TempDir()
		outDir := t.TempDir()
		testutil.WriteProtectedPDF(t, filepath.Join(inputDir, "locked.pdf"), "Hidden.", 1)

		cfg := testConfig(inputDir, filepath.Join(outDir, "merged.pdf"))
		report, err := Run(ctx, cfg, nil)
		if err != nil {
			t.Fatalf("run failed: %v", err)
		}
		if report.Skipped != 1 || report.Pages != 0 {
			t.Errorf("unexpected report: %+v", report)
		}
		if _, err := os.Stat(cfg.Output); !os.IsNotExist(err) {
			t.Error("expected no combined output without readable pages")
		}
		entries := index.NewStore(cfg.Output, nil).Load()
		if len(entries) != 1 || entries[0].PageCount != 0 {
			t.Errorf("expected one zero-page entry, got %+v", entries)
		}
	})
}
