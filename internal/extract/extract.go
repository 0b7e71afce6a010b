// Package extract reads page counts, metadata and plain text from source PDFs.
package extract

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// DefaultTimeout bounds how long a single document may take to read.
const DefaultTimeout = 2 * time.Minute

var whitespace = regexp.MustCompile(`\s+`)

// Document is one source PDF and what could be read from it. A document
// whose structural read failed has PageCount 0 and empty Text; the pipeline
// records it and moves on.
type Document struct {
	Path          string
	Filename      string
	DeclaredTitle string
	PageCount     int
	Protected     bool
	Text          string
}

// Extractor reads source documents. The zero value is not usable; call New.
type Extractor struct {
	timeout time.Duration
	log     *slog.Logger
}

// New creates an Extractor. A zero timeout uses DefaultTimeout.
func New(log *slog.Logger, timeout time.Duration) *Extractor {
	if log == nil {
		log = slog.Default()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Extractor{timeout: timeout, log: log}
}

// Extract reads the document at path. The returned error is recoverable:
// the caller logs it and continues with the zero-page Document that
// accompanies it. Only context cancellation of the whole run should stop
// processing.
func (e *Extractor) Extract(ctx context.Context, path string) (Document, error) {
	doc := Document{
		Path:     path,
		Filename: filepath.Base(path),
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	pdfCtx, err := e.readStructure(ctx, path)
	if err != nil {
		doc.Protected = isEncryptionErr(err)
		return doc, fmt.Errorf("failed to read %s: %w", doc.Filename, err)
	}

	doc.PageCount = pdfCtx.PageCount
	doc.Protected = pdfCtx.Encrypt != nil

	title, text, err := extractText(path)
	if err != nil {
		// Structure was readable, so keep the page count; the document
		// simply contributes no summary text.
		e.log.Debug("text extraction failed", "file", doc.Filename, "error", err)
		return doc, nil
	}
	doc.DeclaredTitle = title
	doc.Text = normalize(text)

	return doc, nil
}

// readStructure opens the document with pdfcpu, which attempts an
// empty-password decryption on protected files by default. The parse does
// not observe the context itself, so it runs in a goroutine and the result
// is abandoned on timeout. Transient read failures get one bounded retry.
func (e *Extractor) readStructure(ctx context.Context, path string) (*model.Context, error) {
	var pdfCtx *model.Context

	err := retry.Do(
		func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			type result struct {
				ctx *model.Context
				err error
			}
			done := make(chan result, 1)
			go func() {
				c, err := api.ReadContextFile(path)
				done <- result{c, err}
			}()
			select {
			case r := <-done:
				pdfCtx = r.ctx
				return r.err
			case <-ctx.Done():
				return ctx.Err()
			}
		},
		retry.Attempts(2),
		retry.Delay(100*time.Millisecond),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.RetryIf(shouldRetry),
	)
	if err != nil {
		return nil, err
	}
	return pdfCtx, nil
}

// extractText reads the declared title and per-page plain text. Pages are
// joined with a form feed, mirroring how the text later splits per page.
func extractText(path string) (title, text string, err error) {
	// ledongthuc/pdf panics on some malformed content streams.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf text extraction panicked: %v", r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", "", err
	}
	defer f.Close()

	if info := reader.Trailer().Key("Info"); !info.IsNull() {
		// Text decodes UTF-16 and PDFDocEncoding text strings.
		if t := info.Key("Title"); t.Kind() == pdf.String {
			title = strings.TrimSpace(t.Text())
		}
	}

	var buf strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteString("\f")
		}
		buf.WriteString(pageText)
	}

	return title, buf.String(), nil
}

// normalize collapses all whitespace runs, including page breaks and
// newlines, into single spaces.
func normalize(text string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
}

// shouldRetry decides whether a failed structural read gets a second
// attempt. Missing files, cancellation and wrong passwords are
// deterministic and will not improve. pdfcpu exports no typed error for
// corrupt content, so other failures cannot be told apart from transient
// I/O and get the one bounded retry.
func shouldRetry(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.Is(err, fs.ErrNotExist):
		return false
	case isEncryptionErr(err):
		// A wrong password will still be wrong on the next attempt.
		return false
	}
	return true
}

// isEncryptionErr reports whether err looks like a failed decryption.
// pdfcpu has no exported sentinel for this.
func isEncryptionErr(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "password") || strings.Contains(msg, "encrypt")
}
