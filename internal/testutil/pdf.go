// Package testutil provides PDF fixtures for tests.
package testutil

import (
	"testing"

	"github.com/jung-kurt/gofpdf"
)

// WritePDF creates a PDF fixture at path with the given page count. Every
// page carries the same text. An empty title leaves document metadata unset.
func WritePDF(t *testing.T, path, title, text string, pages int) {
	t.Helper()

	pdf := newDoc(title, text, pages)
	if err := pdf.OutputFileAndClose(path); err != nil {
		t.Fatalf("failed to write fixture PDF %s: %v", path, err)
	}
}

// WriteProtectedPDF creates a password-protected PDF fixture that an
// empty-password decryption attempt cannot open.
func WriteProtectedPDF(t *testing.T, path, text string, pages int) {
	t.Helper()

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetProtection(gofpdf.CnProtectPrint, "secret", "secret")
	addPages(pdf, text, pages)
	if err := pdf.OutputFileAndClose(path); err != nil {
		t.Fatalf("failed to write protected fixture PDF %s: %v", path, err)
	}
}

func newDoc(title, text string, pages int) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	if title != "" {
		pdf.SetTitle(title, true)
	}
	addPages(pdf, text, pages)
	return pdf
}

func addPages(pdf *gofpdf.Fpdf, text string, pages int) {
	for i := 0; i < pages; i++ {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "", 12)
		pdf.MultiCell(190, 8, text, "", "L", false)
	}
}
