package service

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"parakeet/internal/pdf"
	"parakeet/internal/repository/jsonstore"
	"parakeet/internal/storage"
	"parakeet/internal/store"
)

type env struct {
	docs    *DocumentService
	markups *MarkupService
	pdfs    *PDFService
	para    *ParaService
	files   *storage.Local
}

func newEnv(t *testing.T) *env {
	t.Helper()
	dir := t.TempDir()
	s, err := store.NewJSONFile(filepath.Join(dir, "data.json"))
	if err != nil {
		t.Fatalf("NewJSONFile: %v", err)
	}
	files, err := storage.NewLocal(filepath.Join(dir, "uploads"))
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	docRepo := jsonstore.NewDocumentRepository(s, logger)
	linkRepo := jsonstore.NewLinkRepository(s, logger)
	markupRepo := jsonstore.NewMarkupRepository(s, logger)
	paraRepo := jsonstore.NewParaRepository(s, logger)

	return &env{
		docs:    NewDocumentService(docRepo, linkRepo, paraRepo, files, logger),
		markups: NewMarkupService(markupRepo, docRepo, logger),
		pdfs:    NewPDFService(pdf.NewCompositor(logger), markupRepo, docRepo, files, logger),
		para:    NewParaService(paraRepo, logger),
		files:   files,
	}
}

// minimalPDF builds a complete single-page PDF with computed xref offsets.
func minimalPDF() []byte {
	objs := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 /MediaBox [0 0 612 792] >>",
		"<< /Type /Page /Parent 2 0 R /Resources << >> >>",
	}
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, body := range objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objs)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(objs)+1, xref)
	return buf.Bytes()
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
