package service

import (
	"bytes"
	"context"
	"io"
	"log/slog"

	"parakeet/internal/domain"
	"parakeet/internal/domain/models"
	"parakeet/internal/domain/repositories"
	"parakeet/internal/pdf"
	"parakeet/internal/storage"
)

// PDFService renders markup sets into PDFs: exports for preview and baked
// new versions for persistence.
type PDFService struct {
	compositor *pdf.Compositor
	markups    repositories.MarkupRepository
	docs       repositories.DocumentRepository
	files      *storage.Local
	logger     *slog.Logger
}

// NewPDFService creates a PDF service.
func NewPDFService(
	compositor *pdf.Compositor,
	markups repositories.MarkupRepository,
	docs repositories.DocumentRepository,
	files *storage.Local,
	logger *slog.Logger,
) *PDFService {
	return &PDFService{compositor: compositor, markups: markups, docs: docs, files: files, logger: logger}
}

// ExportWithMarkups returns the document's active payload with the context's
// current markups appended as annotations, plus the download filename.
// Nothing is persisted.
func (s *PDFService) ExportWithMarkups(ctx context.Context, docID int, linkedType *string, linkedID *int) ([]byte, string, error) {
	doc, err := s.validated(ctx, docID, linkedType, linkedID)
	if err != nil {
		return nil, "", err
	}
	src, err := s.readPayload(doc.Filename)
	if err != nil {
		return nil, "", err
	}
	markups, err := s.markups.Get(ctx, docID, linkedType, linkedID)
	if err != nil {
		return nil, "", err
	}

	out, err := s.compositor.WithMarkups(bytes.NewReader(src), markups)
	if err != nil {
		return nil, "", err
	}
	name := doc.OriginalName
	if name == "" {
		name = "document.pdf"
	}
	return out, name, nil
}

// SaveAsNewVersion bakes the context's current markups into a fresh payload
// file (existing annotations stripped first) and points the document at it.
// The previous filename joins the document's version chain; its file stays
// on disk.
func (s *PDFService) SaveAsNewVersion(ctx context.Context, docID int, linkedType *string, linkedID *int) (string, error) {
	doc, err := s.validated(ctx, docID, linkedType, linkedID)
	if err != nil {
		return "", err
	}
	src, err := s.readPayload(doc.Filename)
	if err != nil {
		return "", err
	}
	markups, err := s.markups.Get(ctx, docID, linkedType, linkedID)
	if err != nil {
		return "", err
	}

	baked, err := s.compositor.WithMarkupsForSave(bytes.NewReader(src), markups)
	if err != nil {
		return "", err
	}

	newName := safeFilename(doc.OriginalName)
	if _, err := s.files.Save(newName, bytes.NewReader(baked)); err != nil {
		return "", err
	}
	if err := s.docs.RecordNewVersion(ctx, docID, newName); err != nil {
		s.files.Remove(newName)
		return "", err
	}

	s.logger.Info("document version saved", "id", docID, "filename", newName, "markups", len(markups))
	return newName, nil
}

func (s *PDFService) validated(ctx context.Context, docID int, linkedType *string, linkedID *int) (*models.Document, error) {
	valid, err := s.markups.ValidateContext(ctx, docID, linkedType, linkedID)
	if err != nil {
		return nil, err
	}
	doc, err := s.docs.Get(ctx, docID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, &domain.NotFoundError{Message: "document not found"}
	}
	if !valid {
		return nil, &domain.InvalidContextError{Message: "invalid markup context"}
	}
	return doc, nil
}

func (s *PDFService) readPayload(name string) ([]byte, error) {
	rc, err := s.files.Open(name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
