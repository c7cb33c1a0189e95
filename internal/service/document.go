// Package service holds the boundary operations: request validation, error
// taxonomy mapping and orchestration across repositories, payload storage
// and the PDF compositor.
package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"parakeet/internal/domain"
	"parakeet/internal/domain/models"
	"parakeet/internal/domain/repositories"
	"parakeet/internal/storage"
)

var unsafeFilenameChars = regexp.MustCompile(`[^\w\-.]`)

// safeFilename derives a stored filename from the client-supplied one:
// a short uuid prefix for uniqueness, the sanitized stem, and a forced
// .pdf extension.
func safeFilename(original string) string {
	ext := filepath.Ext(original)
	if !strings.EqualFold(ext, ".pdf") {
		ext = ".pdf"
	}
	stem := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))
	base := unsafeFilenameChars.ReplaceAllString(stem, "_")
	if len(base) > 80 {
		base = base[:80]
	}
	if base == "" {
		base = "document"
	}
	prefix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return prefix + "_" + base + ext
}

// DocumentService covers upload, metadata, payload serving and PARA links.
type DocumentService struct {
	docs   repositories.DocumentRepository
	links  repositories.LinkRepository
	para   repositories.ParaRepository
	files  *storage.Local
	logger *slog.Logger
}

// NewDocumentService creates a document service.
func NewDocumentService(
	docs repositories.DocumentRepository,
	links repositories.LinkRepository,
	para repositories.ParaRepository,
	files *storage.Local,
	logger *slog.Logger,
) *DocumentService {
	return &DocumentService{docs: docs, links: links, para: para, files: files, logger: logger}
}

// Upload stores a new PDF payload and registers the document.
func (s *DocumentService) Upload(ctx context.Context, originalName string, content io.Reader) (*models.Document, error) {
	if originalName == "" || !strings.HasSuffix(strings.ToLower(originalName), ".pdf") {
		return nil, &domain.ValidationError{Message: "only PDF files are allowed"}
	}

	storedName := safeFilename(originalName)
	n, err := s.files.Save(storedName, content)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		s.files.Remove(storedName)
		return nil, &domain.ValidationError{Message: "empty file"}
	}

	doc, err := s.docs.Create(ctx, originalName, storedName)
	if err != nil {
		s.files.Remove(storedName)
		return nil, err
	}
	return doc, nil
}

// List returns all documents, or only those linked to the given PARA item
// when both filter values are present.
func (s *DocumentService) List(ctx context.Context, linkedType *string, linkedID *int) ([]models.Document, error) {
	if linkedType != nil && linkedID != nil {
		return s.docs.ListByLink(ctx, *linkedType, *linkedID)
	}
	return s.docs.ListAll(ctx)
}

// Get returns a document's metadata together with its resolved links.
func (s *DocumentService) Get(ctx context.Context, id int) (*models.Document, []models.LinkedItem, error) {
	doc, err := s.docs.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if doc == nil {
		return nil, nil, &domain.NotFoundError{Message: "document not found"}
	}
	linked, err := s.linkedItems(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return doc, linked, nil
}

// linkedItems resolves a document's links to {type, id, title} descriptors,
// dropping links whose target no longer exists.
func (s *DocumentService) linkedItems(ctx context.Context, docID int) ([]models.LinkedItem, error) {
	links, err := s.links.ListForDocument(ctx, docID)
	if err != nil {
		return nil, err
	}

	items := []models.LinkedItem{}
	for _, lnk := range links {
		title, ok, err := s.titleFor(ctx, lnk.LinkedType, lnk.LinkedID)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		items = append(items, models.LinkedItem{
			LinkedType: lnk.LinkedType,
			LinkedID:   lnk.LinkedID,
			Title:      title,
		})
	}
	return items, nil
}

func (s *DocumentService) titleFor(ctx context.Context, kind string, id int) (string, bool, error) {
	switch kind {
	case models.LinkedTypeProject:
		projects, err := s.para.ListProjects(ctx)
		if err != nil {
			return "", false, err
		}
		for _, p := range projects {
			if p.ID == id {
				return p.Title, true, nil
			}
		}
	case models.LinkedTypeArea:
		areas, err := s.para.ListAreas(ctx)
		if err != nil {
			return "", false, err
		}
		for _, a := range areas {
			if a.ID == id {
				return a.Title, true, nil
			}
		}
	case models.LinkedTypeTask:
		task, err := s.para.GetTask(ctx, id)
		if err != nil {
			return "", false, err
		}
		if task != nil {
			return task.Title, true, nil
		}
	}
	return "", false, nil
}

// FilePath resolves a document's active payload to an on-disk path plus the
// download filename to present.
func (s *DocumentService) FilePath(ctx context.Context, id int) (string, string, error) {
	doc, err := s.docs.Get(ctx, id)
	if err != nil {
		return "", "", err
	}
	if doc == nil {
		return "", "", &domain.NotFoundError{Message: "document not found"}
	}
	path, err := s.files.Path(doc.Filename)
	if err != nil {
		return "", "", err
	}
	name := doc.OriginalName
	if name == "" {
		name = doc.Filename
	}
	if name == "" {
		name = "document.pdf"
	}
	return path, name, nil
}

// Replace overwrites the active payload in place with new PDF bytes. The
// document record, its links and markups are untouched.
func (s *DocumentService) Replace(ctx context.Context, id int, content []byte) (*models.Document, error) {
	if !bytes.HasPrefix(content, []byte("%PDF")) {
		return nil, &domain.ValidationError{Message: "invalid or empty PDF content"}
	}
	doc, err := s.docs.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, &domain.NotFoundError{Message: "document not found"}
	}
	if err := s.files.Replace(doc.Filename, bytes.NewReader(content)); err != nil {
		return nil, err
	}
	s.logger.Info("document file replaced", "id", id, "bytes", len(content))
	return doc, nil
}

// Delete removes the document record with its links and markups, then the
// active payload file. Prior version files stay on disk.
func (s *DocumentService) Delete(ctx context.Context, id int) error {
	doc, err := s.docs.Get(ctx, id)
	if err != nil {
		return err
	}
	if doc == nil {
		return &domain.NotFoundError{Message: "document not found"}
	}

	found, err := s.docs.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return &domain.NotFoundError{Message: "document not found"}
	}
	if err := s.files.Remove(doc.Filename); err != nil {
		s.logger.Warn("payload removal failed", "id", id, "filename", doc.Filename, "error", err)
	}
	return nil
}

// AddLink attaches a document to a PARA item.
func (s *DocumentService) AddLink(ctx context.Context, docID int, linkedType string, linkedID int) error {
	ok, err := s.links.Add(ctx, docID, linkedType, linkedID)
	if err != nil {
		return err
	}
	if !ok {
		return &domain.ValidationError{Message: "invalid link or document/PARA item not found"}
	}
	return nil
}

// RemoveLink detaches a document from a PARA item. Removing an absent link
// is not an error.
func (s *DocumentService) RemoveLink(ctx context.Context, docID int, linkedType string, linkedID int) error {
	_, err := s.links.Remove(ctx, docID, linkedType, linkedID)
	return err
}

// DocumentsFor lists documents linked to one PARA item.
func (s *DocumentService) DocumentsFor(ctx context.Context, linkedType string, linkedID int) ([]models.Document, error) {
	if !models.ValidLinkedType(linkedType) {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("linked_type must be task, project, or area, got %q", linkedType)}
	}
	return s.docs.ListByLink(ctx, linkedType, linkedID)
}
