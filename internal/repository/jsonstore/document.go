package jsonstore

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"parakeet/internal/domain/models"
	"parakeet/internal/store"
)

// DocumentRepository stores document metadata in the shared blob.
type DocumentRepository struct {
	store  store.Store
	logger *slog.Logger
}

// NewDocumentRepository creates a document repository over the given store.
func NewDocumentRepository(s store.Store, logger *slog.Logger) *DocumentRepository {
	return &DocumentRepository{store: s, logger: logger}
}

func (r *DocumentRepository) Create(ctx context.Context, originalName, storedName string) (*models.Document, error) {
	var doc models.Document
	err := r.store.Update(ctx, func(d *store.Data) error {
		doc = models.Document{
			ID:           store.NextID(d.Documents, func(dc models.Document) int { return dc.ID }),
			Filename:     storedName,
			OriginalName: originalName,
			UploadedAt:   time.Now().UTC(),
		}
		d.Documents = append(d.Documents, doc)
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("document created", "id", doc.ID, "filename", doc.Filename, "original_name", doc.OriginalName)
	return &doc, nil
}

func (r *DocumentRepository) Get(ctx context.Context, id int) (*models.Document, error) {
	var doc *models.Document
	err := r.store.View(ctx, func(d *store.Data) error {
		if found := findDocument(d, id); found != nil {
			cp := *found
			doc = &cp
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *DocumentRepository) ListAll(ctx context.Context) ([]models.Document, error) {
	docs := []models.Document{}
	err := r.store.View(ctx, func(d *store.Data) error {
		docs = append(docs, d.Documents...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *DocumentRepository) ListByLink(ctx context.Context, linkedType string, linkedID int) ([]models.Document, error) {
	docs := []models.Document{}
	err := r.store.View(ctx, func(d *store.Data) error {
		ids := map[int]struct{}{}
		for _, lnk := range d.DocumentLinks {
			if lnk.LinkedType == linkedType && lnk.LinkedID == linkedID {
				ids[lnk.DocumentID] = struct{}{}
			}
		}
		for _, doc := range d.Documents {
			if _, ok := ids[doc.ID]; ok {
				docs = append(docs, doc)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// RecordNewVersion appends the active filename to the version chain and
// switches the document to storedName. Unknown ids are a silent no-op.
func (r *DocumentRepository) RecordNewVersion(ctx context.Context, id int, storedName string) error {
	err := r.store.Update(ctx, func(d *store.Data) error {
		doc := findDocument(d, id)
		if doc == nil {
			return errNoChange
		}
		doc.Versions = append(doc.Versions, doc.Filename)
		doc.Filename = storedName
		return nil
	})
	if errors.Is(err, errNoChange) {
		return nil
	}
	return err
}

// Delete removes the document and every link, markup record and markup
// version that references it, in one atomic update.
func (r *DocumentRepository) Delete(ctx context.Context, id int) (bool, error) {
	found := false
	err := r.store.Update(ctx, func(d *store.Data) error {
		if findDocument(d, id) == nil {
			return errNoChange
		}
		found = true

		docs := d.Documents[:0]
		for _, doc := range d.Documents {
			if doc.ID != id {
				docs = append(docs, doc)
			}
		}
		d.Documents = docs

		links := d.DocumentLinks[:0]
		for _, lnk := range d.DocumentLinks {
			if lnk.DocumentID != id {
				links = append(links, lnk)
			}
		}
		d.DocumentLinks = links

		records := d.DocumentMarkups[:0]
		for _, rec := range d.DocumentMarkups {
			if rec.DocumentID != id {
				records = append(records, rec)
			}
		}
		d.DocumentMarkups = records

		versions := d.DocumentMarkupVersions[:0]
		for _, v := range d.DocumentMarkupVersions {
			if v.DocumentID != id {
				versions = append(versions, v)
			}
		}
		d.DocumentMarkupVersions = versions
		return nil
	})
	if err != nil && !errors.Is(err, errNoChange) {
		return false, err
	}

	if found {
		r.logger.Info("document deleted", "id", id)
	}
	return found, nil
}
