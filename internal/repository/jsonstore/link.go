package jsonstore

import (
	"context"
	"errors"
	"log/slog"

	"parakeet/internal/domain/models"
	"parakeet/internal/store"
)

// LinkRepository stores document-PARA links in the shared blob.
type LinkRepository struct {
	store  store.Store
	logger *slog.Logger
}

// NewLinkRepository creates a link repository over the given store.
func NewLinkRepository(s store.Store, logger *slog.Logger) *LinkRepository {
	return &LinkRepository{store: s, logger: logger}
}

// Add validates the kind, the document and the referenced PARA item against
// the current data, then inserts the link. Re-adding is a no-op success.
func (r *LinkRepository) Add(ctx context.Context, docID int, linkedType string, linkedID int) (bool, error) {
	if !models.ValidLinkedType(linkedType) {
		return false, nil
	}

	ok := false
	err := r.store.Update(ctx, func(d *store.Data) error {
		if findDocument(d, docID) == nil {
			return errNoChange
		}
		if !paraExists(d, linkedType, linkedID) {
			return errNoChange
		}
		ok = true
		if linkExists(d, docID, linkedType, linkedID) {
			return errNoChange // already linked
		}
		d.DocumentLinks = append(d.DocumentLinks, models.DocumentLink{
			DocumentID: docID,
			LinkedType: linkedType,
			LinkedID:   linkedID,
		})
		return nil
	})
	if err != nil && !errors.Is(err, errNoChange) {
		return false, err
	}

	if ok {
		r.logger.Debug("document linked", "document_id", docID, "linked_type", linkedType, "linked_id", linkedID)
	}
	return ok, nil
}

func (r *LinkRepository) Remove(ctx context.Context, docID int, linkedType string, linkedID int) (bool, error) {
	removed := false
	err := r.store.Update(ctx, func(d *store.Data) error {
		links := d.DocumentLinks[:0]
		for _, lnk := range d.DocumentLinks {
			if lnk.DocumentID == docID && lnk.LinkedType == linkedType && lnk.LinkedID == linkedID {
				removed = true
				continue
			}
			links = append(links, lnk)
		}
		if !removed {
			return errNoChange
		}
		d.DocumentLinks = links
		return nil
	})
	if err != nil && !errors.Is(err, errNoChange) {
		return false, err
	}
	return removed, nil
}

func (r *LinkRepository) IsLinked(ctx context.Context, docID int, linkedType string, linkedID int) (bool, error) {
	linked := false
	err := r.store.View(ctx, func(d *store.Data) error {
		linked = linkExists(d, docID, linkedType, linkedID)
		return nil
	})
	if err != nil {
		return false, err
	}
	return linked, nil
}

func (r *LinkRepository) DocIDsFor(ctx context.Context, linkedType string, linkedID int) (map[int]struct{}, error) {
	ids := map[int]struct{}{}
	err := r.store.View(ctx, func(d *store.Data) error {
		for _, lnk := range d.DocumentLinks {
			if lnk.LinkedType == linkedType && lnk.LinkedID == linkedID {
				ids[lnk.DocumentID] = struct{}{}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *LinkRepository) ListForDocument(ctx context.Context, docID int) ([]models.DocumentLink, error) {
	links := []models.DocumentLink{}
	err := r.store.View(ctx, func(d *store.Data) error {
		for _, lnk := range d.DocumentLinks {
			if lnk.DocumentID == docID {
				links = append(links, lnk)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return links, nil
}
