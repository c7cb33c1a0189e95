package service

import (
	"context"
	"fmt"
	"log/slog"

	"parakeet/internal/domain"
	"parakeet/internal/domain/models"
	"parakeet/internal/domain/repositories"
)

// MarkupService validates markup payloads and maps repository results onto
// the error taxonomy.
type MarkupService struct {
	markups repositories.MarkupRepository
	docs    repositories.DocumentRepository
	logger  *slog.Logger
}

// NewMarkupService creates a markup service.
func NewMarkupService(
	markups repositories.MarkupRepository,
	docs repositories.DocumentRepository,
	logger *slog.Logger,
) *MarkupService {
	return &MarkupService{markups: markups, docs: docs, logger: logger}
}

// Get returns the current markup set for a context. Unknown documents and
// absent records read as an empty set.
func (s *MarkupService) Get(ctx context.Context, docID int, linkedType *string, linkedID *int) ([]models.Markup, error) {
	return s.markups.Get(ctx, docID, linkedType, linkedID)
}

// Set validates and saves a markup set. Bounds components are clamped to
// the unit square rather than rejected.
func (s *MarkupService) Set(ctx context.Context, docID int, markups []models.Markup, linkedType *string, linkedID *int) error {
	for i := range markups {
		markups[i].Bounds = markups[i].Bounds.Clamped()
	}
	if err := models.ValidateMarkupSet(markups); err != nil {
		return &domain.ValidationError{Message: err.Error()}
	}

	ok, err := s.markups.Save(ctx, docID, markups, linkedType, linkedID)
	if err != nil {
		return err
	}
	if !ok {
		return s.contextError(ctx, docID)
	}
	return nil
}

// History lists retained versions newest first. Invalid contexts read as an
// empty history.
func (s *MarkupService) History(ctx context.Context, docID int, linkedType *string, linkedID *int) ([]models.VersionInfo, error) {
	return s.markups.History(ctx, docID, linkedType, linkedID)
}

// Restore re-saves the snapshot of a retained version as the current set.
func (s *MarkupService) Restore(ctx context.Context, docID int, version int, linkedType *string, linkedID *int) error {
	ok, err := s.markups.Restore(ctx, docID, version, linkedType, linkedID)
	if err != nil {
		return err
	}
	if !ok {
		valid, err := s.markups.ValidateContext(ctx, docID, linkedType, linkedID)
		if err != nil {
			return err
		}
		if valid {
			return &domain.ValidationError{Message: fmt.Sprintf("version %d not found", version)}
		}
		return s.contextError(ctx, docID)
	}
	return nil
}

// contextError distinguishes an unknown document (not found) from a bad
// linked_type/linked_id pairing (invalid context).
func (s *MarkupService) contextError(ctx context.Context, docID int) error {
	doc, err := s.docs.Get(ctx, docID)
	if err != nil {
		return err
	}
	if doc == nil {
		return &domain.NotFoundError{Message: "document not found"}
	}
	return &domain.InvalidContextError{Message: "invalid markup context"}
}
