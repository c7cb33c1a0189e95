package repositories

import (
	"context"

	"parakeet/internal/domain/models"
)

// MarkupRepository holds, per (document, context) pair, the current markup
// set plus a bounded history of prior sets. The context is addressed by an
// optional linkedType/linkedID pair; both nil selects the document-level
// context. Distinct contexts on the same document are fully independent.
type MarkupRepository interface {
	// ValidateContext reports whether the document exists and linkedType /
	// linkedID form a valid context: both present (naming a current link of
	// a recognized kind) or both absent.
	ValidateContext(ctx context.Context, docID int, linkedType *string, linkedID *int) (bool, error)

	// Get returns the current markup set for the context. Returns an empty
	// set, never an error, when no record exists or the document is unknown.
	Get(ctx context.Context, docID int, linkedType *string, linkedID *int) ([]models.Markup, error)

	// Save replaces the current markup set for the context, appends a new
	// version with the next per-context version number, and purges versions
	// outside the retention window. All three steps happen in one atomic
	// read-modify-write of the store. Reports false without mutation when
	// the context is invalid.
	Save(ctx context.Context, docID int, markups []models.Markup, linkedType *string, linkedID *int) (bool, error)

	// History lists retained versions newest first; empty when the context
	// is invalid or no versions exist.
	History(ctx context.Context, docID int, linkedType *string, linkedID *int) ([]models.VersionInfo, error)

	// Restore re-saves the markup snapshot of the given version, producing a
	// new version entry. Reports false when the context is invalid or the
	// version is not retained.
	Restore(ctx context.Context, docID int, version int, linkedType *string, linkedID *int) (bool, error)
}
