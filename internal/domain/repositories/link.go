package repositories

import (
	"context"

	"parakeet/internal/domain/models"
)

// LinkRepository defines the many-to-many association between documents and
// PARA items. Links are validated against the live PARA collections on add.
type LinkRepository interface {
	// Add links a document to a PARA item. Reports false when the kind is
	// unrecognized, the document does not exist, or the PARA item does not
	// exist. Re-adding an existing link is a no-op success.
	Add(ctx context.Context, docID int, linkedType string, linkedID int) (bool, error)

	// Remove reports true iff a matching link existed and was removed.
	Remove(ctx context.Context, docID int, linkedType string, linkedID int) (bool, error)

	// IsLinked reports whether the exact link exists.
	IsLinked(ctx context.Context, docID int, linkedType string, linkedID int) (bool, error)

	// DocIDsFor returns the ids of documents linked to a PARA item.
	DocIDsFor(ctx context.Context, linkedType string, linkedID int) (map[int]struct{}, error)

	// ListForDocument returns all links of a document.
	ListForDocument(ctx context.Context, docID int) ([]models.DocumentLink, error)
}
