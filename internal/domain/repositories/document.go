package repositories

import (
	"context"

	"parakeet/internal/domain/models"
)

// DocumentRepository defines metadata storage for uploaded documents.
type DocumentRepository interface {
	// Create assigns the next document id and stores a new record.
	Create(ctx context.Context, originalName, storedName string) (*models.Document, error)

	// Get retrieves a document by id; nil when absent.
	Get(ctx context.Context, id int) (*models.Document, error)

	// ListAll lists every document.
	ListAll(ctx context.Context) ([]models.Document, error)

	// ListByLink lists documents linked to a PARA item.
	ListByLink(ctx context.Context, linkedType string, linkedID int) ([]models.Document, error)

	// RecordNewVersion appends the current stored filename to the version
	// chain and makes storedName the active file. No-op when id is unknown;
	// callers must pre-check existence.
	RecordNewVersion(ctx context.Context, id int, storedName string) error

	// Delete removes the document and cascades removal of its links, markup
	// records and markup versions. Reports whether a document was found.
	Delete(ctx context.Context, id int) (bool, error)
}
