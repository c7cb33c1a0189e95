// Package store provides the whole-blob persistence layer shared by every
// repository. A Store holds one Data value covering all collections; reads
// and writes always cover the entire blob, serialized by a store-wide lock.
// The granularity is deliberate: at personal-app scale, whole-store
// serialization is simpler than per-collection locking and makes multi-
// collection mutations (cascading deletes, save+version+purge) atomic for
// free.
package store

import (
	"context"

	"parakeet/internal/domain/models"
)

// Data is the full persisted state. Field tags match the on-disk JSON
// layout; stores written by older builds load unchanged.
type Data struct {
	Projects  []models.Project      `json:"projects"`
	Areas     []models.Area         `json:"areas"`
	Resources []models.Resource     `json:"resources"`
	Archives  []models.ArchiveEntry `json:"archives"`
	Tasks     []models.Task         `json:"tasks"`

	Documents              []models.Document      `json:"documents"`
	DocumentLinks          []models.DocumentLink  `json:"document_links"`
	DocumentMarkups        []models.MarkupRecord  `json:"document_markups"`
	DocumentMarkupVersions []models.MarkupVersion `json:"document_markup_versions"`
}

// Store is the atomic load/modify/save boundary. Implementations guarantee
// that Update callbacks observe the latest persisted state and that their
// mutations become visible all-or-nothing.
type Store interface {
	// View runs fn with a read-only snapshot of the data. Mutations made by
	// fn are discarded.
	View(ctx context.Context, fn func(*Data) error) error

	// Update runs fn with the current data under the exclusive store lock
	// and persists the result atomically. If fn returns an error nothing is
	// written.
	Update(ctx context.Context, fn func(*Data) error) error
}

// NextID returns the next monotonic id for a collection: max(id)+1,
// starting at 1 for empty collections.
func NextID[T any](items []T, id func(T) int) int {
	next := 1
	for _, it := range items {
		if v := id(it); v >= next {
			next = v + 1
		}
	}
	return next
}
