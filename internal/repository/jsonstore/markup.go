package jsonstore

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"parakeet/internal/domain/models"
	"parakeet/internal/store"
)

// maxMarkupVersions is the per-context retention window. Saving the 21st
// version purges version 1, and so on.
const maxMarkupVersions = 20

// errInvalidContext aborts an Update when the (document, link) context does
// not check out against the current data. Like errNoChange it never escapes
// the repository; it maps to a false result.
var errInvalidContext = errors.New("invalid markup context")

// MarkupRepository stores markup records and their version history in the
// shared blob.
type MarkupRepository struct {
	store  store.Store
	logger *slog.Logger
}

// NewMarkupRepository creates a markup repository over the given store.
func NewMarkupRepository(s store.Store, logger *slog.Logger) *MarkupRepository {
	return &MarkupRepository{store: s, logger: logger}
}

// contextValid checks a (document, context) key against the current data:
// the document must exist and linkedType/linkedID must either both be nil or
// name a current link of a recognized kind.
func contextValid(d *store.Data, docID int, linkedType *string, linkedID *int) bool {
	if findDocument(d, docID) == nil {
		return false
	}
	if linkedType == nil && linkedID == nil {
		return true
	}
	if linkedType == nil || linkedID == nil {
		return false
	}
	if !models.ValidLinkedType(*linkedType) {
		return false
	}
	return linkExists(d, docID, *linkedType, *linkedID)
}

func (r *MarkupRepository) ValidateContext(ctx context.Context, docID int, linkedType *string, linkedID *int) (bool, error) {
	valid := false
	err := r.store.View(ctx, func(d *store.Data) error {
		valid = contextValid(d, docID, linkedType, linkedID)
		return nil
	})
	if err != nil {
		return false, err
	}
	return valid, nil
}

// Get returns the current markup set for the context. A missing record, or a
// document that does not exist at all, reads as an empty set; link validity
// is deliberately not checked here so unlinked contexts still read empty
// rather than failing.
func (r *MarkupRepository) Get(ctx context.Context, docID int, linkedType *string, linkedID *int) ([]models.Markup, error) {
	markups := []models.Markup{}
	err := r.store.View(ctx, func(d *store.Data) error {
		if findDocument(d, docID) == nil {
			return nil
		}
		for _, rec := range d.DocumentMarkups {
			if recordMatches(rec, docID, linkedType, linkedID) {
				markups = cloneMarkups(rec.Markups)
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return markups, nil
}

// Save replaces the current record, appends a version with the next number
// for the context, and purges versions outside the retention window, all in
// one Update. An invalid context aborts without persisting anything.
func (r *MarkupRepository) Save(ctx context.Context, docID int, markups []models.Markup, linkedType *string, linkedID *int) (bool, error) {
	var version int
	err := r.store.Update(ctx, func(d *store.Data) error {
		if !contextValid(d, docID, linkedType, linkedID) {
			return errInvalidContext
		}
		version = saveMarkups(d, docID, markups, linkedType, linkedID)
		return nil
	})
	if errors.Is(err, errInvalidContext) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	r.logger.Info("markups saved",
		"document_id", docID, "version", version, "count", len(markups))
	return true, nil
}

// saveMarkups performs the replace-record, append-version, purge sequence on
// already-locked data and returns the version number it assigned. Callers
// are responsible for context validation.
func saveMarkups(d *store.Data, docID int, markups []models.Markup, linkedType *string, linkedID *int) int {
	replaced := false
	for i := range d.DocumentMarkups {
		if recordMatches(d.DocumentMarkups[i], docID, linkedType, linkedID) {
			d.DocumentMarkups[i].Markups = cloneMarkups(markups)
			replaced = true
			break
		}
	}
	if !replaced {
		d.DocumentMarkups = append(d.DocumentMarkups, models.MarkupRecord{
			DocumentID: docID,
			LinkedType: linkedType,
			LinkedID:   linkedID,
			Markups:    cloneMarkups(markups),
		})
	}

	next := 1
	for _, v := range d.DocumentMarkupVersions {
		if versionMatches(v, docID, linkedType, linkedID) && v.Version >= next {
			next = v.Version + 1
		}
	}
	d.DocumentMarkupVersions = append(d.DocumentMarkupVersions, models.MarkupVersion{
		DocumentID: docID,
		LinkedType: linkedType,
		LinkedID:   linkedID,
		Version:    next,
		Markups:    cloneMarkups(markups),
		CreatedAt:  time.Now().UTC(),
	})

	cutoff := next - maxMarkupVersions
	if cutoff > 0 {
		kept := d.DocumentMarkupVersions[:0]
		for _, v := range d.DocumentMarkupVersions {
			if versionMatches(v, docID, linkedType, linkedID) && v.Version <= cutoff {
				continue
			}
			kept = append(kept, v)
		}
		d.DocumentMarkupVersions = kept
	}
	return next
}

func (r *MarkupRepository) History(ctx context.Context, docID int, linkedType *string, linkedID *int) ([]models.VersionInfo, error) {
	infos := []models.VersionInfo{}
	err := r.store.View(ctx, func(d *store.Data) error {
		if !contextValid(d, docID, linkedType, linkedID) {
			return errInvalidContext
		}
		for _, v := range d.DocumentMarkupVersions {
			if versionMatches(v, docID, linkedType, linkedID) {
				infos = append(infos, models.VersionInfo{Version: v.Version, CreatedAt: v.CreatedAt})
			}
		}
		return nil
	})
	if errors.Is(err, errInvalidContext) {
		return []models.VersionInfo{}, nil
	}
	if err != nil {
		return nil, err
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Version > infos[j].Version })
	return infos, nil
}

// Restore re-saves the snapshot of a retained version as a new version. The
// history never rewinds; restoring version 3 after version 7 produces
// version 8 with version 3's markups.
func (r *MarkupRepository) Restore(ctx context.Context, docID int, version int, linkedType *string, linkedID *int) (bool, error) {
	var newVersion int
	err := r.store.Update(ctx, func(d *store.Data) error {
		if !contextValid(d, docID, linkedType, linkedID) {
			return errInvalidContext
		}
		var snapshot []models.Markup
		found := false
		for _, v := range d.DocumentMarkupVersions {
			if versionMatches(v, docID, linkedType, linkedID) && v.Version == version {
				snapshot = cloneMarkups(v.Markups)
				found = true
				break
			}
		}
		if !found {
			return errInvalidContext
		}
		newVersion = saveMarkups(d, docID, snapshot, linkedType, linkedID)
		return nil
	})
	if errors.Is(err, errInvalidContext) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	r.logger.Info("markups restored",
		"document_id", docID, "from_version", version, "new_version", newVersion)
	return true, nil
}
