// Package jsonstore implements the repository interfaces over the
// whole-blob store. Every operation is one View or Update of the shared
// blob; multi-collection mutations (cascades, save+version+purge) ride a
// single Update and are therefore atomic.
package jsonstore

import (
	"errors"

	"parakeet/internal/domain/models"
	"parakeet/internal/store"
)

// errNoChange aborts a store.Update without persisting when an operation
// turns out to be a no-op. Callers translate it back to a boolean result.
var errNoChange = errors.New("no change")

func strPtrEq(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func intPtrEq(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// recordMatches reports whether a markup record belongs to the given
// (document, context) key.
func recordMatches(rec models.MarkupRecord, docID int, linkedType *string, linkedID *int) bool {
	return rec.DocumentID == docID && strPtrEq(rec.LinkedType, linkedType) && intPtrEq(rec.LinkedID, linkedID)
}

func versionMatches(v models.MarkupVersion, docID int, linkedType *string, linkedID *int) bool {
	return v.DocumentID == docID && strPtrEq(v.LinkedType, linkedType) && intPtrEq(v.LinkedID, linkedID)
}

func findDocument(d *store.Data, id int) *models.Document {
	for i := range d.Documents {
		if d.Documents[i].ID == id {
			return &d.Documents[i]
		}
	}
	return nil
}

func linkExists(d *store.Data, docID int, linkedType string, linkedID int) bool {
	for _, lnk := range d.DocumentLinks {
		if lnk.DocumentID == docID && lnk.LinkedType == linkedType && lnk.LinkedID == linkedID {
			return true
		}
	}
	return false
}

// paraExists checks the live PARA collections for an item of the given kind.
func paraExists(d *store.Data, kind string, id int) bool {
	switch kind {
	case models.LinkedTypeProject:
		for _, p := range d.Projects {
			if p.ID == id {
				return true
			}
		}
	case models.LinkedTypeArea:
		for _, a := range d.Areas {
			if a.ID == id {
				return true
			}
		}
	case models.LinkedTypeTask:
		for _, t := range d.Tasks {
			if t.ID == id {
				return true
			}
		}
	}
	return false
}

// cloneMarkups deep-copies a markup set so record, version snapshot and
// caller never share point slices.
func cloneMarkups(markups []models.Markup) []models.Markup {
	out := make([]models.Markup, len(markups))
	copy(out, markups)
	for i := range out {
		if out[i].Points != nil {
			pts := make([][2]float64, len(out[i].Points))
			copy(pts, out[i].Points)
			out[i].Points = pts
		}
	}
	return out
}
