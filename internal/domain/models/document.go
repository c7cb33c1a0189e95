package models

import "time"

// Document is the metadata record for an uploaded PDF. The binary payload
// lives on disk under the stored Filename; Versions is the ordered chain of
// superseded stored filenames, appended to whenever the active file is
// replaced and never pruned.
type Document struct {
	ID           int       `json:"id"`
	Filename     string    `json:"filename"`      // stored (uuid-prefixed) name
	OriginalName string    `json:"original_name"` // name as uploaded
	UploadedAt   time.Time `json:"uploaded_at"`
	Versions     []string  `json:"versions,omitempty"`
}

// DocumentLink associates a document with a PARA item. The
// (DocumentID, LinkedType, LinkedID) triple is unique.
type DocumentLink struct {
	DocumentID int    `json:"document_id"`
	LinkedType string `json:"linked_type"`
	LinkedID   int    `json:"linked_id"`
}

// LinkedItem is a link resolved against the live PARA collections,
// carrying the current title of the linked item.
type LinkedItem struct {
	LinkedType string `json:"linked_type"`
	LinkedID   int    `json:"linked_id"`
	Title      string `json:"title"`
}
