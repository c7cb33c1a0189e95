package models

import "time"

// Linkable PARA kinds. Documents can be linked to any of the three;
// tasks hang off a project or an area.
const (
	LinkedTypeProject = "project"
	LinkedTypeArea    = "area"
	LinkedTypeTask    = "task"
)

// ValidLinkedType reports whether t is one of the recognized link kinds.
func ValidLinkedType(t string) bool {
	switch t {
	case LinkedTypeProject, LinkedTypeArea, LinkedTypeTask:
		return true
	}
	return false
}

type Project struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Goal     string `json:"goal"`
	Deadline string `json:"deadline"`
}

type Area struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	ProjectID *int   `json:"project_id,omitempty"` // nil = standalone area
}

type Resource struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Notes string `json:"notes"`
}

type Task struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	Priority   string `json:"priority"` // high | medium | low
	ParentType string `json:"parent_type"`
	ParentID   int    `json:"parent_id"`
}

// ArchivedArea is an area snapshot nested inside a project archive entry.
type ArchivedArea struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Tasks []Task `json:"tasks"`
}

// ArchiveEntry is an immutable snapshot of a project or area (with its tasks)
// taken at archive time. The live records are removed once the entry exists.
type ArchiveEntry struct {
	ID         int            `json:"id"`
	Type       string         `json:"type"` // project | area
	SourceID   int            `json:"source_id"`
	Title      string         `json:"title"`
	Goal       string         `json:"goal"`
	Deadline   string         `json:"deadline"`
	ArchivedAt time.Time      `json:"archived_at"`
	Tasks      []Task         `json:"tasks"`
	Areas      []ArchivedArea `json:"areas,omitempty"`
}
