package models

import (
	"fmt"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"parakeet/internal/config"
)

// MarkupType discriminates the markup variants.
type MarkupType string

const (
	MarkupHighlight  MarkupType = "highlight"
	MarkupInk        MarkupType = "ink"
	MarkupText       MarkupType = "text"
	MarkupComment    MarkupType = "comment"
	MarkupStickyNote MarkupType = "sticky_note"
)

// hexColorRE matches #rgb and #rrggbb, leading # optional, case-insensitive.
var hexColorRE = regexp.MustCompile(`^#?([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Bounds is a normalized rectangle on a page: origin top-left, y downward,
// all components in the unit square.
type Bounds struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Clamped returns the bounds with every component clamped to [0,1].
func (b Bounds) Clamped() Bounds {
	return Bounds{
		X:      clamp01(b.X),
		Y:      clamp01(b.Y),
		Width:  clamp01(b.Width),
		Height: clamp01(b.Height),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Markup is one annotation primitive in normalized page coordinates.
// Type selects the variant; the variant-specific fields are ignored for
// other types and omitted from JSON when empty.
type Markup struct {
	ID     string     `json:"id"`
	Type   MarkupType `json:"type"`
	Page   int        `json:"page"` // zero-based
	Bounds Bounds     `json:"bounds"`

	// highlight, ink, text
	Color string `json:"color,omitempty"`
	// ink
	Points      [][2]float64 `json:"points,omitempty"`
	StrokeWidth float64      `json:"strokeWidth,omitempty"`
	// text, comment, sticky_note
	Text     string  `json:"text,omitempty"`
	FontSize float64 `json:"fontSize,omitempty"`
}

// Validate checks the common fields plus the variant-specific constraints.
// Bounds are not validated here; they are clamped at the boundary instead,
// so out-of-range components round-trip as 0 or 1.
func (m Markup) Validate() error {
	err := validation.ValidateStruct(&m,
		validation.Field(&m.ID, validation.Required, validation.Length(1, 100)),
		validation.Field(&m.Type, validation.Required, validation.In(
			MarkupHighlight, MarkupInk, MarkupText, MarkupComment, MarkupStickyNote,
		)),
		validation.Field(&m.Page, validation.Min(0)),
		validation.Field(&m.Color, validation.Match(hexColorRE)),
	)
	if err != nil {
		return err
	}

	switch m.Type {
	case MarkupHighlight:
		return nil
	case MarkupInk:
		return validation.ValidateStruct(&m,
			validation.Field(&m.Points, validation.Length(0, config.MaxInkPoints)),
			validation.Field(&m.StrokeWidth,
				validation.Min(float64(config.MinStrokeWidth)),
				validation.Max(float64(config.MaxStrokeWidth))),
		)
	case MarkupText:
		return validation.ValidateStruct(&m,
			validation.Field(&m.Text, validation.Length(0, config.MaxMarkupTextLength)),
			validation.Field(&m.FontSize,
				validation.Min(float64(config.MinFontSize)),
				validation.Max(float64(config.MaxFontSize))),
		)
	case MarkupComment, MarkupStickyNote:
		return validation.ValidateStruct(&m,
			validation.Field(&m.Text, validation.Length(0, config.MaxMarkupTextLength)),
		)
	}
	return nil
}

// ValidateMarkupSet validates a full markup set as submitted in one save.
func ValidateMarkupSet(markups []Markup) error {
	if len(markups) > config.MaxMarkupsPerSet {
		return fmt.Errorf("markup set exceeds %d items", config.MaxMarkupsPerSet)
	}
	for i, m := range markups {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("markup %d (%s): %w", i, m.ID, err)
		}
	}
	return nil
}

// MarkupRecord is the current markup set for one (document, context) pair.
// LinkedType and LinkedID are both nil for the document-level context.
// The record is replaced wholesale on every save.
type MarkupRecord struct {
	DocumentID int      `json:"document_id"`
	LinkedType *string  `json:"linked_type"`
	LinkedID   *int     `json:"linked_id"`
	Markups    []Markup `json:"markups"`
}

// MarkupVersion is an append-only snapshot of a saved markup set.
// Version numbers are monotonic per context, starting at 1.
type MarkupVersion struct {
	DocumentID int       `json:"document_id"`
	LinkedType *string   `json:"linked_type"`
	LinkedID   *int      `json:"linked_id"`
	Version    int       `json:"version"`
	Markups    []Markup  `json:"markups"`
	CreatedAt  time.Time `json:"created_at"`
}

// VersionInfo is the history listing entry for one retained version.
type VersionInfo struct {
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
}
