// Package pdf renders stored markup sets into PDF annotation objects.
//
// Markups arrive in normalized page coordinates (origin top-left, y growing
// downward, unit square); PDF page space has its origin bottom-left with y
// growing upward, so every shape goes through the same rect mapping:
//
//	llx = x*w   lly = (1-y-height)*h   urx = (x+width)*w   ury = (1-y)*h
package pdf

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"parakeet/internal/domain/models"
)

func init() {
	// No config dir; the server never writes outside its own data paths.
	model.ConfigPath = "disable"
}

// US Letter, used when a page carries no resolvable MediaBox.
const (
	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0
)

// maxFreeTextLen caps the Contents of a free-text annotation.
const maxFreeTextLen = 500

// Compositor builds annotated PDFs from a source document and a markup set.
type Compositor struct {
	conf   *model.Configuration
	logger *slog.Logger
}

// NewCompositor creates a compositor with default parser configuration.
func NewCompositor(logger *slog.Logger) *Compositor {
	return &Compositor{conf: model.NewDefaultConfiguration(), logger: logger}
}

// WithMarkups returns the document with the markup set appended as
// annotations. Annotations already present in the file are kept; this is the
// preview/export mode.
func (c *Compositor) WithMarkups(r io.ReadSeeker, markups []models.Markup) ([]byte, error) {
	return c.compose(r, markups, false)
}

// WithMarkupsForSave returns the document with every page's existing
// annotations cleared and the markup set written fresh. Used when baking a
// new version, so repeated saves do not stack duplicates.
func (c *Compositor) WithMarkupsForSave(r io.ReadSeeker, markups []models.Markup) ([]byte, error) {
	return c.compose(r, markups, true)
}

// PageCount reports the number of pages in the document.
func (c *Compositor) PageCount(r io.ReadSeeker) (int, error) {
	ctx, err := api.ReadContext(r, c.conf)
	if err != nil {
		return 0, fmt.Errorf("read pdf: %w", err)
	}
	if err := api.ValidateContext(ctx); err != nil {
		return 0, fmt.Errorf("validate pdf: %w", err)
	}
	return ctx.PageCount, nil
}

func (c *Compositor) compose(r io.ReadSeeker, markups []models.Markup, clear bool) ([]byte, error) {
	ctx, err := api.ReadContext(r, c.conf)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}
	if err := api.ValidateContext(ctx); err != nil {
		return nil, fmt.Errorf("validate pdf: %w", err)
	}

	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		if err := c.composePage(ctx, pageNr, markups, clear); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := api.WriteContext(ctx, &buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (c *Compositor) composePage(ctx *model.Context, pageNr int, markups []models.Markup, clear bool) error {
	// Markup pages are zero-based, pdfcpu pages are one-based.
	var pageMarkups []models.Markup
	for _, m := range markups {
		if m.Page == pageNr-1 {
			pageMarkups = append(pageMarkups, m)
		}
	}
	if !clear && len(pageMarkups) == 0 {
		return nil
	}

	pageDict, _, inhPAttrs, err := ctx.PageDict(pageNr, false)
	if err != nil {
		return fmt.Errorf("page %d: %w", pageNr, err)
	}
	if pageDict == nil {
		return fmt.Errorf("page %d: no page dict", pageNr)
	}

	if clear {
		delete(pageDict, "Annots")
	}
	if len(pageMarkups) == 0 {
		return nil
	}

	w, h := defaultPageWidth, defaultPageHeight
	if inhPAttrs != nil && inhPAttrs.MediaBox != nil {
		w, h = inhPAttrs.MediaBox.Width(), inhPAttrs.MediaBox.Height()
	}

	annots := types.Array{}
	if obj, found := pageDict.Find("Annots"); found {
		existing, err := ctx.DereferenceArray(obj)
		if err != nil {
			return fmt.Errorf("page %d annotations: %w", pageNr, err)
		}
		annots = append(annots, existing...)
	}

	for _, m := range pageMarkups {
		d := annotationDict(m, w, h)
		if d == nil {
			continue
		}
		ir, err := ctx.IndRefForNewObject(d)
		if err != nil {
			return fmt.Errorf("page %d annotation object: %w", pageNr, err)
		}
		annots = append(annots, *ir)
	}
	pageDict["Annots"] = annots
	return nil
}

// annotationDict builds the annotation object for one markup on a page of
// the given dimensions, or nil when the markup renders to nothing (ink with
// fewer than two points, free text with no content).
func annotationDict(m models.Markup, w, h float64) types.Dict {
	b := m.Bounds
	bw, bh := b.Width, b.Height
	if bw == 0 {
		bw = 0.01
	}
	if bh == 0 {
		bh = 0.01
	}
	llx := b.X * w
	lly := (1 - b.Y - bh) * h
	urx := (b.X + bw) * w
	ury := (1 - b.Y) * h
	rect := types.NewNumberArray(llx, lly, urx, ury)

	switch m.Type {
	case models.MarkupHighlight:
		r, g, bl := parseHexColor(m.Color, "#ffeb3b")
		return types.Dict{
			"Type":       types.Name("Annot"),
			"Subtype":    types.Name("Highlight"),
			"Rect":       rect,
			"QuadPoints": types.NewNumberArray(llx, ury, urx, ury, llx, lly, urx, lly),
			"C":          types.NewNumberArray(r, g, bl),
		}

	case models.MarkupInk:
		if len(m.Points) < 2 {
			return nil
		}
		stroke := make(types.Array, 0, 2*len(m.Points))
		for _, p := range m.Points {
			stroke = append(stroke, types.Float(p[0]*w), types.Float((1-p[1])*h))
		}
		r, g, bl := parseHexColor(m.Color, "#000000")
		return types.Dict{
			"Type":    types.Name("Annot"),
			"Subtype": types.Name("Ink"),
			"Rect":    rect,
			"InkList": types.Array{stroke},
			"C":       types.NewNumberArray(r, g, bl),
		}

	case models.MarkupText:
		text := strings.TrimSpace(m.Text)
		if text == "" {
			return nil
		}
		if runes := []rune(text); len(runes) > maxFreeTextLen {
			text = string(runes[:maxFreeTextLen])
		}
		r, g, bl := parseHexColor(m.Color, "#000000")
		fs := m.FontSize
		if fs == 0 {
			fs = 12
		}
		da := fmt.Sprintf("/Helv %.1f Tf %.2f %.2f %.2f rg", fs, r, g, bl)
		return types.Dict{
			"Type":     types.Name("Annot"),
			"Subtype":  types.Name("FreeText"),
			"Rect":     rect,
			"Contents": types.StringLiteral(types.EncodeUTF16String(text)),
			"DA":       types.StringLiteral(da),
		}

	case models.MarkupComment, models.MarkupStickyNote:
		return types.Dict{
			"Type":     types.Name("Annot"),
			"Subtype":  types.Name("Text"),
			"Rect":     rect,
			"Contents": types.StringLiteral(types.EncodeUTF16String(m.Text)),
			"Name":     types.Name("Comment"),
		}
	}
	return nil
}

// parseHexColor turns #rgb or #rrggbb (leading # optional) into RGB
// components in [0,1]. An empty value falls back to def; anything
// unparseable renders yellow.
func parseHexColor(s, def string) (float64, float64, float64) {
	if s == "" {
		s = def
	}
	s = strings.TrimPrefix(s, "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return 1, 1, 0
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 1, 1, 0
	}
	return float64(v>>16&0xff) / 255, float64(v>>8&0xff) / 255, float64(v&0xff) / 255
}
