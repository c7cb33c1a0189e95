package pdf

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"parakeet/internal/domain/models"
)

// minimalPDF builds a syntactically complete PDF with the given number of
// empty US Letter pages, computing real xref offsets.
func minimalPDF(pageCount int) []byte {
	kids := make([]string, 0, pageCount)
	for i := 0; i < pageCount; i++ {
		kids = append(kids, fmt.Sprintf("%d 0 R", 3+i))
	}

	objs := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d /MediaBox [0 0 612 792] >>",
			strings.Join(kids, " "), pageCount),
	}
	for i := 0; i < pageCount; i++ {
		objs = append(objs, "<< /Type /Page /Parent 2 0 R /Resources << >> >>")
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, body := range objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objs)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(objs)+1, xref)
	return buf.Bytes()
}

func testCompositor() *Compositor {
	return NewCompositor(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestAnnotationDictCoordinateMapping(t *testing.T) {
	m := models.Markup{
		ID: "m1", Type: models.MarkupHighlight,
		Bounds: models.Bounds{X: 0.25, Y: 0.25, Width: 0.5, Height: 0.25},
	}

	d := annotationDict(m, 612, 792)
	if d == nil {
		t.Fatal("nil annotation dict")
	}
	if d["Subtype"] != types.Name("Highlight") {
		t.Errorf("Subtype = %v", d["Subtype"])
	}

	rect := d["Rect"].(types.Array)
	want := []float64{153, 396, 459, 594}
	for i, wv := range want {
		if got := float64(rect[i].(types.Float)); !approx(got, wv) {
			t.Errorf("Rect[%d] = %v, want %v", i, got, wv)
		}
	}

	// QuadPoints trace the same rectangle: top edge then bottom edge.
	qp := d["QuadPoints"].(types.Array)
	wantQP := []float64{153, 594, 459, 594, 153, 396, 459, 396}
	for i, wv := range wantQP {
		if got := float64(qp[i].(types.Float)); !approx(got, wv) {
			t.Errorf("QuadPoints[%d] = %v, want %v", i, got, wv)
		}
	}
}

func TestAnnotationDictZeroBoundsGetMinimumExtent(t *testing.T) {
	m := models.Markup{ID: "m1", Type: models.MarkupHighlight}

	d := annotationDict(m, 612, 792)
	rect := d["Rect"].(types.Array)
	llx := float64(rect[0].(types.Float))
	lly := float64(rect[1].(types.Float))
	urx := float64(rect[2].(types.Float))
	ury := float64(rect[3].(types.Float))
	if urx <= llx || ury <= lly {
		t.Errorf("degenerate rect [%v %v %v %v]", llx, lly, urx, ury)
	}
}

func TestAnnotationDictInk(t *testing.T) {
	m := models.Markup{
		ID: "m1", Type: models.MarkupInk,
		Bounds: models.Bounds{X: 0, Y: 0, Width: 1, Height: 1},
		Points: [][2]float64{{0.5, 0.5}, {1, 0}},
	}

	d := annotationDict(m, 612, 792)
	if d == nil {
		t.Fatal("nil annotation dict")
	}
	strokes := d["InkList"].(types.Array)
	if len(strokes) != 1 {
		t.Fatalf("InkList = %v", strokes)
	}
	stroke := strokes[0].(types.Array)
	want := []float64{306, 396, 612, 792}
	for i, wv := range want {
		if got := float64(stroke[i].(types.Float)); !approx(got, wv) {
			t.Errorf("stroke[%d] = %v, want %v", i, got, wv)
		}
	}
}

func TestAnnotationDictSkipsUnrenderable(t *testing.T) {
	tests := []struct {
		name string
		m    models.Markup
	}{
		{name: "ink with one point", m: models.Markup{
			Type: models.MarkupInk, Points: [][2]float64{{0.5, 0.5}},
		}},
		{name: "text with only whitespace", m: models.Markup{
			Type: models.MarkupText, Text: "   ",
		}},
		{name: "unknown type", m: models.Markup{Type: "stamp"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if d := annotationDict(tt.m, 612, 792); d != nil {
				t.Errorf("got %v, want nil", d)
			}
		})
	}
}

func TestAnnotationDictFreeTextTruncation(t *testing.T) {
	m := models.Markup{
		Type: models.MarkupText,
		Text: strings.Repeat("a", maxFreeTextLen+100),
	}

	d := annotationDict(m, 612, 792)
	if d == nil {
		t.Fatal("nil annotation dict")
	}
	da := string(d["DA"].(types.StringLiteral))
	if !strings.HasPrefix(da, "/Helv 12.0 Tf") {
		t.Errorf("DA = %q", da)
	}
}

func TestAnnotationDictComment(t *testing.T) {
	m := models.Markup{Type: models.MarkupStickyNote, Text: "remember this"}

	d := annotationDict(m, 612, 792)
	if d == nil {
		t.Fatal("nil annotation dict")
	}
	if d["Subtype"] != types.Name("Text") || d["Name"] != types.Name("Comment") {
		t.Errorf("dict = %v", d)
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in      string
		r, g, b float64
	}{
		{in: "#ff0000", r: 1, g: 0, b: 0},
		{in: "00ff00", r: 0, g: 1, b: 0},
		{in: "#00f", r: 0, g: 0, b: 1},
		{in: "#FFCC00", r: 1, g: 0.8, b: 0},
		{in: "nonsense", r: 1, g: 1, b: 0},
		{in: "#1234", r: 1, g: 1, b: 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			r, g, b := parseHexColor(tt.in, "#000000")
			if !approx(r, tt.r) || !approx(g, tt.g) || !approx(b, tt.b) {
				t.Errorf("parseHexColor(%q) = %v,%v,%v, want %v,%v,%v", tt.in, r, g, b, tt.r, tt.g, tt.b)
			}
		})
	}

	// Empty input takes the per-type default.
	r, g, b := parseHexColor("", "#ffeb3b")
	if !approx(r, 1) || !approx(g, float64(0xeb)/255) || !approx(b, float64(0x3b)/255) {
		t.Errorf("default = %v,%v,%v", r, g, b)
	}
}

func TestComposePreservesPageCount(t *testing.T) {
	c := testCompositor()
	src := minimalPDF(3)

	out, err := c.WithMarkups(bytes.NewReader(src), []models.Markup{
		{ID: "m1", Type: models.MarkupHighlight, Page: 1, Bounds: models.Bounds{X: 0.1, Y: 0.1, Width: 0.2, Height: 0.05}},
	})
	if err != nil {
		t.Fatalf("WithMarkups: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("output does not look like a PDF: %q", out[:min(16, len(out))])
	}

	n, err := c.PageCount(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("PageCount: %v", err)
	}
	if n != 3 {
		t.Errorf("page count = %d, want 3", n)
	}
}

func TestComposeForSaveClearsExistingAnnotations(t *testing.T) {
	c := testCompositor()
	src := minimalPDF(1)
	mk := []models.Markup{
		{ID: "m1", Type: models.MarkupHighlight, Page: 0, Bounds: models.Bounds{X: 0.1, Y: 0.1, Width: 0.2, Height: 0.05}},
	}

	annotated, err := c.WithMarkups(bytes.NewReader(src), mk)
	if err != nil {
		t.Fatalf("WithMarkups: %v", err)
	}

	// Baking an empty set over the annotated file strips the annotation.
	baked, err := c.WithMarkupsForSave(bytes.NewReader(annotated), nil)
	if err != nil {
		t.Fatalf("WithMarkupsForSave: %v", err)
	}
	if bytes.Contains(baked, []byte("/Highlight")) {
		t.Error("baked output still carries the old annotation")
	}
	if !bytes.Contains(annotated, []byte("/Highlight")) {
		t.Error("annotated output is missing the highlight")
	}
}

func TestComposeNoMarkupsPassesThrough(t *testing.T) {
	c := testCompositor()
	src := minimalPDF(2)

	out, err := c.WithMarkups(bytes.NewReader(src), nil)
	if err != nil {
		t.Fatalf("WithMarkups: %v", err)
	}
	n, err := c.PageCount(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("PageCount: %v", err)
	}
	if n != 2 {
		t.Errorf("page count = %d, want 2", n)
	}
}
