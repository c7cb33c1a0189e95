package service

import (
	"bytes"
	"context"
	"errors"
	"os"
	"regexp"
	"strings"
	"testing"

	"parakeet/internal/domain"
	"parakeet/internal/domain/models"
)

func TestSafeFilename(t *testing.T) {
	pattern := regexp.MustCompile(`^[0-9a-f]{12}_[\w\-.]+\.pdf$`)

	tests := []struct {
		name string
		in   string
	}{
		{name: "plain", in: "report.pdf"},
		{name: "spaces and specials", in: "my report (final)!.pdf"},
		{name: "wrong extension forced", in: "notes.txt"},
		{name: "empty stem", in: ".pdf"},
		{name: "very long stem", in: strings.Repeat("a", 200) + ".pdf"},
		{name: "path components stripped", in: "../../etc/passwd.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := safeFilename(tt.in)
			if !pattern.MatchString(got) {
				t.Errorf("safeFilename(%q) = %q", tt.in, got)
			}
			if len(got) > 12+1+80+4 {
				t.Errorf("stem not truncated: %q", got)
			}
		})
	}

	if safeFilename("a.pdf") == safeFilename("a.pdf") {
		t.Error("stored names collide for repeated uploads")
	}
}

func TestUploadRejectsBadInput(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.docs.Upload(ctx, "notes.txt", strings.NewReader("%PDF-1.4"))
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("non-pdf name: %v, want ErrValidation", err)
	}

	_, err = e.docs.Upload(ctx, "empty.pdf", strings.NewReader(""))
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("empty payload: %v, want ErrValidation", err)
	}

	docs, _ := e.docs.List(ctx, nil, nil)
	if len(docs) != 0 {
		t.Errorf("rejected uploads registered documents: %+v", docs)
	}
}

func TestUploadLinkListScenario(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	proj, err := e.para.CreateProject(ctx, CreateProjectRequest{Title: "Thesis"})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	doc, err := e.docs.Upload(ctx, "draft.pdf", strings.NewReader("%PDF-1.4 body"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if err := e.docs.AddLink(ctx, doc.ID, "project", proj.ID); err != nil {
		t.Fatalf("AddLink: %v", err)
	}
	if err := e.docs.AddLink(ctx, doc.ID, "project", 999); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("link to missing project: %v, want ErrValidation", err)
	}

	_, linked, err := e.docs.Get(ctx, doc.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(linked) != 1 || linked[0].Title != "Thesis" {
		t.Errorf("linked = %+v", linked)
	}

	forProject, err := e.docs.DocumentsFor(ctx, "project", proj.ID)
	if err != nil {
		t.Fatalf("DocumentsFor: %v", err)
	}
	if len(forProject) != 1 || forProject[0].ID != doc.ID {
		t.Errorf("forProject = %+v", forProject)
	}

	if _, err := e.docs.DocumentsFor(ctx, "folder", 1); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("bad kind: %v, want ErrValidation", err)
	}

	if err := e.docs.RemoveLink(ctx, doc.ID, "project", proj.ID); err != nil {
		t.Fatalf("RemoveLink: %v", err)
	}
	forProject, _ = e.docs.DocumentsFor(ctx, "project", proj.ID)
	if len(forProject) != 0 {
		t.Errorf("link survived removal: %+v", forProject)
	}
}

func TestReplaceSniffsContent(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	doc := e.seedDoc(t)

	if _, err := e.docs.Replace(ctx, doc.ID, []byte("not a pdf")); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("bad content: %v, want ErrValidation", err)
	}
	if _, err := e.docs.Replace(ctx, 999, []byte("%PDF-1.4 new")); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown document: %v, want ErrNotFound", err)
	}

	if _, err := e.docs.Replace(ctx, doc.ID, []byte("%PDF-1.4 new body")); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	path, _, err := e.docs.FilePath(ctx, doc.ID)
	if err != nil {
		t.Fatalf("FilePath: %v", err)
	}
	got, _ := os.ReadFile(path)
	if string(got) != "%PDF-1.4 new body" {
		t.Errorf("payload = %q", got)
	}
}

func TestDeleteRemovesPayload(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	doc := e.seedDoc(t)

	path, _, err := e.docs.FilePath(ctx, doc.ID)
	if err != nil {
		t.Fatalf("FilePath: %v", err)
	}

	if err := e.docs.Delete(ctx, doc.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("payload still on disk: %v", err)
	}
	if err := e.docs.Delete(ctx, doc.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("second delete: %v, want ErrNotFound", err)
	}
}

func TestPDFExportAndSaveVersion(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	doc, err := e.docs.Upload(ctx, "paper.pdf", bytes.NewReader(minimalPDF()))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	set := []models.Markup{{
		ID: "m1", Type: models.MarkupHighlight, Page: 0,
		Bounds: models.Bounds{X: 0.1, Y: 0.1, Width: 0.3, Height: 0.05},
	}}
	if err := e.markups.Set(ctx, doc.ID, set, nil, nil); err != nil {
		t.Fatalf("Set: %v", err)
	}

	out, name, err := e.pdfs.ExportWithMarkups(ctx, doc.ID, nil, nil)
	if err != nil {
		t.Fatalf("ExportWithMarkups: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) || name != "paper.pdf" {
		t.Errorf("export = %d bytes, name %q", len(out), name)
	}
	if !bytes.Contains(out, []byte("/Highlight")) {
		t.Error("export missing the highlight annotation")
	}

	oldStored := doc.Filename
	newName, err := e.pdfs.SaveAsNewVersion(ctx, doc.ID, nil, nil)
	if err != nil {
		t.Fatalf("SaveAsNewVersion: %v", err)
	}
	if newName == oldStored {
		t.Error("version save reused the stored filename")
	}

	after, _, err := e.docs.Get(ctx, doc.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if after.Filename != newName {
		t.Errorf("Filename = %q, want %q", after.Filename, newName)
	}
	if len(after.Versions) != 1 || after.Versions[0] != oldStored {
		t.Errorf("Versions = %v, want [%q]", after.Versions, oldStored)
	}

	// Prior payload stays on disk.
	if _, err := e.files.Path(oldStored); err != nil {
		t.Errorf("old payload gone: %v", err)
	}

	if _, _, err := e.pdfs.ExportWithMarkups(ctx, 999, nil, nil); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown document export: %v, want ErrNotFound", err)
	}
	if _, err := e.pdfs.SaveAsNewVersion(ctx, doc.ID, strPtr("task"), intPtr(4)); !errors.Is(err, domain.ErrInvalidContext) {
		t.Errorf("unlinked context save: %v, want ErrInvalidContext", err)
	}
}
