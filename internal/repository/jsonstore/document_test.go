package jsonstore

import (
	"context"
	"testing"

	"parakeet/internal/domain/models"
	"parakeet/internal/store"
)

func TestDocumentCreateAssignsSequentialIDs(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	first, err := r.docs.Create(ctx, "a.pdf", "x-a.pdf")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	second, err := r.docs.Create(ctx, "b.pdf", "x-b.pdf")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if first.ID != 1 || second.ID != 2 {
		t.Errorf("ids = %d, %d, want 1, 2", first.ID, second.ID)
	}
	if second.OriginalName != "b.pdf" || second.Filename != "x-b.pdf" {
		t.Errorf("second = %+v", second)
	}
	if second.UploadedAt.IsZero() {
		t.Error("UploadedAt not set")
	}
}

func TestDocumentGetUnknownIsNil(t *testing.T) {
	r := newTestRepos(t)

	doc, err := r.docs.Get(context.Background(), 5)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if doc != nil {
		t.Errorf("got %+v, want nil", doc)
	}
}

func TestDocumentRecordNewVersion(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	doc := r.seedDocument(t)

	if err := r.docs.RecordNewVersion(ctx, doc.ID, "v2.pdf"); err != nil {
		t.Fatalf("RecordNewVersion: %v", err)
	}
	if err := r.docs.RecordNewVersion(ctx, doc.ID, "v3.pdf"); err != nil {
		t.Fatalf("RecordNewVersion: %v", err)
	}

	got, _ := r.docs.Get(ctx, doc.ID)
	if got.Filename != "v3.pdf" {
		t.Errorf("Filename = %q, want v3.pdf", got.Filename)
	}
	if len(got.Versions) != 2 || got.Versions[0] != doc.Filename || got.Versions[1] != "v2.pdf" {
		t.Errorf("Versions = %v", got.Versions)
	}

	// Unknown id is a silent no-op.
	if err := r.docs.RecordNewVersion(ctx, 999, "ghost.pdf"); err != nil {
		t.Fatalf("RecordNewVersion unknown id: %v", err)
	}
}

func TestDocumentDeleteCascades(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	doc := r.seedDocument(t)
	other := r.seedDocument(t)
	task := r.seedLinkedTask(t, doc.ID)

	if ok, _ := r.markups.Save(ctx, doc.ID, []models.Markup{highlightAt("m1", 0)}, nil, nil); !ok {
		t.Fatal("Save doc-level failed")
	}
	if ok, _ := r.markups.Save(ctx, doc.ID, []models.Markup{highlightAt("m2", 0)}, strPtr("task"), intPtr(task.ID)); !ok {
		t.Fatal("Save task-level failed")
	}
	if ok, _ := r.markups.Save(ctx, other.ID, []models.Markup{highlightAt("keep", 0)}, nil, nil); !ok {
		t.Fatal("Save other doc failed")
	}

	found, err := r.docs.Delete(ctx, doc.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !found {
		t.Fatal("Delete reported not found")
	}

	r.store.View(ctx, func(d *store.Data) error {
		if len(d.Documents) != 1 || d.Documents[0].ID != other.ID {
			t.Errorf("documents = %+v", d.Documents)
		}
		for _, lnk := range d.DocumentLinks {
			if lnk.DocumentID == doc.ID {
				t.Errorf("dangling link %+v", lnk)
			}
		}
		for _, rec := range d.DocumentMarkups {
			if rec.DocumentID == doc.ID {
				t.Errorf("dangling markup record %+v", rec)
			}
		}
		for _, v := range d.DocumentMarkupVersions {
			if v.DocumentID == doc.ID {
				t.Errorf("dangling markup version %d", v.Version)
			}
		}
		return nil
	})

	// The other document's markups survive.
	kept, _ := r.markups.Get(ctx, other.ID, nil, nil)
	if len(kept) != 1 || kept[0].ID != "keep" {
		t.Errorf("other document's markups = %+v", kept)
	}

	found, err = r.docs.Delete(ctx, doc.ID)
	if err != nil || found {
		t.Errorf("second delete: found=%v err=%v", found, err)
	}
}

func TestDocumentListByLink(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	a := r.seedDocument(t)
	b := r.seedDocument(t)
	task := r.seedLinkedTask(t, a.ID)

	if ok, err := r.links.Add(ctx, b.ID, models.LinkedTypeTask, task.ID); err != nil || !ok {
		t.Fatalf("Add: ok=%v err=%v", ok, err)
	}

	docs, err := r.docs.ListByLink(ctx, models.LinkedTypeTask, task.ID)
	if err != nil {
		t.Fatalf("ListByLink: %v", err)
	}
	if len(docs) != 2 {
		t.Errorf("docs = %+v, want both documents", docs)
	}
}

func TestLinkAddValidation(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	doc := r.seedDocument(t)
	task, err := r.para.CreateTask(ctx, models.Task{Title: "t", Priority: "low", ParentType: "project", ParentID: 1})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	tests := []struct {
		name       string
		docID      int
		linkedType string
		linkedID   int
		want       bool
	}{
		{name: "valid", docID: doc.ID, linkedType: "task", linkedID: task.ID, want: true},
		{name: "repeat is idempotent", docID: doc.ID, linkedType: "task", linkedID: task.ID, want: true},
		{name: "unknown kind", docID: doc.ID, linkedType: "folder", linkedID: task.ID, want: false},
		{name: "unknown document", docID: 99, linkedType: "task", linkedID: task.ID, want: false},
		{name: "unknown item", docID: doc.ID, linkedType: "task", linkedID: 99, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.links.Add(ctx, tt.docID, tt.linkedType, tt.linkedID)
			if err != nil {
				t.Fatalf("Add: %v", err)
			}
			if got != tt.want {
				t.Errorf("Add = %v, want %v", got, tt.want)
			}
		})
	}

	links, _ := r.links.ListForDocument(ctx, doc.ID)
	if len(links) != 1 {
		t.Errorf("links = %+v, want exactly one", links)
	}
}

func TestLinkRemove(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	doc := r.seedDocument(t)
	task := r.seedLinkedTask(t, doc.ID)

	removed, err := r.links.Remove(ctx, doc.ID, "task", task.ID)
	if err != nil || !removed {
		t.Fatalf("Remove: removed=%v err=%v", removed, err)
	}
	removed, err = r.links.Remove(ctx, doc.ID, "task", task.ID)
	if err != nil || removed {
		t.Errorf("second Remove: removed=%v err=%v", removed, err)
	}

	linked, _ := r.links.IsLinked(ctx, doc.ID, "task", task.ID)
	if linked {
		t.Error("link still present after Remove")
	}
}
