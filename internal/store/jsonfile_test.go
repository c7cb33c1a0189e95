package store

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"parakeet/internal/domain/models"
)

func newTestStore(t *testing.T) *JSONFile {
	t.Helper()
	s, err := NewJSONFile(filepath.Join(t.TempDir(), "data.json"))
	if err != nil {
		t.Fatalf("NewJSONFile: %v", err)
	}
	return s
}

func TestJSONFile_MissingFileReadsEmpty(t *testing.T) {
	s := newTestStore(t)

	err := s.View(context.Background(), func(d *Data) error {
		if len(d.Projects) != 0 || len(d.Documents) != 0 {
			t.Errorf("expected empty data, got %+v", d)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View: %v", err)
	}
}

func TestJSONFile_UpdateRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.Update(ctx, func(d *Data) error {
		d.Projects = append(d.Projects, models.Project{ID: 1, Title: "Thesis"})
		d.Tasks = append(d.Tasks, models.Task{ID: 1, Title: "Outline", Priority: "high", ParentType: "project", ParentID: 1})
		return nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	err = s.View(ctx, func(d *Data) error {
		if len(d.Projects) != 1 || d.Projects[0].Title != "Thesis" {
			t.Errorf("projects = %+v", d.Projects)
		}
		if len(d.Tasks) != 1 || d.Tasks[0].Priority != "high" {
			t.Errorf("tasks = %+v", d.Tasks)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View: %v", err)
	}
}

func TestJSONFile_FailedUpdateWritesNothing(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Update(ctx, func(d *Data) error {
		d.Projects = append(d.Projects, models.Project{ID: 1, Title: "keep"})
		return nil
	}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	wantErr := os.ErrInvalid
	err := s.Update(ctx, func(d *Data) error {
		d.Projects = nil
		return wantErr
	})
	if err != wantErr {
		t.Fatalf("Update error = %v, want %v", err, wantErr)
	}

	s.View(ctx, func(d *Data) error {
		if len(d.Projects) != 1 {
			t.Errorf("aborted update mutated store: %+v", d.Projects)
		}
		return nil
	})
}

func TestJSONFile_ConcurrentUpdates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	const workers = 8
	const perWorker = 5

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				err := s.Update(ctx, func(d *Data) error {
					id := NextID(d.Tasks, func(t models.Task) int { return t.ID })
					d.Tasks = append(d.Tasks, models.Task{ID: id, Title: "t", ParentType: "area", ParentID: 1})
					return nil
				})
				if err != nil {
					t.Errorf("Update: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	s.View(ctx, func(d *Data) error {
		if len(d.Tasks) != workers*perWorker {
			t.Errorf("tasks = %d, want %d", len(d.Tasks), workers*perWorker)
		}
		seen := map[int]bool{}
		for _, task := range d.Tasks {
			if seen[task.ID] {
				t.Errorf("duplicate id %d", task.ID)
			}
			seen[task.ID] = true
		}
		return nil
	})
}

func TestJSONFile_NoTempFilesLeftBehind(t *testing.T) {
	dir := t.TempDir()
	s, err := NewJSONFile(filepath.Join(dir, "data.json"))
	if err != nil {
		t.Fatalf("NewJSONFile: %v", err)
	}
	if err := s.Update(context.Background(), func(d *Data) error {
		d.Resources = append(d.Resources, models.Resource{ID: 1, Title: "ref"})
		return nil
	}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	matches, _ := filepath.Glob(filepath.Join(dir, ".store-*.tmp"))
	if len(matches) != 0 {
		t.Errorf("temp files left behind: %v", matches)
	}
}

func TestNextID(t *testing.T) {
	tests := []struct {
		name  string
		ids   []int
		want  int
	}{
		{name: "empty starts at one", ids: nil, want: 1},
		{name: "sequential", ids: []int{1, 2, 3}, want: 4},
		{name: "with gaps", ids: []int{1, 7, 3}, want: 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var docs []models.Document
			for _, id := range tt.ids {
				docs = append(docs, models.Document{ID: id})
			}
			got := NextID(docs, func(d models.Document) int { return d.ID })
			if got != tt.want {
				t.Errorf("NextID = %d, want %d", got, tt.want)
			}
		})
	}
}
