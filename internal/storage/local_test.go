package storage

import (
	"errors"
	"io"
	"strings"
	"testing"

	"parakeet/internal/domain"
)

func TestLocalSaveOpenRoundTrip(t *testing.T) {
	l, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}

	n, err := l.Save("doc.pdf", strings.NewReader("%PDF-1.4 payload"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if n != int64(len("%PDF-1.4 payload")) {
		t.Errorf("Save wrote %d bytes", n)
	}

	rc, err := l.Open("doc.pdf")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	got, _ := io.ReadAll(rc)
	if string(got) != "%PDF-1.4 payload" {
		t.Errorf("payload = %q", got)
	}
}

func TestLocalReplaceSwapsContent(t *testing.T) {
	l, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	if _, err := l.Save("doc.pdf", strings.NewReader("old")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := l.Replace("doc.pdf", strings.NewReader("new")); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	rc, _ := l.Open("doc.pdf")
	defer rc.Close()
	got, _ := io.ReadAll(rc)
	if string(got) != "new" {
		t.Errorf("payload = %q, want new", got)
	}

	if err := l.Replace("missing.pdf", strings.NewReader("x")); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Replace missing = %v, want ErrNotFound", err)
	}
}

func TestLocalConfinement(t *testing.T) {
	l, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}

	names := []string{
		"",
		"../escape.pdf",
		"sub/dir.pdf",
		"..",
		"/etc/passwd",
	}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			if _, err := l.Path(name); !errors.Is(err, domain.ErrNotFound) {
				t.Errorf("Path(%q) = %v, want ErrNotFound", name, err)
			}
			if _, err := l.Open(name); !errors.Is(err, domain.ErrNotFound) {
				t.Errorf("Open(%q) = %v, want ErrNotFound", name, err)
			}
		})
	}
}

func TestLocalRemoveIsIdempotent(t *testing.T) {
	l, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	if _, err := l.Save("doc.pdf", strings.NewReader("x")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := l.Remove("doc.pdf"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := l.Remove("doc.pdf"); err != nil {
		t.Errorf("second Remove: %v", err)
	}
	if _, err := l.Path("doc.pdf"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Path after Remove = %v, want ErrNotFound", err)
	}
}
