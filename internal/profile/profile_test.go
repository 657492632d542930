package profile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreGet(t *testing.T) {
	dir := t.TempDir()
	data := `[
		{"user_id": "u1", "name": "Priya", "headline": "Data analyst", "interests": ["mentorship"]},
		{"user_id": "u2", "name": "Meera"}
	]`
	if err := os.WriteFile(filepath.Join(dir, profilesFile), []byte(data), 0644); err != nil {
		t.Fatalf("failed to write profiles: %v", err)
	}

	s := NewFileStore(dir)
	ctx := context.Background()

	p, ok, err := s.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok {
		t.Fatal("expected profile for u1")
	}
	if p.Name != "Priya" || p.Headline != "Data analyst" {
		t.Errorf("unexpected profile: %+v", p)
	}

	_, ok, err = s.Get(ctx, "unknown")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Error("expected no profile for unknown user")
	}
}

func TestFileStoreMissingFile(t *testing.T) {
	s := NewFileStore(t.TempDir())
	_, ok, err := s.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("expected missing file to be treated as empty, got %v", err)
	}
	if ok {
		t.Error("expected no profile from empty store")
	}
}

func TestFileStoreEmptyUserID(t *testing.T) {
	s := NewFileStore(t.TempDir())
	_, ok, err := s.Get(context.Background(), "")
	if err != nil || ok {
		t.Errorf("expected anonymous lookup to be a no-op, got ok=%v err=%v", ok, err)
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, profilesFile), []byte("{bad"), 0644); err != nil {
		t.Fatalf("failed to write profiles: %v", err)
	}
	s := NewFileStore(dir)
	_, _, err := s.Get(context.Background(), "u1")
	if err == nil {
		t.Error("expected error for corrupt profiles file")
	}
}
