package vector

import (
	"context"
	"path/filepath"
	"testing"
)

func TestMemoryIndexSearch(t *testing.T) {
	ctx := context.Background()
	idx, err := NewMemoryIndex(3)
	if err != nil {
		t.Fatal(err)
	}

	ids := []string{"a", "b", "c"}
	vectors := [][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0.9, 0.1, 0},
	}
	if err := idx.Add(ctx, ids, vectors); err != nil {
		t.Fatal(err)
	}

	results, err := idx.Search(ctx, []float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].ID != "a" || results[1].ID != "c" {
		t.Errorf("ranking = %s, %s; want a, c", results[0].ID, results[1].ID)
	}
	if results[0].Score < results[1].Score {
		t.Error("results not in descending score order")
	}
}

func TestMemoryIndexSearchEmpty(t *testing.T) {
	idx, _ := NewMemoryIndex(3)
	results, err := idx.Search(context.Background(), []float32{1, 0, 0}, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results from empty index, got %d", len(results))
	}
}

func TestMemoryIndexDimensionMismatch(t *testing.T) {
	ctx := context.Background()
	idx, _ := NewMemoryIndex(3)
	if err := idx.Add(ctx, []string{"a"}, [][]float32{{1, 0}}); err == nil {
		t.Error("expected dimension mismatch error on Add")
	}
	if _, err := idx.Search(ctx, []float32{1, 0}, 1); err == nil {
		t.Error("expected dimension mismatch error on Search")
	}
}

func TestMemoryIndexSaveLoad(t *testing.T) {
	ctx := context.Background()
	idx, _ := NewMemoryIndex(2)
	if err := idx.Add(ctx, []string{"x", "y"}, [][]float32{{1, 0}, {0, 1}}); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "index", "vectors.bin")
	if err := idx.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, _ := NewMemoryIndex(2)
	if err := loaded.Load(path); err != nil {
		t.Fatal(err)
	}
	if loaded.Size() != 2 {
		t.Fatalf("loaded size = %d, want 2", loaded.Size())
	}
	results, err := loaded.Search(ctx, []float32{1, 0}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if results[0].ID != "x" {
		t.Errorf("top hit = %s, want x", results[0].ID)
	}
}

func TestMemoryIndexLoadMissingFile(t *testing.T) {
	idx, _ := NewMemoryIndex(2)
	if err := idx.Load(filepath.Join(t.TempDir(), "missing.bin")); err != nil {
		t.Errorf("missing file should not error: %v", err)
	}
	if idx.Size() != 0 {
		t.Errorf("size = %d, want 0", idx.Size())
	}
}
