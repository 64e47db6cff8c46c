package presets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestGetByPath_RejectsPathTraversal(t *testing.T) {
	base := t.TempDir()
	repo := NewFileRepository(base)

	writeFile(t, filepath.Join(base, "ok.yaml"), "id: ok\nname: ok\nkind: sine\nparams:\n  points: 10\n")
	if _, err := repo.GetByPath("ok.yaml"); err != nil {
		t.Fatalf("expected preset load inside base dir, got %v", err)
	}
	if _, err := repo.GetByPath(filepath.Join(base, "ok.yaml")); err != nil {
		t.Fatalf("expected absolute path inside base dir to load, got %v", err)
	}

	outsideFile := filepath.Join(t.TempDir(), "outside.yaml")
	writeFile(t, outsideFile, "id: bad")
	if _, err := repo.GetByPath(outsideFile); err == nil {
		t.Fatal("expected traversal rejection for outside absolute path")
	}
	if _, err := repo.GetByPath("../outside.yaml"); err == nil {
		t.Fatal("expected traversal rejection for relative path escape")
	}
}

func TestFileRepository_ListAndGet(t *testing.T) {
	base := t.TempDir()
	repo := NewFileRepository(base)

	writeFile(t, filepath.Join(base, "weekly.yaml"), `name: Weekly sales
kind: timeseries
seed: 42
params:
  days: 7
filters:
  categories: [A, B]
  min_value: 120
`)
	writeFile(t, filepath.Join(base, "fast-sine.json"), `{"id":"fast-sine","name":"Fast sine","kind":"sine","params":{"frequency":3.5,"points":200}}`)
	writeFile(t, filepath.Join(base, "broken.yaml"), "kind: [")
	writeFile(t, filepath.Join(base, "notes.txt"), "ignored")

	list, err := repo.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].ID != "fast-sine" || list[1].ID != "weekly" {
		t.Fatalf("unexpected presets: %+v", list)
	}

	weekly, err := repo.Get("Weekly sales")
	if err != nil {
		t.Fatal(err)
	}
	if weekly.Kind != "timeseries" || weekly.Seed == nil || *weekly.Seed != 42 {
		t.Fatalf("unexpected preset: %+v", weekly)
	}
	if weekly.Params["days"] != 7 {
		t.Fatalf("expected days param 7, got %#v", weekly.Params["days"])
	}
	if weekly.Filters.MinValue == nil || *weekly.Filters.MinValue != 120 || len(weekly.Filters.Categories) != 2 {
		t.Fatalf("unexpected filters: %+v", weekly.Filters)
	}

	if _, err := repo.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFileRepository_MissingDirIsEmpty(t *testing.T) {
	repo := NewFileRepository(filepath.Join(t.TempDir(), "nope"))
	list, err := repo.List()
	if err != nil || len(list) != 0 {
		t.Fatalf("expected empty list, got %v, %v", list, err)
	}
}
