package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/playproof/levelproof/level/grid"
)

func createStoredLevel() *grid.GridLevel {
	tiles := make([]string, 14)
	for y := range tiles {
		row := make([]byte, 20)
		for x := range row {
			row[x] = '.'
		}
		tiles[y] = string(row)
	}
	lvl := &grid.GridLevel{
		Schema: grid.SchemaVersion,
		GameID: "mini-golf",
		Grid:   grid.GridSpec{Cols: 20, Rows: 14, Tiles: tiles},
	}
	b := []byte(lvl.Grid.Tiles[7])
	b[3], b[16] = 'B', 'H'
	lvl.Grid.Tiles[7] = string(b)
	return lvl
}

func writeLevelFile(t *testing.T, dir, name string, lvl *grid.GridLevel) {
	t.Helper()
	data, err := json.MarshalIndent(lvl, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal level: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name+".json"), data, 0644); err != nil {
		t.Fatalf("Failed to write level file: %v", err)
	}
}

func TestNewRequiresExistingDirectory(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestLoadAndCache(t *testing.T) {
	dir := t.TempDir()
	writeLevelFile(t, dir, "island-green", createStoredLevel())

	st, err := New(dir)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	lvl, err := st.Load("island-green")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if lvl.GameID != "mini-golf" {
		t.Errorf("GameID = %q, want mini-golf", lvl.GameID)
	}

	// Mutating the returned level must not poison the cache.
	lvl.GameID = "mutated"
	again, err := st.Load("island-green")
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if again.GameID != "mini-golf" {
		t.Errorf("cached level was mutated through a caller copy")
	}
}

func TestLoadMissingLevel(t *testing.T) {
	st, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := st.Load("nope"); !errors.Is(err, ErrLevelNotFound) {
		t.Fatalf("expected ErrLevelNotFound, got %v", err)
	}
}

func TestLoadRejectsBadSchema(t *testing.T) {
	dir := t.TempDir()
	lvl := createStoredLevel()
	lvl.Schema = "playproof.level.v0"
	writeLevelFile(t, dir, "old", lvl)

	st, err := New(dir)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := st.Load("old"); !errors.Is(err, ErrInvalidLevel) {
		t.Fatalf("expected ErrInvalidLevel, got %v", err)
	}
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{nope"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	st, err := New(dir)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := st.Load("broken"); !errors.Is(err, ErrInvalidLevel) {
		t.Fatalf("expected ErrInvalidLevel, got %v", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	st, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if err := st.Save("draft", createStoredLevel()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	lvl, err := st.Load("draft")
	if err != nil {
		t.Fatalf("Load after Save failed: %v", err)
	}
	if lvl.Grid.Cols != 20 || lvl.Grid.Rows != 14 {
		t.Errorf("round-tripped grid is %dx%d, want 20x14", lvl.Grid.Cols, lvl.Grid.Rows)
	}
}

func TestListSkipsNonLevelFiles(t *testing.T) {
	dir := t.TempDir()
	writeLevelFile(t, dir, "a", createStoredLevel())
	writeLevelFile(t, dir, "b", createStoredLevel())
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("levels"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	st, err := New(dir)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	names, err := st.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("List returned %v, want 2 names", names)
	}
}

func TestRefreshCacheRereadsDisk(t *testing.T) {
	dir := t.TempDir()
	writeLevelFile(t, dir, "edit-me", createStoredLevel())

	st, err := New(dir)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := st.Load("edit-me"); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	updated := createStoredLevel()
	updated.Version = "2"
	writeLevelFile(t, dir, "edit-me", updated)

	st.RefreshCache()
	lvl, err := st.Load("edit-me")
	if err != nil {
		t.Fatalf("Load after refresh failed: %v", err)
	}
	if lvl.Version != "2" {
		t.Errorf("Version = %q, want 2 after refresh", lvl.Version)
	}
}
