package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/drapery/internal/catalog"
)

func TestDefaultUIState(t *testing.T) {
	state := DefaultUIState()

	if state == nil {
		t.Fatal("DefaultUIState returned nil")
	}
	if state.Catalog.Sort != "name" {
		t.Errorf("Expected default sort name, got %q", state.Catalog.Sort)
	}
	if state.Catalog.Category != catalog.AllCategories {
		t.Errorf("Expected default category All, got %q", state.Catalog.Category)
	}
}

func TestLoadNonExistent(t *testing.T) {
	state := Load(filepath.Join(t.TempDir(), "missing"))

	if state == nil {
		t.Fatal("Load returned nil for non-existent file")
	}
	if state.Catalog.Sort != "name" {
		t.Error("Expected default sort for missing file")
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()

	state := DefaultUIState()
	state.Remember(catalog.Query{Text: "silk", Sort: catalog.SortPriceHigh, Category: "Luxury"})

	if err := Save(tmpDir, state); err != nil {
		t.Fatalf("Failed to save state: %v", err)
	}

	path := filepath.Join(tmpDir, FileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("State file was not created")
	}

	loaded := Load(tmpDir)
	q := loaded.Query()
	if q.Sort != catalog.SortPriceHigh {
		t.Errorf("Expected sort price-high, got %q", q.Sort)
	}
	if q.Category != "Luxury" {
		t.Errorf("Expected category Luxury, got %q", q.Category)
	}
	if q.Text != "" {
		t.Errorf("Search text should not be remembered, got %q", q.Text)
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "subdir", "data")

	if err := Save(dataDir, DefaultUIState()); err != nil {
		t.Fatalf("Failed to save state: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dataDir, FileName)); os.IsNotExist(err) {
		t.Error("State file was not created")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()

	path := filepath.Join(tmpDir, FileName)
	if err := os.WriteFile(path, []byte("invalid json {{{"), 0644); err != nil {
		t.Fatalf("Failed to write invalid JSON: %v", err)
	}

	state := Load(tmpDir)
	if state == nil {
		t.Fatal("Load returned nil for invalid JSON")
	}
	if state.Catalog.Category != catalog.AllCategories {
		t.Error("Expected defaults when JSON is invalid")
	}
}

func TestQuery_UnknownSort(t *testing.T) {
	state := &UIState{Catalog: CatalogState{Sort: "popularity", Category: "Modern"}}

	q := state.Query()
	if q.Sort != catalog.SortName {
		t.Errorf("Expected fallback to name sort, got %q", q.Sort)
	}
	if q.Category != "Modern" {
		t.Errorf("Expected category Modern, got %q", q.Category)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, FileName), []byte(`{"catalog":{"sort":"price-low"}}`), 0644); err != nil {
		t.Fatal(err)
	}

	state := Load(tmpDir)
	if state.Catalog.Sort != "price-low" {
		t.Errorf("Expected price-low, got %q", state.Catalog.Sort)
	}
	if state.Catalog.Category != catalog.AllCategories {
		t.Errorf("Expected default category, got %q", state.Catalog.Category)
	}
}
