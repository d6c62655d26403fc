// Package state persists shopper preferences between wizard runs.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/drapery/internal/catalog"
	"github.com/mark3labs/drapery/internal/logger"
)

// FileName is the preferences file inside the data directory.
const FileName = "ui-state.json"

// UIState holds persistent UI preferences that carry across sessions.
type UIState struct {
	Catalog CatalogState `json:"catalog"`
}

// CatalogState is the last catalog sort and category.
type CatalogState struct {
	Sort     string `json:"sort"`
	Category string `json:"category"`
}

// DefaultUIState returns the default UI state with sensible defaults.
func DefaultUIState() *UIState {
	return &UIState{
		Catalog: CatalogState{
			Sort:     string(catalog.SortName),
			Category: catalog.AllCategories,
		},
	}
}

// Query converts the saved catalog state into a query. An unknown sort
// falls back to sorting by name.
func (s *UIState) Query() catalog.Query {
	sortKey, err := catalog.ParseSortKey(s.Catalog.Sort)
	if err != nil {
		logger.Warn("Ignoring saved catalog sort: %v", err)
	}
	return catalog.Query{Sort: sortKey, Category: s.Catalog.Category}
}

// Remember records the sort and category of q.
func (s *UIState) Remember(q catalog.Query) {
	s.Catalog.Sort = string(q.Sort)
	s.Catalog.Category = q.Category
}

// Load reads the UI state from the data directory.
// Returns default state if the file doesn't exist or on error.
func Load(dataDir string) *UIState {
	path := filepath.Join(dataDir, FileName)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultUIState()
	}
	if err != nil {
		logger.Warn("Failed to read UI state file: %v", err)
		return DefaultUIState()
	}

	state := DefaultUIState()
	if err := json.Unmarshal(data, state); err != nil {
		logger.Warn("Failed to parse UI state JSON: %v", err)
		return DefaultUIState()
	}
	return state
}

// Save writes the UI state to the data directory, creating it if needed.
func Save(dataDir string, state *UIState) error {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	path := filepath.Join(dataDir, FileName)
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling UI state: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing UI state file: %w", err)
	}

	logger.Debug("UI state saved to %s", path)
	return nil
}
