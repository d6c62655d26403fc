// Package catalog provides the curtain fabric collection and its search.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed fabrics.yml
var defaultFabrics []byte

// AllCategories is the pseudo-category that disables category filtering.
const AllCategories = "All"

var (
	// ErrItemNotFound is returned by Lookup for an unknown id.
	ErrItemNotFound = errors.New("catalog item not found")
	// ErrDuplicateID is returned when two items share an id.
	ErrDuplicateID = errors.New("duplicate catalog item id")
	// ErrNegativePrice is returned for an item priced below zero.
	ErrNegativePrice = errors.New("catalog item price must not be negative")
)

// Item is a single fabric offered for sale. Price is per square metre.
type Item struct {
	ID          string  `yaml:"id" json:"id"`
	Name        string  `yaml:"name" json:"name"`
	Description string  `yaml:"description" json:"description"`
	Price       float64 `yaml:"price" json:"price"`
	Image       string  `yaml:"image" json:"image"`
	Category    string  `yaml:"category" json:"category"`
	Material    string  `yaml:"material" json:"material"`
	Tone        string  `yaml:"tone,omitempty" json:"tone,omitempty"` // hex colour used by previews
}

// Catalog is an immutable, ordered fabric collection.
type Catalog struct {
	items []Item
	byID  map[string]int
}

// New builds a catalog, rejecting duplicate ids and negative prices.
// Item order is preserved and used as the sort tie-break.
func New(items []Item) (*Catalog, error) {
	c := &Catalog{
		items: make([]Item, 0, len(items)),
		byID:  make(map[string]int, len(items)),
	}
	for _, it := range items {
		if _, dup := c.byID[it.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateID, it.ID)
		}
		if it.Price < 0 {
			return nil, fmt.Errorf("%w: %q", ErrNegativePrice, it.ID)
		}
		c.byID[it.ID] = len(c.items)
		c.items = append(c.items, it)
	}
	return c, nil
}

// Parse decodes a YAML fabric list.
func Parse(data []byte) (*Catalog, error) {
	var items []Item
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	return New(items)
}

// Default returns the built-in fabric collection.
func Default() (*Catalog, error) {
	return Parse(defaultFabrics)
}

// MustDefault is Default for callers that cannot recover from a broken
// embedded collection.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Load reads a catalog from path, or the built-in collection when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}
	return Parse(data)
}

// Items returns a copy of the collection in catalog order.
func (c *Catalog) Items() []Item {
	return slices.Clone(c.items)
}

// Len returns the number of items.
func (c *Catalog) Len() int {
	return len(c.items)
}

// Lookup returns the item with the given id.
func (c *Catalog) Lookup(id string) (Item, error) {
	i, ok := c.byID[id]
	if !ok {
		return Item{}, fmt.Errorf("%w: %q", ErrItemNotFound, id)
	}
	return c.items[i], nil
}

// Categories returns "All" followed by each distinct category in the order
// it first appears.
func (c *Catalog) Categories() []string {
	out := []string{AllCategories}
	seen := map[string]bool{}
	for _, it := range c.items {
		if it.Category == "" || seen[it.Category] {
			continue
		}
		seen[it.Category] = true
		out = append(out, it.Category)
	}
	return out
}

// Search filters and sorts the collection.
func (c *Catalog) Search(q Query) Listing {
	return Listing{Items: Filter(c.items, q), Loaded: true}
}

// Listing is the result of a search. The zero value means the catalog has
// not been loaded yet, which is distinct from a loaded but empty result.
type Listing struct {
	Items  []Item
	Loaded bool
}

// Empty reports whether a loaded listing has no items.
func (l Listing) Empty() bool {
	return l.Loaded && len(l.Items) == 0
}

// Filter returns the items matching q, sorted by q.Sort. The input is not
// modified and ties keep their input order.
func Filter(items []Item, q Query) []Item {
	text := strings.ToLower(strings.TrimSpace(q.Text))
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if !q.matchesCategory(it) {
			continue
		}
		if text != "" && !matchesText(it, text) {
			continue
		}
		out = append(out, it)
	}
	slices.SortStableFunc(out, q.Sort.compare)
	return out
}

func matchesText(it Item, lowered string) bool {
	return strings.Contains(strings.ToLower(it.Name), lowered) ||
		strings.Contains(strings.ToLower(it.Description), lowered) ||
		strings.Contains(strings.ToLower(it.Material), lowered)
}
