// Package menu is the read-only catering menu catalogue.
package menu

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/andy/caterbook/internal/domain"
	"gopkg.in/yaml.v3"
)

// AllCategory is the pseudo-category that searches every category
const AllCategory = "all"

//go:embed catalogue.yaml
var defaultCatalogue []byte

// Catalogue holds menu categories in display order
type Catalogue struct {
	categories []domain.MenuCategory
}

// Default returns the catalogue compiled into the binary
func Default() *Catalogue {
	c, err := parse(defaultCatalogue)
	if err != nil {
		panic(fmt.Sprintf("embedded menu catalogue: %v", err))
	}
	return c
}

// Load reads a catalogue from a YAML file. An empty path yields the default.
func Load(path string) (*Catalogue, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read menu catalogue: %w", err)
	}
	c, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse menu catalogue %s: %w", path, err)
	}
	return c, nil
}

func parse(data []byte) (*Catalogue, error) {
	var categories []domain.MenuCategory
	if err := yaml.Unmarshal(data, &categories); err != nil {
		return nil, err
	}
	return &Catalogue{categories: categories}, nil
}

// New builds a catalogue from categories already in memory
func New(categories []domain.MenuCategory) *Catalogue {
	return &Catalogue{categories: categories}
}

// Categories returns the catalogue categories
func (c *Catalogue) Categories() []domain.MenuCategory {
	return c.categories
}

// Flatten returns every item name once, in catalogue order
func (c *Catalogue) Flatten() []string {
	seen := make(map[string]bool)
	var names []string
	for _, cat := range c.categories {
		for _, item := range cat.Items {
			if seen[item.Name] {
				continue
			}
			seen[item.Name] = true
			names = append(names, item.Name)
		}
	}
	return names
}

// Filter returns the flattened names containing query, ignoring case
func (c *Catalogue) Filter(query string) []string {
	names := c.Flatten()
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return names
	}
	matched := make([]string, 0, len(names))
	for _, name := range names {
		if strings.Contains(strings.ToLower(name), q) {
			matched = append(matched, name)
		}
	}
	return matched
}

// Lookup finds an item by exact name
func (c *Catalogue) Lookup(name string) (domain.MenuItem, bool) {
	for _, cat := range c.categories {
		for _, item := range cat.Items {
			if item.Name == name {
				return item, true
			}
		}
	}
	return domain.MenuItem{}, false
}

// Search matches query against item names and descriptions within one
// category, or across all of them for AllCategory. An unknown category
// yields nothing.
func (c *Catalogue) Search(categoryID, query string) []domain.MenuItem {
	var pool []domain.MenuItem
	if categoryID == "" || categoryID == AllCategory {
		for _, cat := range c.categories {
			pool = append(pool, cat.Items...)
		}
	} else {
		for _, cat := range c.categories {
			if cat.ID == categoryID {
				pool = cat.Items
				break
			}
		}
	}

	q := strings.ToLower(strings.TrimSpace(query))
	matched := make([]domain.MenuItem, 0, len(pool))
	for _, item := range pool {
		if q == "" ||
			strings.Contains(strings.ToLower(item.Name), q) ||
			strings.Contains(strings.ToLower(item.Description), q) {
			matched = append(matched, item)
		}
	}
	return matched
}
