package menu

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/andy/caterbook/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogue(t *testing.T) {
	c := Default()
	require.NotEmpty(t, c.Categories())

	for _, cat := range c.Categories() {
		assert.NotEmpty(t, cat.ID)
		assert.NotEmpty(t, cat.Items, cat.ID)
	}

	item, ok := c.Lookup("Paneer Tikka")
	require.True(t, ok)
	assert.True(t, item.IsVegetarian)
	assert.Equal(t, domain.SpiceMedium, item.SpiceLevel)
}

func TestFlattenDeduplicates(t *testing.T) {
	c := New([]domain.MenuCategory{
		{ID: "a", Items: []domain.MenuItem{{Name: "Naan"}, {Name: "Dal"}}},
		{ID: "b", Items: []domain.MenuItem{{Name: "Naan"}, {Name: "Kheer"}}},
	})
	assert.Equal(t, []string{"Naan", "Dal", "Kheer"}, c.Flatten())
}

func TestFilter(t *testing.T) {
	c := New([]domain.MenuCategory{
		{ID: "a", Items: []domain.MenuItem{{Name: "Paneer Tikka"}, {Name: "Chicken Tikka"}, {Name: "Dal"}}},
	})
	assert.Equal(t, []string{"Paneer Tikka", "Chicken Tikka"}, c.Filter("TIKKA"))
	assert.Len(t, c.Filter("  "), 3)
	assert.Empty(t, c.Filter("sushi"))
}

func TestSearch(t *testing.T) {
	c := New([]domain.MenuCategory{
		{ID: "starters", Items: []domain.MenuItem{{Name: "Samosa", Description: "potato pastry"}}},
		{ID: "mains", Items: []domain.MenuItem{{Name: "Aloo Gobi", Description: "Potato and cauliflower"}}},
	})

	assert.Len(t, c.Search(AllCategory, "potato"), 2)
	assert.Len(t, c.Search("mains", "potato"), 1)
	assert.Len(t, c.Search("starters", ""), 1)
	assert.Empty(t, c.Search("desserts", ""))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menu.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
- id: snacks
  name: Snacks
  icon: x
  items:
    - id: vada-pav
      name: Vada Pav
      price: 25
      vegetarian: true
      spice: Hot
`), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Vada Pav"}, c.Flatten())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	c, err = Load("")
	require.NoError(t, err)
	assert.NotEmpty(t, c.Flatten())
}
