package catalog

import (
	"fmt"

	"makerbot/internal/domain"
)

// Catalog maps object names to their menu location for one style.
// It is immutable once built.
type Catalog struct {
	style      string
	byName     map[string]domain.CatalogEntry
	ordered    []domain.CatalogEntry
	groupSizes []int
}

// FromStyle flattens a style's categories and groups in declaration order.
// Group indexes run across all categories.
func FromStyle(style Style) (*Catalog, error) {
	c := &Catalog{
		style:  style.Name,
		byName: make(map[string]domain.CatalogEntry),
	}

	groupIndex := 0
	for _, category := range style.Categories {
		for _, group := range category.Groups {
			for itemIndex, name := range group {
				if prev, dup := c.byName[name]; dup {
					return nil, fmt.Errorf("style %q: duplicate object %q (groups %d and %d)",
						style.Name, name, prev.GroupIndex, groupIndex)
				}
				entry := domain.CatalogEntry{
					Name:       name,
					Category:   category.Name,
					GroupIndex: groupIndex,
					ItemIndex:  itemIndex,
				}
				c.byName[name] = entry
				c.ordered = append(c.ordered, entry)
			}
			c.groupSizes = append(c.groupSizes, len(group))
			groupIndex++
		}
	}

	return c, nil
}

// Style returns the name of the style this catalog was built from
func (c *Catalog) Style() string { return c.style }

// Lookup returns the entry for name
func (c *Catalog) Lookup(name string) (domain.CatalogEntry, error) {
	entry, ok := c.byName[name]
	if !ok {
		return domain.CatalogEntry{}, &domain.UnknownObjectError{Name: name, Style: c.style}
	}
	return entry, nil
}

// Entries returns every entry in menu order
func (c *Catalog) Entries() []domain.CatalogEntry {
	out := make([]domain.CatalogEntry, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// Len returns the number of objects
func (c *Catalog) Len() int { return len(c.ordered) }

// GroupCount returns the number of flattened groups
func (c *Catalog) GroupCount() int { return len(c.groupSizes) }

// GroupSize returns the number of items in a group, or 0 when out of range
func (c *Catalog) GroupSize(group int) int {
	if group < 0 || group >= len(c.groupSizes) {
		return 0
	}
	return c.groupSizes[group]
}
