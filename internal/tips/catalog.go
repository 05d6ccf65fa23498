// Package tips loads the catalog of unlockable tips.
package tips

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Tip is a catalog entry that can be bought with points.
type Tip struct {
	ID    string `yaml:"id"`
	Title string `yaml:"title"`
	Cost  int    `yaml:"cost"`
	Body  string `yaml:"body"`
}

type catalogFile struct {
	Tips []Tip `yaml:"tips"`
}

// Catalog is an ordered, id-indexed set of tips.
type Catalog struct {
	tips []Tip
	byID map[string]int
}

// Load reads a YAML catalog from path. An empty path or a missing file yields
// an empty catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return NewCatalog(nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewCatalog(nil)
		}
		return nil, fmt.Errorf("read tip catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse tip catalog: %w", err)
	}
	return NewCatalog(f.Tips)
}

// NewCatalog validates tips and indexes them by id.
func NewCatalog(tips []Tip) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]int, len(tips))}
	for _, t := range tips {
		t.ID = strings.TrimSpace(t.ID)
		if t.ID == "" {
			return nil, fmt.Errorf("tip %q: id is required", t.Title)
		}
		if t.Cost < 0 {
			return nil, fmt.Errorf("tip %s: cost must not be negative, got %d", t.ID, t.Cost)
		}
		if _, dup := c.byID[t.ID]; dup {
			return nil, fmt.Errorf("tip %s: duplicate id", t.ID)
		}
		c.byID[t.ID] = len(c.tips)
		c.tips = append(c.tips, t)
	}
	return c, nil
}

// Get returns the tip with the given id.
func (c *Catalog) Get(id string) (Tip, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Tip{}, false
	}
	return c.tips[i], true
}

// All returns the tips in file order.
func (c *Catalog) All() []Tip {
	return append([]Tip{}, c.tips...)
}

func (c *Catalog) Len() int { return len(c.tips) }
