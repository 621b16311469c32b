package rss

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed feeds.yaml
var defaultCatalog []byte

// Catalog maps a category and region to the feeds that serve them.
//
//	categories:
//	  technology:
//	    india:
//	      - https://...
type Catalog struct {
	Categories map[string]map[string][]string `yaml:"categories"`
}

// LoadCatalog reads the catalog from path, or the built-in one when path is
// empty.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return ParseCatalog(defaultCatalog)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading feeds catalog: %w", err)
	}
	return ParseCatalog(data)
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("error parsing feeds catalog: %w", err)
	}
	if len(c.Categories) == 0 {
		return nil, errors.New("feeds catalog has no categories")
	}
	return &c, nil
}

// Feeds returns the feed URLs for category and region in configured order.
// Unknown pairs yield nil.
func (c *Catalog) Feeds(category, region string) []string {
	return c.Categories[category][region]
}

// CategoryNames returns the configured categories, sorted.
func (c *Catalog) CategoryNames() []string {
	names := make([]string, 0, len(c.Categories))
	for name := range c.Categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Regions returns the regions configured for category, sorted.
func (c *Catalog) Regions(category string) []string {
	regions := make([]string, 0, len(c.Categories[category]))
	for region := range c.Categories[category] {
		regions = append(regions, region)
	}
	sort.Strings(regions)
	return regions
}
