package printspec

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var embeddedCatalog []byte

// Catalog is a read-only set of presets.
type Catalog struct {
	version    int
	categories []CategoryInfo
	jobs       []PrintJobSpec
	byID       map[string]int
}

type catalogFile struct {
	Version    int            `yaml:"version"`
	Categories []CategoryInfo `yaml:"categories"`
	Jobs       []PrintJobSpec `yaml:"jobs"`
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the embedded catalog. It panics if the embedded table
// violates a preset invariant.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(embeddedCatalog)
		if err != nil {
			panic(fmt.Sprintf("embedded print catalog: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Parse decodes and validates a catalog table.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if f.Version <= 0 {
		return nil, fmt.Errorf("catalog version must be positive, got %d", f.Version)
	}
	if len(f.Jobs) == 0 {
		return nil, fmt.Errorf("catalog has no jobs")
	}

	c := &Catalog{version: f.Version, categories: f.Categories, jobs: f.Jobs, byID: make(map[string]int, len(f.Jobs))}
	for i, j := range f.Jobs {
		if err := j.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byID[j.ID]; dup {
			return nil, fmt.Errorf("duplicate job id %q", j.ID)
		}
		c.byID[j.ID] = i
	}
	return c, nil
}

func (c *Catalog) Version() int { return c.version }

// Jobs returns a copy of all presets in table order.
func (c *Catalog) Jobs() []PrintJobSpec {
	out := make([]PrintJobSpec, len(c.jobs))
	copy(out, c.jobs)
	return out
}

// Categories returns a copy of the category descriptions.
func (c *Catalog) Categories() []CategoryInfo {
	out := make([]CategoryInfo, len(c.categories))
	copy(out, c.categories)
	return out
}

// ByID looks up a preset. Unknown ids wrap ErrUnknownJob.
func (c *Catalog) ByID(id string) (PrintJobSpec, error) {
	i, ok := c.byID[id]
	if !ok {
		return PrintJobSpec{}, fmt.Errorf("%w: %s", ErrUnknownJob, id)
	}
	return c.jobs[i], nil
}

// ByCategory returns the presets in category cat, in table order.
func (c *Catalog) ByCategory(cat Category) []PrintJobSpec {
	var out []PrintJobSpec
	for _, j := range c.jobs {
		if j.Category == cat {
			out = append(out, j)
		}
	}
	return out
}
