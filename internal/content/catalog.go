// Package content selects human-readable explanation text from a
// static, versioned catalog, deterministically keyed by report
// identity. The catalog is pure data: it is embedded at build time,
// parsed once, and indexed into immutable buckets.
package content

import (
	_ "embed"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/sourcing-cli/internal/model"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Bucket names partition the template catalog; they are non-overlapping
// by construction of the data file.
const (
	bucketGoStrong    = "go_strong"
	bucketGoWeak      = "go_weak"
	bucketHoldMissing = "hold_missing"
	bucketNoCompl     = "no_compliance"
	bucketNoEcon      = "no_economics"
)

// NudgeAction is one catalog nudge entry with its fixed selection
// priority. Lower priority numbers are offered first.
type NudgeAction struct {
	ActionKey  string              `yaml:"action_key"`
	Priority   int                 `yaml:"priority"`
	Severity   model.NudgeSeverity `yaml:"severity"`
	Target     model.NudgeTarget   `yaml:"target"`
	ActionText string              `yaml:"action_text"`
	TipText    string              `yaml:"tip_text"`
}

type catalogFile struct {
	Version   int             `yaml:"version"`
	Templates []templateEntry `yaml:"templates"`
	Nudges    []NudgeAction   `yaml:"nudges"`
}

type templateEntry struct {
	ID            int            `yaml:"id"`
	Decision      model.Decision `yaml:"decision"`
	Bucket        string         `yaml:"bucket"`
	CategoryHints []string       `yaml:"category_hints"`
	Statement     string         `yaml:"statement"`
}

// Catalog is the immutable in-memory index over the catalog file.
type Catalog struct {
	Version int

	byID     map[int]model.ContentTemplate
	byBucket map[string][]int
	hints    map[int][]string
	nudges   []NudgeAction
}

// Load parses and indexes the embedded catalog. Called once at process
// start.
func Load() (*Catalog, error) {
	return parse(catalogYAML)
}

func parse(raw []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, eris.Wrap(err, "content: parse catalog")
	}
	if len(f.Templates) == 0 {
		return nil, eris.New("content: catalog has no templates")
	}

	c := &Catalog{
		Version:  f.Version,
		byID:     make(map[int]model.ContentTemplate, len(f.Templates)),
		byBucket: make(map[string][]int),
		hints:    make(map[int][]string),
		nudges:   f.Nudges,
	}
	for _, t := range f.Templates {
		if _, dup := c.byID[t.ID]; dup {
			return nil, eris.Errorf("content: duplicate template id %d", t.ID)
		}
		c.byID[t.ID] = model.ContentTemplate{
			ID:            t.ID,
			Decision:      t.Decision,
			Statement:     t.Statement,
			CategoryHints: t.CategoryHints,
		}
		c.byBucket[t.Bucket] = append(c.byBucket[t.Bucket], t.ID)
		if len(t.CategoryHints) > 0 {
			c.hints[t.ID] = t.CategoryHints
		}
	}
	return c, nil
}

// Template returns the template with the given id, or false.
func (c *Catalog) Template(id int) (model.ContentTemplate, bool) {
	t, ok := c.byID[id]
	return t, ok
}

// Size returns the number of templates in the catalog.
func (c *Catalog) Size() int {
	return len(c.byID)
}

// Nudges returns the nudge action list in file order.
func (c *Catalog) Nudges() []NudgeAction {
	return c.nudges
}
