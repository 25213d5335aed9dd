package layout

import "github.com/labelforge/labelforge/pkg/units"

// Template is a named, fixed grid specification for a commercial die-cut
// label sheet. When a page setup selects a template, its columns, rows,
// and per-label size override the computed grid.
type Template struct {
	Name        string     `json:"name" toml:"name"`
	Description string     `json:"description,omitempty" toml:"description"`
	Columns     int        `json:"columns" toml:"columns"`
	Rows        int        `json:"rows" toml:"rows"`
	LabelWidth  float64    `json:"label_width" toml:"label_width"`
	LabelHeight float64    `json:"label_height" toml:"label_height"`
	Unit        units.Unit `json:"unit" toml:"unit"`
}

// builtinTemplates covers common A4 label sheet products.
var builtinTemplates = map[string]Template{
	"avery-l7160": {
		Name:        "avery-l7160",
		Description: "Avery L7160, 3x7 address labels",
		Columns:     3,
		Rows:        7,
		LabelWidth:  63.5,
		LabelHeight: 38.1,
		Unit:        units.Millimeter,
	},
	"avery-l7163": {
		Name:        "avery-l7163",
		Description: "Avery L7163, 2x7 shipping labels",
		Columns:     2,
		Rows:        7,
		LabelWidth:  99.1,
		LabelHeight: 38.1,
		Unit:        units.Millimeter,
	},
	"avery-l7651": {
		Name:        "avery-l7651",
		Description: "Avery L7651, 5x13 mini labels",
		Columns:     5,
		Rows:        13,
		LabelWidth:  38.1,
		LabelHeight: 21.2,
		Unit:        units.Millimeter,
	},
	"herma-4345": {
		Name:        "herma-4345",
		Description: "Herma 4345, 4x10 universal labels",
		Columns:     4,
		Rows:        10,
		LabelWidth:  48.3,
		LabelHeight: 25.4,
		Unit:        units.Millimeter,
	},
}

// TemplateNames lists the built-in template names.
func TemplateNames() []string {
	names := make([]string, 0, len(builtinTemplates))
	for name := range builtinTemplates {
		names = append(names, name)
	}
	return names
}

// LookupTemplate returns the built-in template with the given name.
func LookupTemplate(name string) (Template, bool) {
	tpl, ok := builtinTemplates[name]
	return tpl, ok
}

// resolveTemplate finds name in the custom map first, then the built-in
// catalog. An empty name or a miss leaves the computed grid in effect.
func resolveTemplate(name string, custom map[string]Template) (Template, bool) {
	if name == "" {
		return Template{}, false
	}
	if tpl, ok := custom[name]; ok {
		return tpl, true
	}
	return LookupTemplate(name)
}
