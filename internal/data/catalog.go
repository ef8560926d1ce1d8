package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ResourceRate is one input or output line of a recipe, in units per second.
type ResourceRate struct {
	Name string  `yaml:"name"`
	Rate float64 `yaml:"rate"`
}

// SolarDef is the static configuration of a solar panel part.
type SolarDef struct {
	ChargeRate  float64      `yaml:"charge_rate"`
	SunTracking bool         `yaml:"sun_tracking"`
	UsesCurve   bool         `yaml:"uses_curve"`
	PowerKeys   [][2]float64 `yaml:"power_curve"` // sun altitude (m) → multiplier
	TempKeys    [][2]float64 `yaml:"temp_curve"`  // part temperature (K) → efficiency

	PowerCurve *Curve `yaml:"-"`
	TempCurve  *Curve `yaml:"-"`
}

type GeneratorDef struct {
	Inputs  []ResourceRate `yaml:"inputs"`
	Outputs []ResourceRate `yaml:"outputs"`
}

// ConverterDef is one named recipe; a part may carry several.
type ConverterDef struct {
	Name    string         `yaml:"name"`
	Inputs  []ResourceRate `yaml:"inputs"`
	Outputs []ResourceRate `yaml:"outputs"`
}

// Produces reports whether the recipe outputs resource.
func (c *ConverterDef) Produces(resource string) bool {
	for _, o := range c.Outputs {
		if o.Name == resource {
			return true
		}
	}
	return false
}

type FreezerDef struct {
	ChargePerMinute float64 `yaml:"charge_per_minute"` // per frozen crew member
	DeathRoll       float64 `yaml:"death_roll"`        // seconds without power before critical
}

// PartDef holds the static definition of one part type.
type PartDef struct {
	Name       string         `yaml:"name"`
	Title      string         `yaml:"title"`
	Solar      *SolarDef      `yaml:"solar"`
	Generator  *GeneratorDef  `yaml:"generator"`
	Converters []ConverterDef `yaml:"converters"`
	Freezer    *FreezerDef    `yaml:"freezer"`
}

// Converter returns the recipe with the given name, or the first recipe
// when name is empty.
func (p *PartDef) Converter(name string) *ConverterDef {
	for i := range p.Converters {
		if name == "" || p.Converters[i].Name == name {
			return &p.Converters[i]
		}
	}
	return nil
}

type partCatalogFile struct {
	Parts []PartDef `yaml:"parts"`
}

// PartCatalog holds all part definitions indexed by part name.
type PartCatalog struct {
	parts map[string]*PartDef
}

// LoadPartCatalog loads part_catalog.yaml.
func LoadPartCatalog(path string) (*PartCatalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read part catalog: %w", err)
	}
	return ParsePartCatalog(raw)
}

// ParsePartCatalog parses catalog YAML and fits every curve.
func ParsePartCatalog(raw []byte) (*PartCatalog, error) {
	var f partCatalogFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse part catalog: %w", err)
	}
	c := &PartCatalog{parts: make(map[string]*PartDef, len(f.Parts))}
	for i := range f.Parts {
		p := &f.Parts[i]
		if p.Name == "" {
			return nil, fmt.Errorf("part catalog entry %d has no name", i)
		}
		if _, dup := c.parts[p.Name]; dup {
			return nil, fmt.Errorf("part %q defined twice", p.Name)
		}
		if s := p.Solar; s != nil {
			var err error
			if len(s.PowerKeys) > 0 {
				if s.PowerCurve, err = NewCurve(s.PowerKeys); err != nil {
					return nil, fmt.Errorf("part %q power curve: %w", p.Name, err)
				}
			}
			if len(s.TempKeys) > 0 {
				if s.TempCurve, err = NewCurve(s.TempKeys); err != nil {
					return nil, fmt.Errorf("part %q temp curve: %w", p.Name, err)
				}
			}
		}
		c.parts[p.Name] = p
	}
	return c, nil
}

// Get returns a part definition by name, or nil if not found.
func (c *PartCatalog) Get(name string) *PartDef {
	if c == nil {
		return nil
	}
	return c.parts[name]
}

// Count returns the total number of part definitions loaded.
func (c *PartCatalog) Count() int {
	return len(c.parts)
}
