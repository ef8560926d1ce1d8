package data

import (
	"fmt"
	"os"
	"sort"

	"github.com/bgres/server/internal/core/ids"
	"gopkg.in/yaml.v3"
)

// WarpStep switches the time-acceleration rate index at a given tick.
type WarpStep struct {
	AtTick    uint64 `yaml:"at_tick"`
	RateIndex int    `yaml:"rate_index"`
}

// SkyEntry is the illumination an unloaded vessel sits in.
type SkyEntry struct {
	InSunlight       bool    `yaml:"in_sunlight"`
	Flux             float64 `yaml:"flux"`        // fraction of home solar flux
	Orientation      float64 `yaml:"orientation"` // cosine of panel-to-sun angle
	SunAltitude      float64 `yaml:"sun_altitude"`
	OxygenAtmosphere bool    `yaml:"oxygen_atmosphere"`
}

type ResourceEntry struct {
	Name     string  `yaml:"name"`
	Amount   float64 `yaml:"amount"`
	Capacity float64 `yaml:"capacity"`
}

// ModuleEntry is a saved part module: its class name and persisted fields.
type ModuleEntry struct {
	Name   string            `yaml:"name"`
	Values map[string]string `yaml:"values"`
}

type PartEntry struct {
	ID          uint32          `yaml:"id"`
	Name        string          `yaml:"name"`
	Temperature float64         `yaml:"temperature"`
	Resources   []ResourceEntry `yaml:"resources"`
	Modules     []ModuleEntry   `yaml:"modules"`
}

type VesselEntry struct {
	ID     string      `yaml:"id"`
	Name   string      `yaml:"name"`
	Loaded bool        `yaml:"loaded"`
	Sky    SkyEntry    `yaml:"sky"`
	Parts  []PartEntry `yaml:"parts"`

	VesselID ids.VesselID `yaml:"-"`
}

// Scenario is the saved universe the service simulates: vessels plus the
// warp schedule the host would drive.
type Scenario struct {
	StartUT float64       `yaml:"start_ut"`
	Warp    []WarpStep    `yaml:"warp"`
	Vessels []VesselEntry `yaml:"vessels"`
}

// LoadScenario loads scenario.yaml.
func LoadScenario(path string) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return ParseScenario(raw)
}

// ParseScenario parses scenario YAML and resolves vessel ids.
func ParseScenario(raw []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	seen := make(map[ids.VesselID]bool, len(s.Vessels))
	for i := range s.Vessels {
		v := &s.Vessels[i]
		id, err := ids.ParseVesselID(v.ID)
		if err != nil {
			return nil, fmt.Errorf("vessel %q: %w", v.Name, err)
		}
		if seen[id] {
			return nil, fmt.Errorf("vessel %s listed twice", id)
		}
		seen[id] = true
		v.VesselID = id
	}
	sort.SliceStable(s.Warp, func(i, j int) bool { return s.Warp[i].AtTick < s.Warp[j].AtTick })
	return &s, nil
}

// RateIndexAt returns the warp step scheduled for tick, if any.
func (s *Scenario) RateIndexAt(tick uint64) (int, bool) {
	found, idx := false, 0
	for _, w := range s.Warp {
		if w.AtTick == tick {
			found, idx = true, w.RateIndex
		}
		if w.AtTick > tick {
			break
		}
	}
	return idx, found
}
