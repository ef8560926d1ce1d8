package handler

import (
	"fmt"

	"github.com/bgres/server/internal/data"
)

// Converter turns recipe inputs into outputs, all inputs or nothing.
type Converter struct {
	base
	active bool
	recipe *data.ConverterDef
}

func newConverter(env *Env, owner Owner, part PartInfo, def *data.PartDef, m Module, generic bool) (*Converter, error) {
	if def == nil {
		return nil, fmt.Errorf("part %q not in catalog: %w", part.Name, ErrBadParameter)
	}
	name := m.Text("ConverterName", "")
	recipe := def.Converter(name)
	if recipe == nil {
		return nil, fmt.Errorf("part %q has no converter %q: %w", part.Name, name, ErrBadParameter)
	}
	// Generic converters only run in the background when they make power.
	if generic && !recipe.Produces(ElectricCharge) {
		return nil, ErrNotHandled
	}
	active, err := m.Bool("IsActivated", false)
	if err != nil {
		return nil, err
	}
	return &Converter{
		base:   base{env: env, owner: owner, part: part},
		active: active,
		recipe: recipe,
	}, nil
}

func (c *Converter) Kind() Kind   { return KindConverter }
func (c *Converter) Class() Class { return Both }

func (c *Converter) Process() {
	if !c.active {
		return
	}
	runRecipe(&c.base, KindConverter, c.recipe.Inputs, c.recipe.Outputs)
}
