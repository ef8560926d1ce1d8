package handler

import (
	"fmt"

	"github.com/bgres/server/internal/data"
)

// Generator runs the part's generator recipe. Without inputs it is a pure
// producer.
type Generator struct {
	base
	active  bool
	inputs  []data.ResourceRate
	outputs []data.ResourceRate
}

func newGenerator(env *Env, owner Owner, part PartInfo, def *data.PartDef, m Module) (*Generator, error) {
	if def == nil || def.Generator == nil {
		return nil, fmt.Errorf("part %q has no generator definition: %w", part.Name, ErrBadParameter)
	}
	active, err := m.Bool("generatorIsActive", true)
	if err != nil {
		return nil, err
	}
	return &Generator{
		base:    base{env: env, owner: owner, part: part},
		active:  active,
		inputs:  def.Generator.Inputs,
		outputs: def.Generator.Outputs,
	}, nil
}

func (g *Generator) Kind() Kind { return KindGenerator }

func (g *Generator) Class() Class {
	if len(g.inputs) > 0 {
		return Both
	}
	return Producer
}

func (g *Generator) Process() {
	if !g.active {
		return
	}
	runRecipe(&g.base, KindGenerator, g.inputs, g.outputs)
}
