package handler

import "fmt"

var moduleKinds = map[string]Kind{
	"ModuleDeployableSolarPanel": KindSolarPanel,
	"KopernicusSolarPanel":       KindSolarPanel,
	"KopernicusSolarPanelsFixer": KindSolarPanel,
	"ModuleGenerator":            KindGenerator,
	"FissionGenerator":           KindFissionGenerator,
	"TacGenericConverter":        KindConverter,
	"ModuleResourceConverter":    KindConverter,
	"DeepFreezer":                KindFreezer,
}

const genericConverter = "ModuleResourceConverter"

// KindForModule maps a saved module class name to its handler kind.
func KindForModule(name string) (Kind, bool) {
	k, ok := moduleKinds[name]
	return k, ok
}

// Builder constructs handlers from saved module state.
type Builder struct {
	env *Env
}

func NewBuilder(env *Env) *Builder {
	return &Builder{env: env}
}

// Build returns the handler for one module of one part. Modules with no
// background behavior return ErrNotHandled; malformed ones return an error
// wrapping ErrBadParameter.
func (b *Builder) Build(owner Owner, part PartInfo, m Module) (Handler, error) {
	kind, ok := KindForModule(m.Name)
	if !ok {
		return nil, ErrNotHandled
	}
	def := b.env.Catalog.Get(part.Name)

	var (
		h   Handler
		err error
	)
	switch kind {
	case KindSolarPanel:
		h, err = newSolarPanel(b.env, owner, part, def, m)
	case KindGenerator:
		h, err = newGenerator(b.env, owner, part, def, m)
	case KindFissionGenerator:
		h, err = newFissionGenerator(b.env, owner, part, m)
	case KindConverter:
		generic := m.Name == genericConverter
		if generic && !b.env.Options.IncludeGenericConverters {
			return nil, ErrNotHandled
		}
		h, err = newConverter(b.env, owner, part, def, m, generic)
	case KindFreezer:
		h, err = newFreezer(b.env, owner, part, def, m)
	default:
		return nil, ErrNotHandled
	}
	if err != nil {
		return nil, fmt.Errorf("build %s on part %d: %w", kind, part.ID, err)
	}
	return h, nil
}
