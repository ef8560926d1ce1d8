package handler

import (
	"errors"

	"github.com/bgres/server/internal/core/ids"
)

// Kind is the closed set of background behaviors.
type Kind uint8

const (
	KindSolarPanel Kind = iota + 1
	KindGenerator
	KindFissionGenerator
	KindConverter
	KindFreezer
)

func (k Kind) String() string {
	switch k {
	case KindSolarPanel:
		return "solar_panel"
	case KindGenerator:
		return "generator"
	case KindFissionGenerator:
		return "fission_generator"
	case KindConverter:
		return "converter"
	case KindFreezer:
		return "freezer"
	}
	return "unknown"
}

// Class decides which policy switches gate a handler.
type Class uint8

const (
	Producer Class = iota + 1
	Consumer
	Both
)

func (c Class) String() string {
	switch c {
	case Producer:
		return "producer"
	case Consumer:
		return "consumer"
	case Both:
		return "both"
	}
	return "unknown"
}

// Handler is one background behavior bound to a part. Process is called once
// per dispatch and talks to the owning vessel only through Owner.
type Handler interface {
	Process()
	Kind() Kind
	Class() Class
	Part() ids.PartID
}

// Policy holds the global dispatch switches.
type Policy struct {
	Enabled bool
	Produce bool
	Consume bool
}

// Allows reports whether a handler of class c may run. Both needs both legs.
func (p Policy) Allows(c Class) bool {
	if !p.Enabled {
		return false
	}
	switch c {
	case Producer:
		return p.Produce
	case Consumer:
		return p.Consume
	case Both:
		return p.Produce && p.Consume
	}
	return false
}

// Owner is the vessel cache a handler draws from and fills.
type Owner interface {
	ID() ids.VesselID
	Take(resource string, amount float64) float64
	Push(resource string, amount float64) float64
	Available(resource string) float64
}

// Module is a saved part module: class name plus persisted fields.
type Module struct {
	Name   string
	Values map[string]string
}

// PartInfo identifies the part a handler is bound to.
type PartInfo struct {
	ID          ids.PartID
	Name        string
	Temperature float64
}

var (
	ErrNotHandled   = errors.New("module not handled in background")
	ErrBadParameter = errors.New("bad module parameter")
)

const ElectricCharge = "ElectricCharge"

// base carries what every kind shares.
type base struct {
	env   *Env
	owner Owner
	part  PartInfo
}

func (b *base) Part() ids.PartID { return b.part.ID }
