package ids

import (
	"fmt"

	"github.com/google/uuid"
)

// VesselID identifies one vessel across saves. The host hands out GUIDs.
type VesselID uuid.UUID

// PartID is the flight id of a physical part, unique within a save.
type PartID uint32

// NewVesselID returns a random vessel id.
func NewVesselID() VesselID { return VesselID(uuid.New()) }

// ParseVesselID parses the canonical textual form.
func ParseVesselID(s string) (VesselID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return VesselID{}, fmt.Errorf("parse vessel id %q: %w", s, err)
	}
	return VesselID(u), nil
}

// MustParseVesselID is ParseVesselID for literals in tests and fixtures.
func MustParseVesselID(s string) VesselID {
	id, err := ParseVesselID(s)
	if err != nil {
		panic(err)
	}
	return id
}

func (id VesselID) String() string  { return uuid.UUID(id).String() }
func (id VesselID) IsZero() bool    { return uuid.UUID(id) == uuid.Nil }
func (id VesselID) UUID() uuid.UUID { return uuid.UUID(id) }

func (id VesselID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *VesselID) UnmarshalText(b []byte) error {
	parsed, err := ParseVesselID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
