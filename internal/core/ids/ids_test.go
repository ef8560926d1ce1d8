package ids

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVesselIDRoundTrip(t *testing.T) {
	const raw = "6f1c2b7a-3d4e-4f50-8a9b-0c1d2e3f4a5b"
	id, err := ParseVesselID(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, id.String())
	assert.False(t, id.IsZero())

	text, err := id.MarshalText()
	require.NoError(t, err)

	var back VesselID
	require.NoError(t, back.UnmarshalText(text))
	assert.Equal(t, id, back)
}

func TestParseVesselIDRejectsGarbage(t *testing.T) {
	_, err := ParseVesselID("not-a-guid")
	assert.Error(t, err)
}

func TestZeroVesselID(t *testing.T) {
	var id VesselID
	assert.True(t, id.IsZero())
	assert.False(t, NewVesselID().IsZero())
}
