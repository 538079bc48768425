package volume

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oneconcern/cimfs/pkg/errors"
	"github.com/oneconcern/cimfs/pkg/status"
)

const canonical = `\\?\Volume{93b0cd56-86b0-43fa-820e-2e421cbe7411}`

func TestNormalizeSpellings(t *testing.T) {
	for _, text := range []string{
		`\\?\Volume{93B0CD56-86B0-43FA-820E-2E421CBE7411}`,
		`Volume{93B0CD56-86B0-43FA-820E-2E421CBE7411}`,
		`{93B0CD56-86B0-43FA-820E-2E421CBE7411}`,
		`93B0CD56-86B0-43FA-820E-2E421CBE7411`,
		// case-insensitive literals, tolerated trailing separator
		`\\?\volume{93b0cd56-86b0-43fa-820e-2e421cbe7411}\`,
		`volume{93b0cd56-86b0-43fa-820e-2e421cbe7411}`,
	} {
		id, err := Normalize(text)
		require.NoError(t, err, "input %q", text)
		assert.Equal(t, canonical, id.String(), "input %q", text)
		assert.Equal(t, "93b0cd56-86b0-43fa-820e-2e421cbe7411", id.GUID())
	}
}

func TestNormalizeRejects(t *testing.T) {
	for _, text := range []string{
		"",
		"not-a-guid",
		"Volume{not-a-guid}",
		"Volume{93B0CD56-86B0-43FA-820E-2E421CBE7411", // unterminated
		"{93B0CD56-86B0-43FA-820E-2E421CBE7411",       // unterminated
		"93B0CD5686B043FA820E2E421CBE7411",            // wrong grouping, no hyphens
		"93B0CD56-86B0-43FA-820E-2E421CBE74",          // truncated
		"93B0CD56-86B0-43FA-820E-2E421CBE7411-FF",     // trailing group
		"93B0CD5X-86B0-43FA-820E-2E421CBE7411",        // non-hex
		"urn:uuid:93b0cd56-86b0-43fa-820e-2e421cbe7411",
		`\\?\{93B0CD56-86B0-43FA-820E-2E421CBE7411}`, // device prefix without Volume
	} {
		_, err := Normalize(text)
		require.Error(t, err, "input %q", text)
		assert.True(t, errors.Is(err, status.ErrInvalidIdentifier), "input %q", text)
	}
}

func TestNewIsCanonical(t *testing.T) {
	id := New()
	require.False(t, id.IsZero())

	back, err := Normalize(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, back)

	back, err = Normalize(id.GUID())
	require.NoError(t, err)
	assert.Equal(t, id, back)
}
