// Copyright © 2018 One Concern

// Package volume normalizes the textual spellings of a mounted volume
// identifier into one canonical device path form.
//
// Four spellings are accepted interchangeably:
//
//	\\?\Volume{93B0CD56-86B0-43FA-820E-2E421CBE7411}
//	Volume{93B0CD56-86B0-43FA-820E-2E421CBE7411}
//	{93B0CD56-86B0-43FA-820E-2E421CBE7411}
//	93B0CD56-86B0-43FA-820E-2E421CBE7411
//
// Matching is case-insensitive on hex digits and on the Volume literal.
// The GUID body is validated structurally (8-4-4-4-12 hex groups).
package volume

import (
	"strings"

	"github.com/google/uuid"

	"github.com/oneconcern/cimfs/pkg/status"
)

const (
	devicePrefix  = `\\?\`
	volumeLiteral = "volume{"

	// canonical textual GUID length, hyphens included
	guidLen = 36
)

// ID is the canonical form of a volume identifier
type ID struct {
	guid uuid.UUID
}

// New generates a fresh volume identifier
func New() ID {
	return ID{guid: uuid.New()}
}

// String yields the canonical device path form, lowercase hex
func (id ID) String() string {
	return devicePrefix + "Volume{" + id.guid.String() + "}"
}

// GUID yields the bare lowercase GUID without any wrapping
func (id ID) GUID() string {
	return id.guid.String()
}

// IsZero indicates the zero identifier
func (id ID) IsZero() bool {
	return id.guid == uuid.UUID{}
}

// Normalize parses any of the accepted spellings into a canonical ID.
// Text matching none of them fails with status.ErrInvalidIdentifier.
func Normalize(text string) (ID, error) {
	s := strings.TrimSpace(text)
	s = strings.TrimSuffix(s, `\`) // tolerate the trailing separator mountvol prints

	if strings.HasPrefix(s, devicePrefix) {
		s = s[len(devicePrefix):]
		if !strings.EqualFold(safePrefix(s, len(volumeLiteral)), volumeLiteral) {
			return ID{}, status.ErrInvalidIdentifier.WrapMessage("%q: expected Volume{GUID} after %s", text, devicePrefix)
		}
	}

	body := s
	switch {
	case strings.EqualFold(safePrefix(s, len(volumeLiteral)), volumeLiteral):
		if !strings.HasSuffix(s, "}") {
			return ID{}, status.ErrInvalidIdentifier.WrapMessage("%q: unterminated volume token", text)
		}
		body = s[len(volumeLiteral) : len(s)-1]
	case strings.HasPrefix(s, "{"):
		if !strings.HasSuffix(s, "}") {
			return ID{}, status.ErrInvalidIdentifier.WrapMessage("%q: unterminated braced GUID", text)
		}
		body = s[1 : len(s)-1]
	}

	// uuid.Parse is lenient about urn prefixes and missing hyphens:
	// pin the strict 8-4-4-4-12 shape by length before parsing
	if len(body) != guidLen {
		return ID{}, status.ErrInvalidIdentifier.WrapMessage("%q: GUID must be 8-4-4-4-12 hex groups", text)
	}
	guid, err := uuid.Parse(body)
	if err != nil {
		return ID{}, status.ErrInvalidIdentifier.WrapMessage("%q: %w", text, err)
	}
	return ID{guid: guid}, nil
}

func safePrefix(s string, n int) string {
	if len(s) < n {
		return s
	}
	return s[:n]
}
