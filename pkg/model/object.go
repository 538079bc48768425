// Copyright © 2018 One Concern

package model

import (
	"path/filepath"
	"strings"
)

// Kind discriminates files from directories. It is inferred by probing
// the host filesystem at resolution time, never supplied by callers.
type Kind int

const (
	// KindUnknown is the zero value, before resolution
	KindUnknown Kind = iota

	// KindFile is a regular file with byte content
	KindFile

	// KindDirectory is a directory entry with no byte content
	KindDirectory
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDirectory:
		return "directory"
	default:
		return "unknown"
	}
}

// Object is a pending insertion request: a host path to ingest and the
// path that entry will occupy inside the image.
type Object struct {
	// SourcePath locates the bytes to ingest on the host filesystem
	SourcePath string `json:"source" yaml:"source"`

	// TargetPath is the slash separated path inside the image.
	// When empty it is derived from SourcePath at resolution time.
	TargetPath string `json:"target" yaml:"target"`

	// Kind is filled in at resolution time
	Kind Kind `json:"kind" yaml:"kind"`
}

// NewObject queues a host path with a target path derived from the source
func NewObject(source string) Object {
	return Object{SourcePath: source}
}

// TargetFromSource normalizes a host path into the in-image target path:
// the path is cleaned, the volume name and root are stripped, and any
// leading "." or ".." components are dropped. The result is always
// slash separated.
//
// A source of "../src/file.txt" becomes "src/file.txt" in the image.
func TargetFromSource(source string) string {
	p := source
	if vol := filepath.VolumeName(p); vol != "" {
		p = p[len(vol):]
	}
	p = filepath.ToSlash(filepath.Clean(p))
	segments := strings.Split(p, "/")
	kept := make([]string, 0, len(segments))
	for _, segment := range segments {
		switch segment {
		case "", ".", "..":
			continue
		}
		kept = append(kept, segment)
	}
	return strings.Join(kept, "/")
}
