// Copyright © 2018 One Concern

package model

import (
	"strings"
)

// AncestorEntry is a directory path that must exist in an image before
// a deeper path can be inserted under it.
type AncestorEntry struct {
	Path string `json:"path" yaml:"path"`
}

// Depth is the number of path segments
func (a AncestorEntry) Depth() int {
	if a.Path == "" {
		return 0
	}
	return strings.Count(a.Path, "/") + 1
}

// Less orders entries by depth first, then lexically. A strict prefix
// has strictly smaller depth, so a parent always sorts before any of
// its descendants even when unrelated subtrees interleave.
func (a AncestorEntry) Less(b AncestorEntry) bool {
	da, db := a.Depth(), b.Depth()
	if da != db {
		return da < db
	}
	return a.Path < b.Path
}

// Parent yields the lexical parent entry, or false for a top level entry
func (a AncestorEntry) Parent() (AncestorEntry, bool) {
	i := strings.LastIndex(a.Path, "/")
	if i < 0 {
		return AncestorEntry{}, false
	}
	return AncestorEntry{Path: a.Path[:i]}, true
}

// Ancestors returns the strict proper prefixes of a slash separated
// target path, shallowest first. The target itself and the image root
// are never included: a top level target yields no ancestors.
func Ancestors(target string) []AncestorEntry {
	segments := strings.Split(target, "/")
	if target == "" || len(segments) < 2 {
		return nil
	}
	entries := make([]AncestorEntry, 0, len(segments)-1)
	for i := 1; i < len(segments); i++ {
		entries = append(entries, AncestorEntry{Path: strings.Join(segments[:i], "/")})
	}
	return entries
}
