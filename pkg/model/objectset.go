// Copyright © 2018 One Concern

package model

import (
	"sort"
)

// ObjectSet is the batch handed to an image build: the merged ancestor
// closure, ordered depth first then lexically, plus the objects in
// their original sequence.
type ObjectSet struct {
	Ancestors []AncestorEntry `json:"ancestors" yaml:"ancestors"`
	Objects   []Object        `json:"objects" yaml:"objects"`
}

// IsEmpty indicates a set with nothing to insert
func (s ObjectSet) IsEmpty() bool {
	return len(s.Ancestors) == 0 && len(s.Objects) == 0
}

// Merge combines per-object sets into one deduplicated batch.
//
// Ancestors are deduplicated by path and re-sorted: the order of the
// inputs is never trusted, because the underlying writer requires
// parents to exist before children and does not itself reorder.
// Objects keep their first-seen order, deduplicated by target path, so
// merging the same resolution twice yields an identical set.
func Merge(sets ...ObjectSet) ObjectSet {
	var merged ObjectSet

	seenAncestors := make(map[string]struct{})
	seenObjects := make(map[string]struct{})

	for _, set := range sets {
		for _, a := range set.Ancestors {
			if _, ok := seenAncestors[a.Path]; ok {
				continue
			}
			seenAncestors[a.Path] = struct{}{}
			merged.Ancestors = append(merged.Ancestors, a)
		}
		for _, o := range set.Objects {
			if _, ok := seenObjects[o.TargetPath]; ok {
				continue
			}
			seenObjects[o.TargetPath] = struct{}{}
			merged.Objects = append(merged.Objects, o)
		}
	}

	sort.Slice(merged.Ancestors, func(i, j int) bool {
		return merged.Ancestors[i].Less(merged.Ancestors[j])
	})
	return merged
}
