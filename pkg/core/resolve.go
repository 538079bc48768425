// Copyright © 2018 One Concern

package core

import (
	"os"
	"path"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/oneconcern/cimfs/pkg/model"
	"github.com/oneconcern/cimfs/pkg/status"
)

// Resolve probes the host filesystem for an object and computes the
// ordered set of ancestor directories that must exist in an image
// before the object can be inserted.
//
// The source path must exist (status.ErrNotFound otherwise). The target
// path, when not set by the caller, is derived from the source path.
// For a directory object with recursive set, the host subtree is
// enumerated and one object is produced per discovered entry, with
// ancestors resolved for each.
//
// Resolution only reads the host filesystem. It never touches the image.
func Resolve(fs afero.Fs, obj model.Object, recursive bool) (model.ObjectSet, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	fi, err := fs.Stat(obj.SourcePath)
	if err != nil {
		if os.IsNotExist(err) {
			return model.ObjectSet{}, status.ErrNotFound.WrapMessage("%q", obj.SourcePath)
		}
		return model.ObjectSet{}, status.ErrNotFound.WrapMessage("%q: %w", obj.SourcePath, err)
	}

	if obj.TargetPath == "" {
		obj.TargetPath = model.TargetFromSource(obj.SourcePath)
	}
	if obj.TargetPath == "" {
		return model.ObjectSet{}, status.ErrNotFound.WrapMessage("%q resolves to no target path", obj.SourcePath)
	}
	if fi.IsDir() {
		obj.Kind = model.KindDirectory
	} else {
		obj.Kind = model.KindFile
	}

	sets := []model.ObjectSet{{
		Ancestors: model.Ancestors(obj.TargetPath),
		Objects:   []model.Object{obj},
	}}

	if obj.Kind == model.KindDirectory && recursive {
		root := obj.SourcePath
		err := afero.Walk(fs, root, func(p string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if p == root {
				return nil
			}
			rel, err := filepath.Rel(root, p)
			if err != nil {
				return err
			}
			child := model.Object{
				SourcePath: p,
				TargetPath: path.Join(obj.TargetPath, filepath.ToSlash(rel)),
				Kind:       model.KindFile,
			}
			if info.IsDir() {
				child.Kind = model.KindDirectory
			}
			sets = append(sets, model.ObjectSet{
				Ancestors: model.Ancestors(child.TargetPath),
				Objects:   []model.Object{child},
			})
			return nil
		})
		if err != nil {
			return model.ObjectSet{}, status.ErrNotFound.WrapMessage("enumerating %q: %w", root, err)
		}
	}

	return model.Merge(sets...), nil
}

// ResolveAll resolves a batch of source paths and merges the results
// into a single build-ready set
func ResolveAll(fs afero.Fs, sources []string, recursive bool) (model.ObjectSet, error) {
	sets := make([]model.ObjectSet, 0, len(sources))
	for _, source := range sources {
		set, err := Resolve(fs, model.NewObject(source), recursive)
		if err != nil {
			return model.ObjectSet{}, err
		}
		sets = append(sets, set)
	}
	return model.Merge(sets...), nil
}
