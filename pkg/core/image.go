// Copyright © 2018 One Concern

package core

import (
	"context"
	"fmt"
	"path/filepath"

	units "github.com/docker/go-units"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/oneconcern/cimfs/pkg/cim"
	"github.com/oneconcern/cimfs/pkg/cim/localfs"
	"github.com/oneconcern/cimfs/pkg/model"
	"github.com/oneconcern/cimfs/pkg/status"
	"github.com/oneconcern/cimfs/pkg/volume"
)

// State of an image's lifecycle
type State int

const (
	// Closed is the initial and terminal state: no writer handle is held
	Closed State = iota

	// Created means a writer is open and the image accepts insertions
	Created

	// Populated means at least one insertion was performed
	Populated

	// Committed means population is finalized: the image may be read,
	// forked from or mounted, never populated again
	Committed
)

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case Populated:
		return "populated"
	case Committed:
		return "committed"
	default:
		return "closed"
	}
}

// Image is one named composite-image artifact rooted at a configured
// root directory.
//
// An Image value drives a strict create → populate → commit lifecycle
// over the writer device. The caller exclusively owns it: two goroutines
// must not populate the same Image, though images with different names
// under the same root may be built concurrently.
type Image struct {
	root string
	name string
	base string

	state  State
	driver cim.Driver
	hostFS afero.Fs
	w      cim.Writer
	l      *zap.Logger
}

// NewImage yields a closed image handle for name under root
func NewImage(root, name string, opts ...ImageOption) *Image {
	i := &Image{
		root:   root,
		name:   name,
		hostFS: afero.NewOsFs(),
		l:      zap.NewNop(),
	}
	for _, apply := range opts {
		apply(i)
	}
	if i.driver == nil {
		i.driver = localfs.New(i.hostFS)
	}
	return i
}

// Name of the image file
func (i *Image) Name() string { return i.name }

// Root directory containing the image
func (i *Image) Root() string { return i.root }

// Base image this one forks from, empty for a regular image
func (i *Image) Base() string { return i.base }

// State of the lifecycle
func (i *Image) State() State { return i.state }

// Path of the image file on the host
func (i *Image) Path() string { return filepath.Join(i.root, i.name) }

// Create opens a writer for this image. With a non-empty base the image
// is opened as a fork layered on the base's already committed content:
// the base must exist under the same root and be committed
// (status.ErrInvalidBase otherwise). A second Create on the same image
// fails with status.ErrAlreadyCreated.
func (i *Image) Create(ctx context.Context, base string) error {
	if i.state != Closed {
		return status.ErrAlreadyCreated.WrapMessage("image %q is %s", i.name, i.state)
	}
	if base != "" {
		info, err := i.driver.Stat(ctx, i.root, base)
		if err != nil {
			return status.ErrInvalidBase.WrapMessage("base %q: %w", base, err)
		}
		if !info.Committed {
			return status.ErrInvalidBase.WrapMessage("base %q was never committed", base)
		}
	}
	w, err := i.driver.OpenWriter(ctx, i.root, i.name, base)
	if err != nil {
		return err
	}
	i.w = w
	i.base = base
	i.state = Created
	i.l.Info("image created",
		zap.String("image", i.Path()),
		zap.String("base", base),
		zap.String("driver", i.driver.String()),
	)
	return nil
}

// CreateFile inserts a single host object at target. The target's
// ancestor directories must already exist in the image.
func (i *Image) CreateFile(ctx context.Context, target, source string) error {
	if err := i.populatable(); err != nil {
		return err
	}
	if err := i.insertObject(ctx, model.Object{SourcePath: source, TargetPath: target}); err != nil {
		i.state = Populated
		return err
	}
	i.state = Populated
	return nil
}

// Build inserts a whole batch: every ancestor entry first, as
// zero-length directory placeholders in parent-before-child order, then
// every object in the caller-supplied sequence.
//
// The ancestor order is always re-derived here rather than trusted from
// the caller, because the writer requires parents to exist before
// children and does not itself reorder.
//
// On the first failed insertion the batch stops with
// status.ErrInsertionFailed naming the failing entry. There is no
// rollback: the writer offers no transactional abort, so entries
// inserted before the failure are retained and the image stays
// populated. Ancestor re-insertion is a no-op, which keeps retries safe.
func (i *Image) Build(ctx context.Context, set model.ObjectSet) error {
	if err := i.populatable(); err != nil {
		return err
	}
	merged := model.Merge(set)
	if merged.IsEmpty() {
		return nil
	}

	var total int64
	for _, ancestor := range merged.Ancestors {
		if err := i.w.AddDirectory(ctx, ancestor.Path); err != nil {
			i.state = Populated
			return status.ErrInsertionFailed.WrapMessage("ancestor %q: %w", ancestor.Path, err)
		}
		i.l.Debug("ancestor inserted", zap.String("path", ancestor.Path))
	}
	for _, obj := range merged.Objects {
		size, err := i.insertObjectSized(ctx, obj)
		if err != nil {
			i.state = Populated
			return err
		}
		total += size
	}
	i.state = Populated
	i.l.Info("batch inserted",
		zap.String("image", i.Path()),
		zap.Int("ancestors", len(merged.Ancestors)),
		zap.Int("objects", len(merged.Objects)),
		zap.String("size", units.HumanSize(float64(total))),
	)
	return nil
}

// Commit finalizes the image so it can be read, forked from or mounted.
// Committing with zero insertions is legal and produces an empty or
// pure-fork image.
func (i *Image) Commit(ctx context.Context) error {
	switch i.state {
	case Committed:
		return status.ErrAlreadyCommitted.WrapMessage("image %q", i.name)
	case Closed:
		return status.ErrNotReady.WrapMessage("image %q was never created", i.name)
	}
	if err := i.w.Commit(ctx); err != nil {
		return fmt.Errorf("committing image %q: %w", i.name, err)
	}
	i.state = Committed
	i.l.Info("image committed", zap.String("image", i.Path()))
	return nil
}

// Mount exposes the committed image as a read-only volume and returns
// its canonical volume identifier. The result is always read-only:
// write support is categorically unavailable.
//
// With a non-zero requested identifier the volume comes up under that
// GUID; otherwise the device picks one.
//
// With a non-empty mountPoint the volume is additionally bound to that
// path after the mount succeeds. A failure of that extra step does not
// unmount the volume: it is reported as status.ErrDriveAssignmentFailed
// and the returned identifier remains valid for manual assignment.
func (i *Image) Mount(ctx context.Context, requested volume.ID, mountPoint string) (volume.ID, error) {
	if i.state != Committed {
		// the image may have been committed by a previous run
		info, err := i.driver.Stat(ctx, i.root, i.name)
		if err != nil {
			return volume.ID{}, status.ErrNotReady.WrapMessage("image %q: %w", i.name, err)
		}
		if !info.Committed {
			return volume.ID{}, status.ErrNotReady.WrapMessage("image %q was never committed", i.name)
		}
	}
	volumePath, err := i.driver.Mount(ctx, i.root, i.name, requested)
	if err != nil {
		return volume.ID{}, status.ErrMountFailed.WrapMessage("image %q: %w", i.name, err)
	}
	id, err := volume.Normalize(volumePath)
	if err != nil {
		return volume.ID{}, status.ErrMountFailed.WrapMessage("device returned %q: %w", volumePath, err)
	}
	i.l.Info("image mounted", zap.String("image", i.Path()), zap.String("volume", id.String()))

	if mountPoint != "" {
		if err := i.driver.AssignMountPoint(ctx, id.String(), mountPoint); err != nil {
			return id, status.ErrDriveAssignmentFailed.WrapMessage("%q on %s: %w", mountPoint, id, err)
		}
		i.l.Info("mount point assigned", zap.String("volume", id.String()), zap.String("mountPoint", mountPoint))
	}
	return id, nil
}

// Close releases the writer handle. It is safe on every state and on
// every exit path, and releases the handle exactly once.
func (i *Image) Close() error {
	if i.w == nil {
		i.state = Closed
		return nil
	}
	w := i.w
	i.w = nil
	i.state = Closed
	return w.Close()
}

// Dismount tears down a mounted volume given any accepted spelling of
// its identifier. It is independent of any Image value: a volume
// mounted by a separate process run dismounts all the same.
//
// A syntactically invalid identifier fails with
// status.ErrInvalidIdentifier before the device is ever contacted.
func Dismount(ctx context.Context, driver cim.Driver, identifier string) error {
	id, err := volume.Normalize(identifier)
	if err != nil {
		return err
	}
	if err := driver.Dismount(ctx, id.String()); err != nil {
		return status.ErrDismountFailed.WrapMessage("%s: %w", id, err)
	}
	return nil
}

func (i *Image) populatable() error {
	switch i.state {
	case Created, Populated:
		return nil
	case Committed:
		return status.ErrAlreadyCommitted.WrapMessage("image %q", i.name)
	default:
		return status.ErrNotCreated.WrapMessage("image %q", i.name)
	}
}

func (i *Image) insertObject(ctx context.Context, obj model.Object) error {
	_, err := i.insertObjectSized(ctx, obj)
	return err
}

// insertObjectSized pushes one object through the writer, probing the
// host filesystem for its kind and size
func (i *Image) insertObjectSized(ctx context.Context, obj model.Object) (int64, error) {
	fi, err := i.hostFS.Stat(obj.SourcePath)
	if err != nil {
		return 0, status.ErrInsertionFailed.WrapMessage("%q: %w", obj.TargetPath, err)
	}
	if fi.IsDir() {
		if err := i.w.AddDirectory(ctx, obj.TargetPath); err != nil {
			return 0, status.ErrInsertionFailed.WrapMessage("%q: %w", obj.TargetPath, err)
		}
		i.l.Debug("directory inserted", zap.String("path", obj.TargetPath))
		return 0, nil
	}
	src, err := i.hostFS.Open(obj.SourcePath)
	if err != nil {
		return 0, status.ErrInsertionFailed.WrapMessage("%q: %w", obj.TargetPath, err)
	}
	defer src.Close()
	if err := i.w.AddFile(ctx, obj.TargetPath, fi.Size(), src); err != nil {
		return 0, status.ErrInsertionFailed.WrapMessage("%q: %w", obj.TargetPath, err)
	}
	i.l.Debug("file inserted",
		zap.String("path", obj.TargetPath),
		zap.String("size", units.HumanSize(float64(fi.Size()))),
	)
	return fi.Size(), nil
}
