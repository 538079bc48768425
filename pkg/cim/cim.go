// Copyright © 2018 One Concern

package cim

import (
	"context"
	"io"
	"time"

	"github.com/oneconcern/cimfs/pkg/volume"
)

// Info describes one image as known to the device
type Info struct {
	// Name of the image file under its root
	Name string `json:"name" yaml:"name"`

	// Base is the name of the image this one forks from, if any
	Base string `json:"base,omitempty" yaml:"base,omitempty"`

	// Committed indicates population is finalized: the image may be
	// read, forked from or mounted
	Committed bool `json:"committed" yaml:"committed"`

	// Entries counts the insertions performed so far
	Entries int `json:"entries" yaml:"entries"`

	// CreatedAt is the creation timestamp
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

// Writer populates a single open image.
//
// The device requires a parent directory to exist before anything is
// placed under it and does not itself reorder insertions: callers hand
// entries over parents first.
type Writer interface {
	// AddDirectory inserts a zero-length directory placeholder.
	// Re-adding an existing directory is a no-op, not an error.
	AddDirectory(ctx context.Context, path string) error

	// AddFile inserts file content read from src. An entry already
	// present (e.g. from a forked base) is overwritten.
	AddFile(ctx context.Context, path string, size int64, src io.Reader) error

	// Commit finalizes the image
	Commit(ctx context.Context) error

	// Close releases the underlying handle. Safe to call more than once.
	Close() error
}

// Driver abstracts the image writer/reader device.
//
// Typically this is the Windows CimFS device. Implementations of this
// interface are assumed to be fairly simple: all ordering and lifecycle
// guarantees live above it.
type Driver interface {
	String() string

	// OpenWriter opens a writer for image name under root, optionally
	// layered on an already committed base image
	OpenWriter(ctx context.Context, root, name, base string) (Writer, error)

	// Stat reports what the device knows about an image
	Stat(ctx context.Context, root, name string) (Info, error)

	// Mount exposes a committed image as a read-only volume and returns
	// the volume device path. The volume comes up under the given
	// identifier, or under a device-generated one when id is zero.
	Mount(ctx context.Context, root, name string, id volume.ID) (string, error)

	// Dismount tears down a mounted volume given its device path
	Dismount(ctx context.Context, volumePath string) error

	// AssignMountPoint binds a mounted volume to a path. Failure leaves
	// the volume mounted.
	AssignMountPoint(ctx context.Context, volumePath, mountPoint string) error
}
