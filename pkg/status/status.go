// Copyright © 2018 One Concern

// Package status declares the error constants returned by the image
// lifecycle, the path resolver and the volume identifier parser.
//
// NOTE: such constants are located in a separate package to avoid
// creating undue cyclical dependencies between pkg/core, pkg/cim and
// driver implementations.
package status

import "github.com/oneconcern/cimfs/pkg/errors"

var (
	// ErrNotFound indicates a host path to ingest does not exist
	ErrNotFound = errors.New("source object not found")

	// ErrInvalidBase indicates a fork base image is missing or was never committed
	ErrInvalidBase = errors.New("invalid base image")

	// ErrNotCreated indicates a population call before the image was created
	ErrNotCreated = errors.New("image not created")

	// ErrNotReady indicates a commit on an image that holds no open writer
	ErrNotReady = errors.New("image not ready to commit")

	// ErrAlreadyCreated indicates a second create on the same image
	ErrAlreadyCreated = errors.New("image already created")

	// ErrAlreadyCommitted indicates a second commit on the same image
	ErrAlreadyCommitted = errors.New("image already committed")

	// ErrInsertionFailed indicates the writer rejected an ancestor or object insertion.
	// The batch stops there: entries inserted before the failure are retained.
	ErrInsertionFailed = errors.New("insertion failed")

	// ErrInvalidIdentifier indicates a volume identifier that matches none of the
	// accepted spellings
	ErrInvalidIdentifier = errors.New("invalid volume identifier")

	// ErrMountFailed indicates the underlying device could not mount the image
	ErrMountFailed = errors.New("mount failed")

	// ErrDismountFailed indicates the underlying device could not dismount the volume
	ErrDismountFailed = errors.New("dismount failed")

	// ErrDriveAssignmentFailed indicates the volume mounted but the requested
	// mount point could not be assigned. The volume stays mounted.
	ErrDriveAssignmentFailed = errors.New("mount point assignment failed")

	// ErrExists indicates an image with that name already exists under the root
	ErrExists = errors.New("image exists already")

	// ErrClosed indicates an operation on an image whose handle was released
	ErrClosed = errors.New("image is closed")

	// ErrNotSupported indicates the driver does not implement this call
	ErrNotSupported = errors.New("not supported")
)
