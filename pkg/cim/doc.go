// Copyright © 2018 One Concern

// Package cim describes the capability consumed from the composite-image
// writer/reader device.
//
// The device physically persists image blocks and mounts the resulting
// read-only volume. This package only declares the surface the image
// lifecycle drives: open a writer, insert directories and files, commit,
// mount and dismount. Implementations live in sub-packages (localfs is a
// development and test driver over a plain directory tree); the Windows
// CimFS device binds to the same surface.
package cim
