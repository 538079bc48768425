// Copyright © 2018 One Concern

package core

import (
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/oneconcern/cimfs/pkg/cim"
)

// ImageOption is a functor to build an image with some options
type ImageOption func(*Image)

// Logger sets a logger for the image. Defaults to a no-op logger.
func Logger(l *zap.Logger) ImageOption {
	return func(i *Image) {
		if l != nil {
			i.l = l
		}
	}
}

// WithDriver sets the writer/reader device the image delegates its I/O
// to. Defaults to the localfs development driver.
func WithDriver(d cim.Driver) ImageOption {
	return func(i *Image) {
		if d != nil {
			i.driver = d
		}
	}
}

// WithHostFs sets the host filesystem source objects are read from.
// Defaults to the OS filesystem; tests run on a memory map.
func WithHostFs(fs afero.Fs) ImageOption {
	return func(i *Image) {
		if fs != nil {
			i.hostFS = fs
		}
	}
}
