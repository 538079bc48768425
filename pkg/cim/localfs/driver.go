// Copyright © 2018 One Concern

// Package localfs implements the cim capability against a plain
// directory tree.
//
// This driver backs development and tests on platforms without the
// CimFS device. An image "name" under a root is a yaml descriptor file
// "name" plus a payload directory "name.layer"; a fork records its base
// in the descriptor and layers content without copying. Mounted volumes
// are registered as yaml files in a registry directory, keyed by GUID.
package localfs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v2"

	"github.com/oneconcern/cimfs/pkg/cim"
	"github.com/oneconcern/cimfs/pkg/status"
	"github.com/oneconcern/cimfs/pkg/volume"
)

const layerSuffix = ".layer"

// DefaultRegistry is where mounted volumes are registered unless
// overridden with Registry. Volumes are host-global, so the registry
// lives outside any image root.
var DefaultRegistry = filepath.Join(os.TempDir(), "cimfs", "volumes")

// Option tunes the driver
type Option func(*localFS)

// Registry overrides the volume registration directory
func Registry(path string) Option {
	return func(l *localFS) {
		l.registry = path
	}
}

// New creates a local file system backed image driver
func New(fs afero.Fs, opts ...Option) cim.Driver {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	l := &localFS{fs: fs, registry: DefaultRegistry}
	for _, apply := range opts {
		apply(l)
	}
	return l
}

type localFS struct {
	fs       afero.Fs
	registry string
}

func (l *localFS) String() string {
	return "localfs"
}

// registration describes one mounted volume in the registry
type registration struct {
	Volume     string    `yaml:"volume"`
	Image      string    `yaml:"image"`
	Root       string    `yaml:"root"`
	MountPoint string    `yaml:"mountPoint,omitempty"`
	MountedAt  time.Time `yaml:"mountedAt"`
}

func (l *localFS) readInfo(root, name string) (cim.Info, error) {
	b, err := afero.ReadFile(l.fs, filepath.Join(root, name))
	if err != nil {
		if os.IsNotExist(err) {
			return cim.Info{}, status.ErrNotFound.WrapMessage("image %q in %q", name, root)
		}
		return cim.Info{}, err
	}
	var info cim.Info
	if err := yaml.Unmarshal(b, &info); err != nil {
		return cim.Info{}, fmt.Errorf("corrupt descriptor for %q: %w", name, err)
	}
	return info, nil
}

func (l *localFS) writeInfo(root string, info cim.Info) error {
	b, err := yaml.Marshal(info)
	if err != nil {
		return err
	}
	return afero.WriteFile(l.fs, filepath.Join(root, info.Name), b, 0600)
}

func (l *localFS) Stat(_ context.Context, root, name string) (cim.Info, error) {
	return l.readInfo(root, name)
}

func (l *localFS) OpenWriter(_ context.Context, root, name, base string) (cim.Writer, error) {
	if _, err := l.fs.Stat(filepath.Join(root, name)); err == nil {
		return nil, status.ErrExists.WrapMessage("image %q in %q", name, root)
	}
	if base != "" {
		info, err := l.readInfo(root, base)
		if err != nil {
			return nil, status.ErrInvalidBase.WrapMessage("base %q: %w", base, err)
		}
		if !info.Committed {
			return nil, status.ErrInvalidBase.WrapMessage("base %q was never committed", base)
		}
	}
	if err := l.fs.MkdirAll(filepath.Join(root, name+layerSuffix), 0700); err != nil {
		return nil, err
	}
	info := cim.Info{Name: name, Base: base, CreatedAt: time.Now()}
	if err := l.writeInfo(root, info); err != nil {
		return nil, err
	}
	return &writer{localFS: l, root: root, info: info}, nil
}

// hasDir reports whether dir exists in the image layer or anywhere down
// its base chain
func (l *localFS) hasDir(root, name, dir string) bool {
	for name != "" {
		fi, err := l.fs.Stat(filepath.Join(root, name+layerSuffix, filepath.FromSlash(dir)))
		if err == nil && fi.IsDir() {
			return true
		}
		info, err := l.readInfo(root, name)
		if err != nil {
			return false
		}
		name = info.Base
	}
	return false
}

func (l *localFS) Mount(_ context.Context, root, name string, id volume.ID) (string, error) {
	info, err := l.readInfo(root, name)
	if err != nil {
		return "", err
	}
	if !info.Committed {
		return "", fmt.Errorf("image %q was never committed", name)
	}
	if err := l.fs.MkdirAll(l.registry, 0700); err != nil {
		return "", err
	}
	if id.IsZero() {
		id = volume.New()
	} else if _, err := l.fs.Stat(l.registrationPath(id)); err == nil {
		return "", status.ErrExists.WrapMessage("volume %s is already mounted", id)
	}
	b, err := yaml.Marshal(registration{
		Volume:    id.GUID(),
		Image:     name,
		Root:      root,
		MountedAt: time.Now(),
	})
	if err != nil {
		return "", err
	}
	if err := afero.WriteFile(l.fs, l.registrationPath(id), b, 0600); err != nil {
		return "", err
	}
	return id.String(), nil
}

func (l *localFS) Dismount(_ context.Context, volumePath string) error {
	id, err := volume.Normalize(volumePath)
	if err != nil {
		return err
	}
	path := l.registrationPath(id)
	if _, err := l.fs.Stat(path); err != nil {
		return fmt.Errorf("volume %s is not mounted", id)
	}
	return l.fs.Remove(path)
}

func (l *localFS) AssignMountPoint(_ context.Context, volumePath, mountPoint string) error {
	id, err := volume.Normalize(volumePath)
	if err != nil {
		return err
	}
	path := l.registrationPath(id)
	b, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return fmt.Errorf("volume %s is not mounted", id)
	}
	var reg registration
	if err := yaml.Unmarshal(b, &reg); err != nil {
		return err
	}
	if _, err := l.fs.Stat(mountPoint); err == nil {
		return fmt.Errorf("mount point %q is occupied", mountPoint)
	}
	if dir := filepath.Dir(mountPoint); dir != "" {
		if err := l.fs.MkdirAll(dir, 0700); err != nil {
			return err
		}
	}
	// a marker file stands in for the reparse point a real mount sets up
	if err := afero.WriteFile(l.fs, mountPoint, []byte(id.String()+"\n"), 0600); err != nil {
		return err
	}
	reg.MountPoint = mountPoint
	b, err = yaml.Marshal(reg)
	if err != nil {
		return err
	}
	return afero.WriteFile(l.fs, path, b, 0600)
}

func (l *localFS) registrationPath(id volume.ID) string {
	return filepath.Join(l.registry, id.GUID()+".yaml")
}
