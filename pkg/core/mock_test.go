package core

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/oneconcern/cimfs/pkg/cim"
	"github.com/oneconcern/cimfs/pkg/status"
	"github.com/oneconcern/cimfs/pkg/volume"
)

// fakeWriter records insertions in order and can be told to reject one
// specific entry
type fakeWriter struct {
	entries   []string
	failOn    string
	committed bool
	closes    int
}

func (w *fakeWriter) AddDirectory(_ context.Context, path string) error {
	if path == w.failOn {
		return fmt.Errorf("writer rejected %q", path)
	}
	w.entries = append(w.entries, "dir:"+path)
	return nil
}

func (w *fakeWriter) AddFile(_ context.Context, path string, size int64, src io.Reader) error {
	if path == w.failOn {
		return fmt.Errorf("writer rejected %q", path)
	}
	n, err := io.Copy(io.Discard, src)
	if err != nil {
		return err
	}
	if n != size {
		return fmt.Errorf("size mismatch for %q: declared %d, read %d", path, size, n)
	}
	w.entries = append(w.entries, "file:"+path)
	return nil
}

func (w *fakeWriter) Commit(_ context.Context) error {
	w.committed = true
	return nil
}

func (w *fakeWriter) Close() error {
	w.closes++
	return nil
}

// fakeDriver hands out a canned writer and canned mount results
type fakeDriver struct {
	writer    *fakeWriter
	infos     map[string]cim.Info
	openErr   error
	mountPath string
	mountErr  error
	assignErr error

	mounted    []string
	dismounted []string
	assigned   []string
}

func (d *fakeDriver) String() string { return "fake" }

func (d *fakeDriver) OpenWriter(_ context.Context, _, name, base string) (cim.Writer, error) {
	if d.openErr != nil {
		return nil, d.openErr
	}
	if d.writer == nil {
		d.writer = &fakeWriter{}
	}
	return d.writer, nil
}

func (d *fakeDriver) Stat(_ context.Context, _, name string) (cim.Info, error) {
	info, ok := d.infos[name]
	if !ok {
		return cim.Info{}, status.ErrNotFound.WrapMessage("image %q", name)
	}
	return info, nil
}

func (d *fakeDriver) Mount(_ context.Context, _, name string, id volume.ID) (string, error) {
	if d.mountErr != nil {
		return "", d.mountErr
	}
	if !id.IsZero() {
		d.mounted = append(d.mounted, id.String())
		return id.String(), nil
	}
	d.mounted = append(d.mounted, d.mountPath)
	return d.mountPath, nil
}

func (d *fakeDriver) Dismount(_ context.Context, volumePath string) error {
	d.dismounted = append(d.dismounted, volumePath)
	return nil
}

func (d *fakeDriver) AssignMountPoint(_ context.Context, volumePath, mountPoint string) error {
	if d.assignErr != nil {
		return d.assignErr
	}
	d.assigned = append(d.assigned, volumePath+"@"+mountPoint)
	return nil
}

// deadDriver fails the test on any contact with the device
type deadDriver struct {
	t *testing.T
}

func (d deadDriver) String() string { return "dead" }

func (d deadDriver) OpenWriter(context.Context, string, string, string) (cim.Writer, error) {
	d.t.Fatal("device contacted")
	return nil, nil
}

func (d deadDriver) Stat(context.Context, string, string) (cim.Info, error) {
	d.t.Fatal("device contacted")
	return cim.Info{}, nil
}

func (d deadDriver) Mount(context.Context, string, string, volume.ID) (string, error) {
	d.t.Fatal("device contacted")
	return "", nil
}

func (d deadDriver) Dismount(context.Context, string) error {
	d.t.Fatal("device contacted")
	return nil
}

func (d deadDriver) AssignMountPoint(context.Context, string, string) error {
	d.t.Fatal("device contacted")
	return nil
}
