// Copyright © 2018 One Concern

package localfs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/oneconcern/cimfs/pkg/cim"
	"github.com/oneconcern/cimfs/pkg/status"
)

type writer struct {
	*localFS
	root   string
	info   cim.Info
	closed bool
}

func (w *writer) layerPath(entry string) string {
	return filepath.Join(w.root, w.info.Name+layerSuffix, filepath.FromSlash(entry))
}

func (w *writer) AddDirectory(_ context.Context, entry string) error {
	if w.closed {
		return status.ErrClosed
	}
	target := w.layerPath(entry)
	if fi, err := w.fs.Stat(target); err == nil {
		if !fi.IsDir() {
			return fmt.Errorf("directory %q collides with an existing file", entry)
		}
		// re-insertion of an existing directory is a benign no-op
		return nil
	}
	if err := w.fs.MkdirAll(target, 0700); err != nil {
		return err
	}
	w.info.Entries++
	return nil
}

func (w *writer) AddFile(_ context.Context, entry string, size int64, src io.Reader) error {
	if w.closed {
		return status.ErrClosed
	}
	if parent := path.Dir(entry); parent != "." {
		if !w.hasDir(w.root, w.info.Name, parent) {
			return fmt.Errorf("parent directory %q does not exist in image", parent)
		}
	}
	layered := w.layerPath(entry)
	// the parent may live only down the base chain: materialize it in
	// this layer before writing
	if err := w.fs.MkdirAll(filepath.Dir(layered), 0700); err != nil {
		return err
	}
	target, err := w.fs.OpenFile(layered, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	written, err := io.Copy(target, src)
	if err != nil {
		_ = target.Close()
		return fmt.Errorf("writing %q: %w", entry, err)
	}
	if err := target.Close(); err != nil {
		return err
	}
	if size >= 0 && written != size {
		return fmt.Errorf("short write for %q: declared %d bytes, got %d", entry, size, written)
	}
	w.info.Entries++
	return nil
}

func (w *writer) Commit(_ context.Context) error {
	if w.closed {
		return status.ErrClosed
	}
	w.info.Committed = true
	return w.writeInfo(w.root, w.info)
}

func (w *writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if !w.info.Committed {
		// keep the partial descriptor current so the image stays inspectable
		return w.writeInfo(w.root, w.info)
	}
	return nil
}
