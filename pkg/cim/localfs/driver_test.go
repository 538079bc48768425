package localfs

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oneconcern/cimfs/pkg/cim"
	"github.com/oneconcern/cimfs/pkg/status"
	"github.com/oneconcern/cimfs/pkg/volume"
)

const testRoot = "/images"

func setupDriver(t *testing.T) (cim.Driver, afero.Fs) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(testRoot, 0700))
	return New(fs, Registry("/volumes")), fs
}

func commitImage(t *testing.T, d cim.Driver, name string, entries map[string]string) {
	ctx := context.Background()
	w, err := d.OpenWriter(ctx, testRoot, name, "")
	require.NoError(t, err)
	// directories first: the writer wants parents before children
	for entry, content := range entries {
		if content == "" {
			require.NoError(t, w.AddDirectory(ctx, entry))
		}
	}
	for entry, content := range entries {
		if content != "" {
			require.NoError(t, w.AddFile(ctx, entry, int64(len(content)), strings.NewReader(content)))
		}
	}
	require.NoError(t, w.Commit(ctx))
	require.NoError(t, w.Close())
}

func TestWriterRoundTrip(t *testing.T) {
	d, fs := setupDriver(t)
	ctx := context.Background()

	w, err := d.OpenWriter(ctx, testRoot, "base.cim", "")
	require.NoError(t, err)

	require.NoError(t, w.AddDirectory(ctx, "src"))
	// re-insertion of an existing directory is a benign no-op
	require.NoError(t, w.AddDirectory(ctx, "src"))
	require.NoError(t, w.AddFile(ctx, "src/lib.rs", 3, strings.NewReader("lib")))

	require.NoError(t, w.Commit(ctx))
	require.NoError(t, w.Close())
	require.NoError(t, w.Close()) // close is idempotent

	info, err := d.Stat(ctx, testRoot, "base.cim")
	require.NoError(t, err)
	assert.True(t, info.Committed)
	assert.Equal(t, 2, info.Entries)

	content, err := afero.ReadFile(fs, "/images/base.cim.layer/src/lib.rs")
	require.NoError(t, err)
	assert.Equal(t, "lib", string(content))
}

func TestOpenWriterNameTaken(t *testing.T) {
	d, _ := setupDriver(t)
	commitImage(t, d, "base.cim", nil)

	_, err := d.OpenWriter(context.Background(), testRoot, "base.cim", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrExists))
}

func TestAddFileRequiresParent(t *testing.T) {
	d, _ := setupDriver(t)
	ctx := context.Background()

	w, err := d.OpenWriter(ctx, testRoot, "strict.cim", "")
	require.NoError(t, err)
	defer w.Close()

	err = w.AddFile(ctx, "missing/file.txt", 1, strings.NewReader("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"missing"`)

	// top level files need no parent
	require.NoError(t, w.AddFile(ctx, "file.txt", 1, strings.NewReader("x")))
}

func TestAddFileSizeMismatch(t *testing.T) {
	d, _ := setupDriver(t)
	ctx := context.Background()

	w, err := d.OpenWriter(ctx, testRoot, "sized.cim", "")
	require.NoError(t, err)
	defer w.Close()

	err = w.AddFile(ctx, "short.txt", 10, strings.NewReader("abc"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declared 10")
}

func TestForkLayersOnBase(t *testing.T) {
	scenario := func(t *testing.T, fs afero.Fs, root string) {
		d := New(fs, Registry(filepath.Join(root, ".volumes")))
		ctx := context.Background()

		w, err := d.OpenWriter(ctx, root, "base.cim", "")
		require.NoError(t, err)
		require.NoError(t, w.AddDirectory(ctx, "src"))
		require.NoError(t, w.AddFile(ctx, "src/lib.rs", 3, strings.NewReader("lib")))
		require.NoError(t, w.Commit(ctx))
		require.NoError(t, w.Close())

		w, err = d.OpenWriter(ctx, root, "fork.cim", "base.cim")
		require.NoError(t, err)

		// the parent directory exists only in the base layer
		require.NoError(t, w.AddFile(ctx, "src/extra.rs", 5, strings.NewReader("extra")))
		require.NoError(t, w.Commit(ctx))
		require.NoError(t, w.Close())

		info, err := d.Stat(ctx, root, "fork.cim")
		require.NoError(t, err)
		assert.Equal(t, "base.cim", info.Base)
		assert.True(t, info.Committed)

		content, err := afero.ReadFile(fs, filepath.Join(root, "fork.cim.layer", "src", "extra.rs"))
		require.NoError(t, err)
		assert.Equal(t, "extra", string(content))
	}

	t.Run("memfs", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, fs.MkdirAll(testRoot, 0700))
		scenario(t, fs, testRoot)
	})

	// MemMapFs creates missing parents on OpenFile, the OS does not
	t.Run("osfs", func(t *testing.T) {
		scenario(t, afero.NewOsFs(), t.TempDir())
	})
}

func TestForkInvalidBase(t *testing.T) {
	d, _ := setupDriver(t)
	ctx := context.Background()

	_, err := d.OpenWriter(ctx, testRoot, "fork.cim", "missing.cim")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrInvalidBase))

	// a base that was never committed is just as invalid
	w, err := d.OpenWriter(ctx, testRoot, "pending.cim", "")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, err = d.OpenWriter(ctx, testRoot, "fork2.cim", "pending.cim")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrInvalidBase))
}

func TestMountDismount(t *testing.T) {
	d, _ := setupDriver(t)
	ctx := context.Background()
	commitImage(t, d, "base.cim", nil)

	volumePath, err := d.Mount(ctx, testRoot, "base.cim", volume.ID{})
	require.NoError(t, err)
	id, err := volume.Normalize(volumePath)
	require.NoError(t, err)
	assert.Equal(t, id.String(), volumePath)

	require.NoError(t, d.Dismount(ctx, volumePath))

	// the volume is gone
	err = d.Dismount(ctx, volumePath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not mounted")
}

func TestMountChosenVolume(t *testing.T) {
	d, _ := setupDriver(t)
	ctx := context.Background()
	commitImage(t, d, "base.cim", nil)
	commitImage(t, d, "other.cim", nil)

	id, err := volume.Normalize("93b0cd56-86b0-43fa-820e-2e421cbe7411")
	require.NoError(t, err)

	volumePath, err := d.Mount(ctx, testRoot, "base.cim", id)
	require.NoError(t, err)
	assert.Equal(t, id.String(), volumePath)

	// the identifier is taken while the volume is up
	_, err = d.Mount(ctx, testRoot, "other.cim", id)
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrExists))

	require.NoError(t, d.Dismount(ctx, volumePath))
	_, err = d.Mount(ctx, testRoot, "other.cim", id)
	require.NoError(t, err)
}

func TestMountUncommitted(t *testing.T) {
	d, _ := setupDriver(t)
	ctx := context.Background()

	w, err := d.OpenWriter(ctx, testRoot, "pending.cim", "")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, err = d.Mount(ctx, testRoot, "pending.cim", volume.ID{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "never committed")

	_, err = d.Mount(ctx, testRoot, "missing.cim", volume.ID{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrNotFound))
}

func TestAssignMountPoint(t *testing.T) {
	d, fs := setupDriver(t)
	ctx := context.Background()
	commitImage(t, d, "base.cim", nil)

	volumePath, err := d.Mount(ctx, testRoot, "base.cim", volume.ID{})
	require.NoError(t, err)

	require.NoError(t, d.AssignMountPoint(ctx, volumePath, "/mnt/cim"))
	marker, err := afero.ReadFile(fs, "/mnt/cim")
	require.NoError(t, err)
	assert.Equal(t, volumePath+"\n", string(marker))

	// an occupied mount point is rejected, the volume stays mounted
	err = d.AssignMountPoint(ctx, volumePath, "/mnt/cim")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "occupied")
	require.NoError(t, d.Dismount(ctx, volumePath))
}
