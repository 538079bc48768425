// Copyright © 2018 One Concern

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oneconcern/cimfs/pkg/core"
	"github.com/oneconcern/cimfs/pkg/errors"
	"github.com/oneconcern/cimfs/pkg/status"
	"github.com/oneconcern/cimfs/pkg/volume"
)

var mountCmd = &cobra.Command{
	Use:   "mount <image>",
	Short: "Mount a cim image as a read-only volume",
	Long: `Mount a committed cim image as a read-only volume.

The image must exist in the root directory. The mounted volume path is
printed to stdout. Volumes are always mounted read-only: write support
is not available.

With --volume the volume comes up under the given GUID instead of a
generated one. Any of the spellings accepted by dismount may be used.

With --mountvol the volume is additionally bound to the given path after
the mount succeeds. If the path is occupied the binding fails but the
volume stays mounted, and the printed volume path remains valid for
manual assignment.
`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		logger := paramsToLogger(params)
		root := paramsToRoot(params)

		var requested volume.ID
		if text := params.mount.Volume; text != "" {
			var err error
			requested, err = volume.Normalize(text)
			if err != nil {
				wrapFatalln("mount image "+args[0], err)
				return
			}
		}

		img := core.NewImage(root, args[0],
			core.Logger(logger),
			core.WithDriver(paramsToDriver(params)),
		)
		defer func() { _ = img.Close() }()

		id, err := img.Mount(ctx, requested, params.mount.MountVol)
		if err != nil {
			if errors.Is(err, status.ErrDriveAssignmentFailed) {
				// the volume itself is mounted: print it before bailing out
				fmt.Println(id)
			}
			wrapFatalln("mount image "+args[0], err)
			return
		}
		fmt.Println(id)
	},
}

func init() {
	addMountVolFlag(mountCmd)
	addVolumeFlag(mountCmd)

	rootCmd.AddCommand(mountCmd)
}
