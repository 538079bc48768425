// Copyright © 2018 One Concern

package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/oneconcern/cimfs/pkg/core"
)

var dismountCmd = &cobra.Command{
	Use:   "dismount <volume>",
	Short: "Dismount a cim volume by volume identifier",
	Long: `Dismount a mounted cim volume.

The volume identifier may be given in any of the following spellings:
  - \\?\Volume{04522dcd-f383-4f1c-aea6-af8f93e020d5}
  - Volume{04522dcd-f383-4f1c-aea6-af8f93e020d5}
  - {04522dcd-f383-4f1c-aea6-af8f93e020d5}
  - 04522dcd-f383-4f1c-aea6-af8f93e020d5

You can locate the identifier via mountvol, or with winobj.exe from
sys-internals. The volume need not have been mounted by this process.
`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		// no root directory involved here: the identifier is enough
		if err := core.Dismount(ctx, paramsToDriver(params), args[0]); err != nil {
			wrapFatalln("dismount "+args[0], err)
			return
		}
	},
}

func init() {
	rootCmd.AddCommand(dismountCmd)
}
