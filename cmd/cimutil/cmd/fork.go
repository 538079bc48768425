// Copyright © 2018 One Concern

package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var forkCmd = &cobra.Command{
	Use:   "fork [objects]",
	Short: "Create and build a new cim image based on a pre-existing image",
	Long: `Create and build a new cim image layered on an already committed image.

The base image must exist in the same root directory and be committed.
The forked image shares the base's content without copying it; if a file
existed in the base image that file is overwritten in the fork.

Objects are resolved the same way as for "new".
`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		logger := paramsToLogger(params)
		root := paramsToRoot(params)
		buildImage(ctx, logger, root, params.fork.To, params.fork.From, args)
	},
}

func init() {
	requiredFlags := []string{addForkFromFlag(forkCmd)}
	requiredFlags = append(requiredFlags, addForkToFlag(forkCmd))

	for _, flag := range requiredFlags {
		err := forkCmd.MarkFlagRequired(flag)
		if err != nil {
			logFatalln(err)
		}
	}

	rootCmd.AddCommand(forkCmd)
}
