// Copyright © 2018 One Concern

package cmd

import (
	"context"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/oneconcern/cimfs/pkg/core"
)

var newCmd = &cobra.Command{
	Use:   "new [objects]",
	Short: "Create and build a new cim image",
	Long: `Create and build a new cim image in the root directory.

Objects can be files or directories. Directories are added recursively.
The relative path in the image is derived from the path passed to this
command: passing "../src/file.txt" makes the file available in the image
as "src/file.txt". A path that does not exist fails the command.

If an image or file already exists with the same name this command fails.
`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		logger := paramsToLogger(params)
		root := paramsToRoot(params)
		buildImage(ctx, logger, root, params.new.Name, "", args)
	},
}

// buildImage resolves objects, then drives a create → build → commit →
// close pass over one image. Shared by new and fork.
func buildImage(ctx context.Context, logger *zap.Logger, root, name, base string, sources []string) {
	set, err := core.ResolveAll(afero.NewOsFs(), sources, true)
	if err != nil {
		wrapFatalln("resolve objects", err)
		return
	}

	img := core.NewImage(root, name,
		core.Logger(logger),
		core.WithDriver(paramsToDriver(params)),
	)
	defer func() {
		if cerr := img.Close(); cerr != nil {
			logger.Error("closing image", zap.Error(cerr))
		}
	}()

	if err := img.Create(ctx, base); err != nil {
		wrapFatalln("create image "+name, err)
		return
	}
	if err := img.Build(ctx, set); err != nil {
		wrapFatalln("build image "+name, err)
		return
	}
	if err := img.Commit(ctx); err != nil {
		wrapFatalln("commit image "+name, err)
		return
	}
}

func init() {
	requiredFlags := []string{addNameFlag(newCmd)}

	for _, flag := range requiredFlags {
		err := newCmd.MarkFlagRequired(flag)
		if err != nil {
			logFatalln(err)
		}
	}

	rootCmd.AddCommand(newCmd)
}
