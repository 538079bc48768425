// Copyright © 2018 One Concern

package cmd

import (
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/oneconcern/cimfs/pkg/cim"
	"github.com/oneconcern/cimfs/pkg/cim/localfs"
	"github.com/oneconcern/cimfs/pkg/dlogger"
)

type flagsT struct {
	new struct {
		Name string
	}
	fork struct {
		From string
		To   string
	}
	mount struct {
		MountVol string
		Volume   string
	}
	root struct {
		path     string
		logLevel string
		driver   string
	}
}

var params = flagsT{}

func addRootFlag(cmd *cobra.Command) string {
	flag := "root"
	cmd.PersistentFlags().StringVar(&params.root.path, flag, ".",
		"Root directory containing the cim images and data")
	return flag
}

func addLogLevelFlag(cmd *cobra.Command) string {
	flag := "loglevel"
	cmd.PersistentFlags().StringVar(&params.root.logLevel, flag, "info",
		"The logging level, one of: info, debug, none")
	return flag
}

func addNameFlag(cmd *cobra.Command) string {
	flag := "name"
	cmd.Flags().StringVarP(&params.new.Name, flag, "n", "",
		"Name of the cim image, ex. image.cim")
	return flag
}

func addForkFromFlag(cmd *cobra.Command) string {
	flag := "from"
	cmd.Flags().StringVarP(&params.fork.From, flag, "f", "",
		"Name of the existing cim to fork, must exist in the root directory. ex: existing.cim")
	return flag
}

func addForkToFlag(cmd *cobra.Command) string {
	flag := "to"
	cmd.Flags().StringVarP(&params.fork.To, flag, "t", "",
		"Name of the new cim based on the existing cim, created in the same root directory. ex: forked.cim")
	return flag
}

func addMountVolFlag(cmd *cobra.Command) string {
	flag := "mountvol"
	cmd.Flags().StringVarP(&params.mount.MountVol, flag, "m", "",
		"Path to bind the volume to after it is mounted. "+
			"If the path is occupied, binding fails but the volume stays mounted.")
	return flag
}

func addVolumeFlag(cmd *cobra.Command) string {
	flag := "volume"
	cmd.Flags().StringVarP(&params.mount.Volume, flag, "v", "",
		"GUID to mount the volume under, ex. 93b0cd56-86b0-43fa-820e-2e421cbe7411. "+
			"A fresh GUID is generated when omitted.")
	return flag
}

// paramsToLogger yields the logger configured by the global flags
func paramsToLogger(flags flagsT) *zap.Logger {
	logger, err := dlogger.GetLogger(flags.root.logLevel)
	if err != nil {
		wrapFatalln("set log level "+flags.root.logLevel, err)
		return nil
	}
	return logger
}

// paramsToDriver yields the image device selected by configuration
func paramsToDriver(flags flagsT) cim.Driver {
	switch flags.root.driver {
	case "", "localfs":
		return localfs.New(afero.NewOsFs())
	default:
		wrapFatalln("unknown driver "+flags.root.driver, nil)
		return nil
	}
}

// paramsToRoot canonicalizes the root directory argument. Dismount
// skips this: it operates on a volume identifier, not on the root.
func paramsToRoot(flags flagsT) string {
	root, err := filepath.Abs(flags.root.path)
	if err != nil {
		wrapFatalln("could not canonicalize path to root directory "+flags.root.path, err)
		return ""
	}
	return root
}
