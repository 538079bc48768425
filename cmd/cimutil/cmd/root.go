// Copyright © 2018 One Concern

package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cimutil",
	Short: "cimutil assembles and mounts composite filesystem images",
	Long: `cimutil assembles a content-addressed, composite filesystem image from
host files and directories, forks new generations on top of committed
images, and mounts the result as a read-only volume.

Images live under a configured root directory. Mounting and dismounting
are OS-global operations and require elevated privilege.
`,
}

var config *CLIConfig

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		osExit(1)
	}
}

func init() {
	log.SetFlags(0)
	cobra.OnInitialize(initConfig)

	addRootFlag(rootCmd)
	addLogLevelFlag(rootCmd)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.SetDefault("root", ".")
	viper.SetDefault("loglevel", "info")
	viper.SetDefault("driver", "localfs")
	if os.Getenv("CIMUTIL_CONFIG") != "" {
		// Use config file from the flag.
		viper.SetConfigFile(os.Getenv("CIMUTIL_CONFIG"))
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.cimutil")
		viper.AddConfigPath("/etc/cimutil")
		viper.SetConfigName("cimutil")
	}

	viper.AutomaticEnv() // read in environment variables that match
	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		infoLogger.Println("Using config file:", viper.ConfigFileUsed())
	}
	var err error
	config, err = newConfig()
	if err != nil {
		logFatalln(err)
	}
	config.setCimutilParams(&params)
}
