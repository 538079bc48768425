package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// CLIConfig describes the CLI configuration.
type CLIConfig struct {
	// bug in viper? Need to keep names of fields the same as the serialized names..
	Root     string `json:"root" yaml:"root"`         // Root directory containing images and data
	LogLevel string `json:"loglevel" yaml:"loglevel"` // Default logging level
	Driver   string `json:"driver" yaml:"driver"`     // Image device selection
}

func newConfig() (*CLIConfig, error) {
	var config CLIConfig
	err := viper.Unmarshal(&config)
	if err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *CLIConfig) setCimutilParams(flags *flagsT) {
	if flags.root.path == "" || flags.root.path == "." {
		if c.Root != "" {
			flags.root.path = c.Root
		}
	}
	if flags.root.logLevel == "" {
		flags.root.logLevel = c.LogLevel
	}
	if flags.root.driver == "" {
		flags.root.driver = c.Driver
	}
}

// configCmd represents the config related commands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Commands to manage a config",
	Long: `Commands to manage the cimutil CLI config.

Configuration for cimutil is the common set of flags that are needed for most commands and do not change across runs,
analogous to "git config ...". `,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
