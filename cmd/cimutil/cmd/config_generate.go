package cmd

import (
	"os"
	"os/user"
	"path/filepath"

	"gopkg.in/yaml.v2"

	"github.com/spf13/cobra"
)

var configGen = &cobra.Command{
	Use:   "create",
	Short: "Create a config",
	Long:  "Create a config to use for cimutil. Config file will be placed in $HOME/.cimutil/cimutil.yaml",
	Run: func(cmd *cobra.Command, args []string) {
		user, err := user.Current()
		if user == nil || err != nil {
			wrapFatalln("Could not get home directory for user", nil)
			return
		}
		config := CLIConfig{
			Root:     params.root.path,
			LogLevel: params.root.logLevel,
			Driver:   params.root.driver,
		}
		o, e := yaml.Marshal(config)
		if e != nil {
			wrapFatalln("serialize config to yaml", e)
			return
		}
		_ = os.Mkdir(filepath.Join(user.HomeDir, ".cimutil"), 0777)
		err = os.WriteFile(filepath.Join(user.HomeDir, ".cimutil", "cimutil.yaml"), o, 0666)
		if err != nil {
			wrapFatalln("write config file", err)
			return
		}
	},
}

func init() {
	configCmd.AddCommand(configGen)
}
