package cmd

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version is set at build time from git describe --tags
	Version string
	// BuildDate is set at build time
	BuildDate string
	// GitCommit is set at build time
	GitCommit string
)

// VersionInfo describes the built binary
type VersionInfo struct {
	Version   string `json:"version,omitempty"`
	BuildDate string `json:"buildDate,omitempty"`
	GitCommit string `json:"gitCommit,omitempty"`
}

// NewVersionInfo yields the build information stamped into the binary
func NewVersionInfo() VersionInfo {
	ver := VersionInfo{
		Version:   "dev",
		BuildDate: BuildDate,
		GitCommit: GitCommit,
	}
	if Version != "" {
		ver.Version = Version
	}
	return ver
}

func (v VersionInfo) String() string {
	var buf bytes.Buffer
	buf.WriteString("Version: ")
	buf.WriteString(v.Version)
	buf.WriteString("\n")
	buf.WriteString("Build date: ")
	buf.WriteString(v.BuildDate)
	buf.WriteString("\n")
	buf.WriteString("Commit: ")
	buf.WriteString(v.GitCommit)
	buf.WriteString("\n")
	return buf.String()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "prints the version of cimutil",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print(NewVersionInfo())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
