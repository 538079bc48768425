// Copyright © 2018 One Concern

package main

import (
	"github.com/oneconcern/cimfs/cmd/cimutil/cmd"
)

func main() {
	cmd.Execute()
}
