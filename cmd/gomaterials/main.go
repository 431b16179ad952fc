package main

import (
	"fmt"
	"os"

	"github.com/mwantia/gomaterials/cmd/gomaterials/cli"
	"github.com/mwantia/gomaterials/cmd/gomaterials/cli/server"
)

var (
	version = "0.1.0-dev"
	commit  = "main"
)

func main() {
	info := cli.VersionInfo{
		Version: version,
		Commit:  commit,
	}
	root := cli.NewRootCommand(info)

	root.AddCommand(cli.NewVersionCommand(info))

	root.AddCommand(server.NewAgentCommand())
	root.AddCommand(server.NewConfigCommand())
	root.AddCommand(server.NewMigrateCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
