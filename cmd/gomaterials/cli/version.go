package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

type VersionInfo struct {
	Version string
	Commit  string
}

func (v VersionInfo) String() string {
	return fmt.Sprintf("%s.%s", v.Version, v.Commit)
}

func NewVersionCommand(info VersionInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of gomaterials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "gomaterials %s (%s %s/%s)\n", info, runtime.Version(), runtime.GOOS, runtime.GOARCH)
			return nil
		},
	}
}
