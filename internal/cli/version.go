package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eterea/eterea/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show Eterea version and build information",
	RunE:  runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion(_ *cobra.Command, _ []string) error {
	fmt.Printf("Version:    %s\n", version.Version)
	fmt.Printf("Commit:     %s\n", version.Commit)
	fmt.Printf("Build Date: %s\n", version.BuildDate)
	fmt.Printf("Go Version: %s\n", version.GoVersion)
	return nil
}
