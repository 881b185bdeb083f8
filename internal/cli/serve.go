package cli

import (
	"github.com/spf13/cobra"

	"github.com/eterea/eterea/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the localhost API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	a, err := app.New()
	if err != nil {
		return err
	}
	return a.Run()
}
