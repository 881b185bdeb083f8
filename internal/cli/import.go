package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eterea/eterea/internal/ingest"
	"github.com/eterea/eterea/internal/utils"
)

var flagImportDryRun bool

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a Dewey CSV, Twitter CSV or Twitter JSON export",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	importCmd.Flags().BoolVar(&flagImportDryRun, "dry-run", false, "Parse and report without writing anything")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	store, cfg, log, err := openStore()
	if err != nil {
		return err
	}
	defer utils.Close(store)

	importer := ingest.NewImporter(store, log.Named("import"), cfg.ImportBatchSize)
	report, err := importer.ImportFile(context.Background(), args[0], flagImportDryRun)
	if err != nil {
		return err
	}

	if report.DryRun {
		fmt.Println("dry run, nothing written")
	}
	fmt.Printf("Format:     %s\n", report.Format)
	fmt.Printf("Rows read:  %d\n", report.TotalRows)
	fmt.Printf("Imported:   %d\n", report.Imported)
	fmt.Printf("Duplicates: %d\n", report.SkippedDuplicates)
	fmt.Printf("Errors:     %d\n", len(report.Errors))
	for _, re := range report.Errors {
		fmt.Printf("  row %d: %s (%s)\n", re.Row, re.Reason, re.Fragment)
	}
	return nil
}
