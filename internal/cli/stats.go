package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/eterea/eterea/internal/utils"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show collection statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(_ *cobra.Command, _ []string) error {
	store, _, _, err := openStore()
	if err != nil {
		return err
	}
	defer utils.Close(store)

	stats, err := store.Stats(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("Bookmarks:  %d\n", stats.TotalBookmarks)
	fmt.Printf("Favorites:  %d\n", stats.FavoriteBookmarks)
	fmt.Printf("Authors:    %d\n", stats.UniqueAuthors)
	fmt.Printf("Tags:       %d\n", stats.UniqueTags)
	if stats.EarliestDate != nil && stats.LatestDate != nil {
		fmt.Printf("Range:      %s to %s\n",
			stats.EarliestDate.Format("2006-01-02"),
			stats.LatestDate.Format("2006-01-02"))
	}

	if len(stats.TopTags) > 0 {
		fmt.Println("\nTop tags:")
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, tc := range stats.TopTags {
			fmt.Fprintf(w, "  %s\t%d\n", tc.Name, tc.Count)
		}
		return w.Flush()
	}
	return nil
}
