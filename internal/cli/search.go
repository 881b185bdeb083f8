package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/eterea/eterea/internal/domain"
	"github.com/eterea/eterea/internal/utils"
)

var (
	flagSearchTag       string
	flagSearchAuthor    string
	flagSearchFavorites bool
	flagSearchLimit     int
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search over stored bookmarks",
	Args:  cobra.MinimumNArgs(0),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&flagSearchTag, "tag", "", "Restrict to one tag")
	searchCmd.Flags().StringVar(&flagSearchAuthor, "author", "", "Restrict to one author handle")
	searchCmd.Flags().BoolVar(&flagSearchFavorites, "favorites", false, "Favorites only")
	searchCmd.Flags().IntVar(&flagSearchLimit, "limit", 20, "Number of results to show")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	store, cfg, _, err := openStore()
	if err != nil {
		return err
	}
	defer utils.Close(store)

	limit := flagSearchLimit
	if limit < 1 || limit > cfg.MaxSearchLimit {
		limit = cfg.MaxSearchLimit
	}

	f := domain.SearchFilters{
		Query:         strings.Join(args, " "),
		Tag:           flagSearchTag,
		Author:        flagSearchAuthor,
		FavoritesOnly: flagSearchFavorites,
		Limit:         limit,
	}
	items, err := store.Search(context.Background(), f)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("no matches")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tAUTHOR\tCONTENT\tTAGS\tURL")
	for _, b := range items {
		fmt.Fprintf(w, "%s\t@%s\t%s\t%s\t%s\n",
			b.TweetedAt.Format("2006-01-02"),
			b.AuthorHandle,
			truncate(b.Content, 60),
			strings.Join(b.Tags, ","),
			b.TweetURL)
	}
	return w.Flush()
}

func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
