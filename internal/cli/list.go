package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/movie-dashboard/internal/dashboard"
	"github.com/rcliao/movie-dashboard/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:     "browse",
		Aliases: []string{"list", "ls"},
		Short:   "Show the current page of movies",
		Long: "Fetch and show the current catalog page. Flags change the view before it is " +
			"loaded; the resulting view state is saved for the next run.",
		Run: runBrowse,
	}

	cmd.Flags().IntP("page", "p", 0, "Go to page")
	cmd.Flags().StringP("query", "q", "", "Search title and characters")
	cmd.Flags().StringP("sort", "s", "", "Sort: title_asc, title_desc, pop_asc, pop_desc")
	cmd.Flags().StringP("tab", "t", "", "Tab: movies or favorites")

	RootCmd.AddCommand(cmd)
}

func runBrowse(cmd *cobra.Command, args []string) {
	page, _ := cmd.Flags().GetInt("page")
	query, _ := cmd.Flags().GetString("query")
	sortKey, _ := cmd.Flags().GetString("sort")
	tab, _ := cmd.Flags().GetString("tab")

	if sortKey != "" && !model.ValidSortKeys[model.SortKey(sortKey)] {
		exitErr("browse", fmt.Errorf("unknown sort %q", sortKey))
	}
	if tab != "" && !model.ValidTabs[model.Tab(tab)] {
		exitErr("browse", fmt.Errorf("unknown tab %q", tab))
	}

	runDashboard(cmd, func(ctx context.Context, c *dashboard.Controller) error {
		if tab != "" {
			if err := c.SetTab(ctx, model.Tab(tab)); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("query") {
			if err := c.SetQuery(ctx, query); err != nil {
				return err
			}
		}
		if sortKey != "" {
			if err := c.SetSort(ctx, model.SortKey(sortKey)); err != nil {
				return err
			}
		}
		if page != 0 {
			return c.SetPage(ctx, page)
		}
		return nil
	})
}
