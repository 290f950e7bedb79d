package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/movie-dashboard/internal/dashboard"
	"github.com/rcliao/movie-dashboard/internal/model"
)

func init() {
	page := &cobra.Command{
		Use:   "page <n|next|prev|first|last>",
		Short: "Go to a catalog page",
		Args:  cobra.ExactArgs(1),
		Run:   runPage,
	}

	search := &cobra.Command{
		Use:   "search [query]",
		Short: "Filter the current page by title or character (no query clears the search)",
		Run:   runSearch,
	}

	sortCmd := &cobra.Command{
		Use:       "sort <title_asc|title_desc|pop_asc|pop_desc>",
		Short:     "Change the sort order",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"title_asc", "title_desc", "pop_asc", "pop_desc"},
		Run:       runSort,
	}

	tab := &cobra.Command{
		Use:       "tab <movies|favorites>",
		Short:     "Switch between the catalog and favorites",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"movies", "favorites"},
		Run:       runTab,
	}

	reset := &cobra.Command{
		Use:   "reset",
		Short: "Clear the search and restore the default sort",
		Run:   runReset,
	}

	reload := &cobra.Command{
		Use:   "reload",
		Short: "Fetch the current page again",
		Run: func(cmd *cobra.Command, args []string) {
			runDashboard(cmd, func(ctx context.Context, c *dashboard.Controller) error {
				c.Reload(ctx)
				return nil
			})
		},
	}

	RootCmd.AddCommand(page, search, sortCmd, tab, reset, reload)
}

func runPage(cmd *cobra.Command, args []string) {
	target := strings.ToLower(args[0])
	var n int
	switch target {
	case "next", "prev", "first", "last":
	default:
		v, err := strconv.Atoi(target)
		if err != nil {
			exitErr("page", fmt.Errorf("invalid page %q", args[0]))
		}
		n = v
	}

	runDashboard(cmd, func(ctx context.Context, c *dashboard.Controller) error {
		if err := c.SetTab(ctx, model.TabMovies); err != nil {
			return err
		}
		switch target {
		case "first":
			return c.SetPage(ctx, 1)
		case "next", "prev", "last":
			if err := loadFirst(ctx, c); err != nil {
				return err
			}
			switch target {
			case "next":
				return c.NextPage(ctx)
			case "prev":
				return c.PrevPage(ctx)
			}
			return c.SetPage(ctx, c.Snapshot().TotalPages)
		}
		return c.SetPage(ctx, n)
	})
}

func runSearch(cmd *cobra.Command, args []string) {
	query := strings.Join(args, " ")
	runDashboard(cmd, func(ctx context.Context, c *dashboard.Controller) error {
		return c.SetQuery(ctx, query)
	})
}

func runSort(cmd *cobra.Command, args []string) {
	key := model.SortKey(args[0])
	if !model.ValidSortKeys[key] {
		exitErr("sort", fmt.Errorf("unknown sort %q", args[0]))
	}
	runDashboard(cmd, func(ctx context.Context, c *dashboard.Controller) error {
		return c.SetSort(ctx, key)
	})
}

func runTab(cmd *cobra.Command, args []string) {
	tab := model.Tab(args[0])
	if !model.ValidTabs[tab] {
		exitErr("tab", fmt.Errorf("unknown tab %q", args[0]))
	}
	runDashboard(cmd, func(ctx context.Context, c *dashboard.Controller) error {
		return c.SetTab(ctx, tab)
	})
}

func runReset(cmd *cobra.Command, args []string) {
	runDashboard(cmd, func(ctx context.Context, c *dashboard.Controller) error {
		return c.ResetFilters(ctx)
	})
}
