package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rcliao/movie-dashboard/internal/dashboard"
)

func init() {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show the details of a movie",
		Long:  "Show the details of a movie from favorites or the current catalog page.",
		Args:  cobra.ExactArgs(1),
		Run:   runShow,
	}

	RootCmd.AddCommand(cmd)
}

func runShow(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	id := args[0]

	a := openApp(ctx)
	defer a.Close()
	a.requireUser()

	rec, ok := a.favs.Get(id)
	if !ok {
		c := newController(a)
		defer c.Close()
		if err := loadFirst(ctx, c); err != nil {
			exitErr("show", err)
		}
		if rec, ok = dashboard.Find(c.Snapshot().Records, id); !ok {
			exitErr("show", fmt.Errorf("no movie %q on page %d", id, a.ui.State().Page))
		}
	}

	d := dashboard.DetailsOf(rec, a.favs.IsFavorite(rec))
	printOut(d, func(w io.Writer) {
		fmt.Fprintln(w, d.Title)
		if d.Subtitle != "" {
			fmt.Fprintln(w, d.Subtitle)
		}
		fmt.Fprintf(w, "Popularity: %s\n", d.Popularity)
		if d.Characters != "" {
			fmt.Fprintf(w, "Characters: %s\n", d.Characters)
		}
		if d.PosterURL != "" {
			fmt.Fprintf(w, "Poster: %s\n", d.PosterURL)
		}
		if d.Favorite {
			fmt.Fprintln(w, "In favorites")
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, d.Raw)
	})
}
