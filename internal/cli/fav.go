package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/movie-dashboard/internal/dashboard"
	"github.com/rcliao/movie-dashboard/internal/model"
	"github.com/rcliao/movie-dashboard/internal/resolve"
)

func init() {
	fav := &cobra.Command{
		Use:   "fav",
		Short: "Manage favorites",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List favorites, most recently added first",
		Run:   runFavList,
	}

	toggle := &cobra.Command{
		Use:   "toggle <id>",
		Short: "Add a movie from the current page to favorites, or remove it",
		Args:  cobra.ExactArgs(1),
		Run:   runFavToggle,
	}

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a favorite",
		Args:  cobra.ExactArgs(1),
		Run:   runFavRm,
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all favorites",
		Run:   runFavClear,
	}

	export := &cobra.Command{
		Use:   "export",
		Short: "Export favorites as JSON",
		Run:   runFavExport,
	}

	imp := &cobra.Command{
		Use:   "import [file]",
		Short: "Import favorites from JSON",
		Long:  "Import favorites from a JSON array (file or stdin). Records already saved are skipped.",
		Args:  cobra.MaximumNArgs(1),
		Run:   runFavImport,
	}

	fav.AddCommand(list, toggle, rm, clearCmd, export, imp)
	RootCmd.AddCommand(fav)
}

func printFavorites(recs []model.Record) {
	rows := make([]movieRow, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, movieRow{CanonicalView: resolve.View(r), Favorite: true})
	}
	printOut(rows, func(w io.Writer) {
		if len(rows) == 0 {
			fmt.Fprintln(w, "No favorites yet. Add some from Movies.")
			return
		}
		renderRows(w, rows)
	})
}

func runFavList(cmd *cobra.Command, args []string) {
	a := openApp(cmd.Context())
	defer a.Close()
	a.requireUser()

	printFavorites(a.favs.List())
}

func runFavToggle(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	id := args[0]

	a := openApp(ctx)
	defer a.Close()
	a.requireUser()

	// A saved favorite can be removed without fetching its page.
	rec, ok := a.favs.Get(id)
	if !ok {
		c := newController(a)
		defer c.Close()
		if err := loadFirst(ctx, c); err != nil {
			exitErr("fav toggle", err)
		}
		rec, ok = dashboard.Find(c.Snapshot().Records, id)
		if !ok {
			exitErr("fav toggle", fmt.Errorf("no movie %q on page %d", id, a.ui.State().Page))
		}
	}

	added, err := a.favs.Toggle(ctx, rec)
	if err != nil {
		exitErr("fav toggle", err)
	}
	title := resolve.Title(rec)
	printOut(map[string]any{"id": id, "favorite": added}, func(w io.Writer) {
		if added {
			fmt.Fprintf(w, "Added %s to favorites\n", title)
		} else {
			fmt.Fprintf(w, "Removed %s from favorites\n", title)
		}
	})
}

func runFavRm(cmd *cobra.Command, args []string) {
	a := openApp(cmd.Context())
	defer a.Close()
	a.requireUser()

	removed, err := a.favs.Remove(cmd.Context(), args[0])
	if err != nil {
		exitErr("fav rm", err)
	}
	if !removed {
		exitErr("fav rm", fmt.Errorf("%q is not a favorite", args[0]))
	}
	printOut(map[string]any{"ok": true, "removed": args[0]}, func(w io.Writer) {
		fmt.Fprintf(w, "Removed %s\n", args[0])
	})
}

func runFavClear(cmd *cobra.Command, args []string) {
	a := openApp(cmd.Context())
	defer a.Close()
	a.requireUser()

	if err := a.favs.Clear(cmd.Context()); err != nil {
		exitErr("fav clear", err)
	}
	printOut(map[string]bool{"ok": true}, func(w io.Writer) {
		fmt.Fprintln(w, "Favorites cleared")
	})
}

func runFavExport(cmd *cobra.Command, args []string) {
	a := openApp(cmd.Context())
	defer a.Close()
	a.requireUser()

	b, err := json.MarshalIndent(a.favs.List(), "", "  ")
	if err != nil {
		exitErr("export", err)
	}
	fmt.Fprintln(stdout, string(b))
}

func runFavImport(cmd *cobra.Command, args []string) {
	var (
		data []byte
		err  error
	)
	if len(args) == 1 {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		exitErr("read input", err)
	}

	var recs []model.Record
	if err := json.Unmarshal(data, &recs); err != nil {
		exitErr("parse json", err)
	}

	a := openApp(cmd.Context())
	defer a.Close()
	a.requireUser()

	imported, err := importFavorites(cmd.Context(), a, recs)
	if err != nil {
		exitErr("import", err)
	}
	printImported(imported)
}

func printImported(n int) {
	printOut(map[string]any{"ok": true, "imported": n}, func(w io.Writer) {
		fmt.Fprintf(w, "Imported %d favorites\n", n)
	})
}

func importFavorites(ctx context.Context, a *app, recs []model.Record) (int, error) {
	kept := recs[:0]
	for _, r := range recs {
		if r != nil {
			kept = append(kept, r)
		}
	}
	return a.favs.Import(ctx, kept)
}
