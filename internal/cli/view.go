package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/movie-dashboard/internal/dashboard"
	"github.com/rcliao/movie-dashboard/internal/favorites"
	"github.com/rcliao/movie-dashboard/internal/model"
	"github.com/rcliao/movie-dashboard/internal/provider"
	"github.com/rcliao/movie-dashboard/internal/resolve"
)

// MissingTemplateHint is shown instead of the raw error when no API URL
// template is configured.
const MissingTemplateHint = "Missing API URL. Set MOVIE_DASHBOARD_API_URL_TEMPLATE (use {{page}} placeholder)."

type movieRow struct {
	model.CanonicalView `yaml:",inline"`
	Favorite            bool `json:"favorite" yaml:"favorite"`
}

type dashboardView struct {
	User      model.AuthUser       `json:"user"      yaml:"user"`
	Status    dashboard.Status     `json:"status"    yaml:"status"`
	UI        model.UIState        `json:"ui"        yaml:"ui"`
	Window    dashboard.PageWindow `json:"window"    yaml:"window"`
	Loaded    int                  `json:"loaded"    yaml:"loaded"`
	Visible   int                  `json:"visible"   yaml:"visible"`
	Favorites int                  `json:"favorites" yaml:"favorites"`
	Error     string               `json:"error,omitempty" yaml:"error,omitempty"`
	Movies    []movieRow           `json:"movies"    yaml:"movies"`
}

// newController wires the HTTP provider and the stores into a controller.
func newController(a *app) *dashboard.Controller {
	log := logger()
	p := provider.NewHTTPProvider(cfg.APIURLTemplate, cfg.HTTPTimeout, provider.WithLogger(log))
	return dashboard.New(p, a.ui, a.favs, dashboard.WithLogger(log))
}

// runDashboard applies mutate to a fresh controller, loads the current page
// when the movies tab is active and prints the result.
func runDashboard(cmd *cobra.Command, mutate func(ctx context.Context, c *dashboard.Controller) error) {
	ctx := cmd.Context()
	a := openApp(ctx)
	defer a.Close()
	u := a.requireUser()

	c := newController(a)
	defer c.Close()

	if mutate != nil {
		if err := mutate(ctx, c); err != nil {
			exitErr(cmd.Name(), err)
		}
	}
	if a.ui.State().Tab == model.TabMovies && c.Snapshot().Status == dashboard.StatusIdle {
		c.Start(ctx)
	}
	c.Wait()

	snap := c.Snapshot()
	view := buildView(u, snap, a.favs)
	printOut(view, func(w io.Writer) { renderText(w, view) })
	if snap.Status == dashboard.StatusError {
		c.Close()
		a.Close()
		os.Exit(1)
	}
}

// loadFirst fetches the persisted page so that page bounds are known.
func loadFirst(ctx context.Context, c *dashboard.Controller) error {
	c.Start(ctx)
	c.Wait()
	if snap := c.Snapshot(); snap.Status == dashboard.StatusError {
		return errorMessage(snap.Err, snap.Error)
	}
	return nil
}

func errorMessage(err error, msg string) error {
	var cfgErr *provider.ConfigError
	if errors.As(err, &cfgErr) {
		return errors.New(MissingTemplateHint)
	}
	if msg == "" && err != nil {
		msg = err.Error()
	}
	return errors.New(msg)
}

func buildView(u model.AuthUser, snap dashboard.Snapshot, favs *favorites.Store) dashboardView {
	v := dashboardView{
		User:      u,
		Status:    snap.Status,
		UI:        snap.UI,
		Window:    snap.Window(),
		Loaded:    len(snap.Records),
		Visible:   len(snap.Visible),
		Favorites: snap.Favorites,
		Movies:    []movieRow{},
	}
	if snap.Status == dashboard.StatusError {
		v.Error = errorMessage(snap.Err, snap.Error).Error()
	}

	rows := snap.Visible
	if snap.UI.Tab == model.TabFavorites {
		rows = favs.List()
	}
	for _, r := range rows {
		v.Movies = append(v.Movies, movieRow{CanonicalView: resolve.View(r), Favorite: favs.IsFavorite(r)})
	}
	return v
}

func renderText(w io.Writer, v dashboardView) {
	fmt.Fprintf(w, "%s <%s>  |  tab: %s  |  favorites: %d\n", v.User.Name, v.User.Email, v.UI.Tab, v.Favorites)

	if v.UI.Tab == model.TabFavorites {
		if len(v.Movies) == 0 {
			fmt.Fprintln(w, "No favorites yet. Add some from Movies.")
			return
		}
		renderRows(w, v.Movies)
		return
	}

	status := fmt.Sprintf("Page %d of %d  |  showing %d of %d", v.UI.Page, v.Window.Total, v.Visible, v.Loaded)
	if v.UI.Query != "" {
		status += fmt.Sprintf("  |  search %q", v.UI.Query)
	}
	status += "  |  sort " + string(v.UI.Sort)
	fmt.Fprintln(w, status)

	if v.Error != "" {
		fmt.Fprintln(w, "error: "+v.Error)
		return
	}
	if len(v.Movies) == 0 {
		fmt.Fprintln(w, "No movies match your search.")
	} else {
		renderRows(w, v.Movies)
	}
	fmt.Fprintln(w, renderPager(v.Window))
}

func renderRows(w io.Writer, rows []movieRow) {
	for _, r := range rows {
		star := " "
		if r.Favorite {
			star = "*"
		}
		pop := "N/A"
		if r.Popularity != nil {
			pop = fmt.Sprintf("%.1f", *r.Popularity)
		}
		title := r.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Fprintf(w, "%s %-12s %-40s %6s", star, r.ID, title, pop)
		if r.Subtitle != "" {
			fmt.Fprintf(w, "  %s", r.Subtitle)
		}
		if r.CharacterText != "" {
			fmt.Fprintf(w, "  as %s", r.CharacterText)
		}
		fmt.Fprintln(w)
	}
}

func renderPager(pw dashboard.PageWindow) string {
	var b strings.Builder
	if pw.HasPrev {
		b.WriteString("< prev  ")
	}
	if pw.ShowFirst {
		b.WriteString("1 ... ")
	}
	for i, p := range pw.Pages {
		if i > 0 {
			b.WriteByte(' ')
		}
		if p == pw.Current {
			fmt.Fprintf(&b, "[%d]", p)
		} else {
			fmt.Fprintf(&b, "%d", p)
		}
	}
	if pw.ShowLast {
		fmt.Fprintf(&b, " ... %d", pw.Total)
	}
	if pw.HasNext {
		b.WriteString("  next >")
	}
	return b.String()
}
