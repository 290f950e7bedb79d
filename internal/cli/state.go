package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rcliao/movie-dashboard/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Show the saved view state",
		Run:   runState,
	}

	RootCmd.AddCommand(cmd)
}

type stateView struct {
	User      *model.AuthUser `json:"user"      yaml:"user"`
	UI        model.UIState   `json:"ui"        yaml:"ui"`
	Favorites int             `json:"favorites" yaml:"favorites"`
}

func runState(cmd *cobra.Command, args []string) {
	a := openApp(cmd.Context())
	defer a.Close()

	v := stateView{UI: a.ui.State(), Favorites: a.favs.Len()}
	if u, ok := a.auth.CurrentUser(); ok {
		v.User = &u
	}

	printOut(v, func(w io.Writer) {
		if v.User != nil {
			fmt.Fprintf(w, "user:      %s <%s>\n", v.User.Name, v.User.Email)
		} else {
			fmt.Fprintln(w, "user:      (signed out)")
		}
		fmt.Fprintf(w, "tab:       %s\n", v.UI.Tab)
		fmt.Fprintf(w, "page:      %d\n", v.UI.Page)
		fmt.Fprintf(w, "query:     %q\n", v.UI.Query)
		fmt.Fprintf(w, "sort:      %s\n", v.UI.Sort)
		fmt.Fprintf(w, "favorites: %d\n", v.Favorites)
	})
}
