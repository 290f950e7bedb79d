package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/movie-dashboard/internal/model"
)

func init() {
	signup := &cobra.Command{
		Use:   "signup",
		Short: "Register the local account and sign in",
		Long:  "Register the local account and sign in. The password can be passed with --password or piped via stdin.",
		Run:   runSignup,
	}
	signup.Flags().String("name", "", "Display name (required)")
	signup.Flags().String("email", "", "Email address (required)")
	signup.Flags().String("password", "", "Password")

	login := &cobra.Command{
		Use:   "login",
		Short: "Sign in with the registered account",
		Run:   runLogin,
	}
	login.Flags().String("email", "", "Email address (required)")
	login.Flags().String("password", "", "Password")

	logout := &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		Run:   runLogout,
	}

	whoami := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Run:   runWhoami,
	}

	RootCmd.AddCommand(signup, login, logout, whoami)
}

// readPassword prefers the flag and falls back to the first line of piped stdin.
func readPassword(cmd *cobra.Command) string {
	pw, _ := cmd.Flags().GetString("password")
	if pw != "" {
		return pw
	}
	stat, err := os.Stdin.Stat()
	if err != nil || stat.Mode()&os.ModeCharDevice != 0 {
		return ""
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && err != io.EOF {
		exitErr("read stdin", err)
	}
	return strings.TrimRight(line, "\r\n")
}

func printUser(u model.AuthUser) {
	printOut(u, func(w io.Writer) {
		fmt.Fprintf(w, "Signed in as %s <%s>\n", u.Name, u.Email)
	})
}

func runSignup(cmd *cobra.Command, args []string) {
	name, _ := cmd.Flags().GetString("name")
	email, _ := cmd.Flags().GetString("email")
	password := readPassword(cmd)

	a := openApp(cmd.Context())
	defer a.Close()

	u, err := a.auth.Signup(cmd.Context(), name, email, password)
	if err != nil {
		exitErr("signup", err)
	}
	printUser(u)
}

func runLogin(cmd *cobra.Command, args []string) {
	email, _ := cmd.Flags().GetString("email")
	password := readPassword(cmd)

	a := openApp(cmd.Context())
	defer a.Close()

	u, err := a.auth.Login(cmd.Context(), email, password)
	if err != nil {
		exitErr("login", err)
	}
	printUser(u)
}

func runLogout(cmd *cobra.Command, args []string) {
	a := openApp(cmd.Context())
	defer a.Close()

	if err := a.auth.Logout(cmd.Context()); err != nil {
		exitErr("logout", err)
	}
	printOut(map[string]bool{"ok": true}, func(w io.Writer) {
		fmt.Fprintln(w, "Signed out")
	})
}

func runWhoami(cmd *cobra.Command, args []string) {
	a := openApp(cmd.Context())
	defer a.Close()

	u := a.requireUser()
	printUser(u)
}
