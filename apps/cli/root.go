package main

import (
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newRootCmd(app *application) *cobra.Command {
	root := &cobra.Command{
		Use:   "campus",
		Short: "PCAS Connect campus client",
		Long: `campus is the terminal client for the PCAS Connect college backend.
It signs in as a student, teacher, head of department or administrator,
keeps the session on disk and renders the role's dashboard.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newLoginCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newDashboardCmd(app),
		newMarkCmd(app),
		newHODCmd(app),
		newAdminCmd(app),
	)
	return root
}

// promptPassword reads a password without echoing it. Falls back to a plain
// line read when stdin is not a terminal (tests, pipes).
func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	defer fmt.Fprintln(os.Stderr)

	fd := int(syscall.Stdin)
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		return string(b), err
	}
	var pw string
	_, err := fmt.Scanln(&pw)
	return pw, err
}
