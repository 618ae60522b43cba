package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pcasconnect/campus/core/nav"
	"github.com/pcasconnect/campus/core/session"
)

func newLoginCmd(app *application) *cobra.Command {
	var (
		role     string
		email    string
		username string
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and persist the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := session.ParseRole(role)
			if err != nil {
				return fmt.Errorf("unknown role %q (student, teacher, hod or admin)", role)
			}

			password, err := promptPassword("Password: ")
			if err != nil {
				return err
			}
			creds := session.Credentials{Email: email, Username: username, Password: password}

			sess, err := app.sessions.SignIn(cmd.Context(), r, creds)
			if err != nil {
				var authErr *session.AuthError
				if errors.As(err, &authErr) {
					return fmt.Errorf("sign-in failed: %s", authErr.Message)
				}
				if errors.Is(err, session.ErrSessionExists) {
					cur, _ := app.sessions.Current()
					return fmt.Errorf("already signed in as %s (%s); run logout first", cur.DisplayName, cur.Role)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s)\n", sess.DisplayName, sess.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", "student", "portal to sign in to: student, teacher, hod or admin")
	cmd.Flags().StringVar(&email, "email", "", "account email (students, teachers, HODs)")
	cmd.Flags().StringVar(&username, "username", "", "account username (admins)")
	return cmd
}

func newLogoutCmd(app *application) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear the persisted session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.sessions.SignOut(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func newWhoamiCmd(app *application) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			sess, ok := app.sessions.Current()
			if !ok {
				if reason, found := app.sessions.LastExit(); found && reason == session.ExitExpired {
					fmt.Fprintln(out, "Session expired; sign in again")
					return nil
				}
				fmt.Fprintln(out, "Not signed in")
				return nil
			}
			fmt.Fprintf(out, "%s (%s)\n", sess.DisplayName, sess.Role)
			if sess.Email != "" {
				fmt.Fprintf(out, "  email:  %s\n", sess.Email)
			}
			fmt.Fprintf(out, "  since:  %s\n", sess.IssuedAt.Local().Format("2006-01-02 15:04"))
			fmt.Fprintf(out, "  home:   %s\n", app.guard.EntryRoute())
			return nil
		},
	}
}

// requireRole resolves the session and checks it may use the given screens.
func requireRole(app *application, route nav.Route) (session.Session, error) {
	sess, ok := app.sessions.Current()
	if !ok {
		return session.Session{}, errors.New("not signed in; run login first")
	}
	if decision := app.guard.Check(route); !decision.Allowed {
		return session.Session{}, fmt.Errorf("a %s session cannot use this command", sess.Role)
	}
	return sess, nil
}
