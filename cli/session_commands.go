package cli

import (
	"fmt"
	sessionservice "lending/services/session"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func loginCommand(app func() *App) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Log in and remember the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if password == "" {
				var err error
				if password, err = a.password("Password: "); err != nil {
					return err
				}
			}
			s, err := a.Session.Login(cmd.Context(), args[0], password)
			if err != nil {
				return errors.Wrap(err, "login failed")
			}
			fmt.Fprintf(a.Out, "Logged in as %s (%s)\n", s.User.Username, roleLabel(s.User.Role))
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when empty)")
	return cmd
}

func signupCommand(app func() *App) *cobra.Command {
	var req sessionservice.SignupReq
	cmd := &cobra.Command{
		Use:   "signup <username>",
		Short: "Create an account and log in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			req.Username = args[0]
			if req.Password == "" {
				var err error
				if req.Password, err = a.password("Choose a password: "); err != nil {
					return err
				}
			}
			s, err := a.Session.Signup(cmd.Context(), req)
			if err != nil {
				return errors.Wrap(err, "signup failed")
			}
			fmt.Fprintf(a.Out, "Welcome %s, you are logged in as %s\n", s.User.Username, roleLabel(s.User.Role))
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Email, "email", "", "email address")
	cmd.Flags().StringVar(&req.Role, "role", "student", "student, staff, lab_assistant or admin")
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "password (prompted when empty)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func logoutCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			err := a.Session.Logout(cmd.Context())
			switch {
			case errors.Is(err, sessionservice.ErrNoSession):
				fmt.Fprintln(a.Out, "Not logged in")
			case err != nil:
				fmt.Fprintf(a.Out, "Logged out locally (remote logout failed: %v)\n", err)
			default:
				fmt.Fprintln(a.Out, "Logged out")
			}
			return nil
		},
	}
}

func whoamiCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			s, ok := a.Session.Current()
			if !ok {
				return errors.New("not logged in")
			}
			fmt.Fprintf(a.Out, "%s (id %d, %s)\n", s.User.Username, s.User.ID, roleLabel(s.User.Role))
			if !s.ExpiresAt.IsZero() {
				fmt.Fprintf(a.Out, "session expires %s\n", s.ExpiresAt.Local().Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}
