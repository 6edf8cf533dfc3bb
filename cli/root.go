package cli

import (
	"context"
	configprovider "lending/providers/configProvider"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the lendctl command tree. build is called once
// before any subcommand runs; a nil build reads the environment.
func NewRootCommand(build func(ctx context.Context) (*App, error)) *cobra.Command {
	if build == nil {
		build = fromEnv
	}
	var app *App

	root := &cobra.Command{
		Use:           "lendctl",
		Short:         "Browse and borrow school equipment from the terminal",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			app, err = build(cmd.Context())
			if err != nil {
				return err
			}
			cmd.SetOut(app.Out)
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if app == nil {
				return nil
			}
			return app.Close()
		},
	}

	get := func() *App { return app }
	root.AddCommand(
		loginCommand(get),
		signupCommand(get),
		logoutCommand(get),
		whoamiCommand(get),
		dashboardCommand(get),
		equipmentCommand(get),
		availabilityCommand(get),
		requestCommand(get),
	)
	return root
}

func fromEnv(ctx context.Context) (*App, error) {
	cfg := configprovider.NewConfigProvider()
	if err := cfg.LoadEnv(); err != nil {
		return nil, err
	}
	return NewApp(ctx, cfg)
}
