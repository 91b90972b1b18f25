package cli

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hongminglow/vault-console/internal/config"
	"github.com/hongminglow/vault-console/internal/logging"
)

// NewRootCmd creates the root cobra command for the vault console.
func NewRootCmd() *cobra.Command {
	var (
		flagEnvFile string
		flagDebug   bool
		app         *App
	)

	root := &cobra.Command{
		Use:   "vault",
		Short: "DataVault console",
		Long: `vault signs in to a DataVault backend and opens console areas behind the
route guard. The signed-in user and role survive between runs; subscription
validity does not, so feature checks need a sign-in inside the same run
(see "vault shell").`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loadLocalEnv(flagEnvFile)

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if flagDebug {
				cfg.LogLevel = "debug"
			}
			log, err := logging.New(cfg.LogLevel)
			if err != nil {
				return err
			}
			if cfg.FeatureBypass {
				log.Warn("feature access bypass enabled; never use in a deployed build")
			}

			app, err = NewApp(cmd.Context(), cfg, log, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return fmt.Errorf("init app: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app == nil {
				return
			}
			if err := app.Close(); err != nil {
				app.Log.Warn("close store", zap.Error(err))
			}
			_ = app.Log.Sync()
		},
	}

	root.PersistentFlags().StringVar(&flagEnvFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")

	addCommands(root, func() *App { return app })
	root.AddCommand(newShellCmd(func() *App { return app }))
	return root
}

// addCommands registers every session command on parent. The shell reuses it
// to dispatch its lines against the already-booted app.
func addCommands(parent *cobra.Command, app func() *App) {
	parent.AddCommand(
		newSigninCmd(app),
		newSignupCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newAccessCmd(app),
		newOpenCmd(app),
		newRoutesCmd(),
		newUsersCmd(app),
		newForgotPasswordCmd(app),
		newPromptsCmd(app),
	)
}

func loadLocalEnv(path string) {
	// a missing file is fine; the environment is used as-is
	_ = godotenv.Load(path)
}
