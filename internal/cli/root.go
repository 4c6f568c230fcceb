package cli

import (
	"github.com/spf13/cobra"

	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/config"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/pkg/logger"
)

func Execute() error {
	return NewRootCmd(Wire).Execute()
}

// NewRootCmd builds accountctl. The App is wired lazily so that commands like
// "plans" and "help" work without a database.
func NewRootCmd(wire WireFunc) *cobra.Command {
	var (
		configPath string
		app        *App
	)

	getApp := func(cmd *cobra.Command) (*App, error) {
		if app != nil {
			return app, nil
		}
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		log := logger.New(
			logger.WithLevelName(cfg.Log.Level),
			logger.WithFormat(logger.FormatText),
			logger.WithOutput(cmd.ErrOrStderr()),
			logger.WithAttr(logger.Component("accountctl")),
		)
		app, err = wire(cfg, log)
		return app, err
	}

	rootCmd := &cobra.Command{
		Use:           "accountctl",
		Short:         "Inspect and administer subscription accounts",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if app != nil {
				app.Close()
			}
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to the configuration file")

	rootCmd.AddCommand(
		newCreateCmd(getApp),
		newShowCmd(getApp),
		newHistoryCmd(getApp),
		newSuspendCmd(getApp),
		newReactivateCmd(getApp),
		newChangePlanCmd(getApp),
		newSetStatusCmd(getApp),
		newExtendTrialCmd(getApp),
		newRolloverCmd(getApp),
		newPlansCmd(),
	)

	return rootCmd
}

type appGetter func(cmd *cobra.Command) (*App, error)
