// Package cmd is the chative command line: it runs the tool backend, the
// three agents and the gateway, seeds the demo database and sends queries.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
	configx "github.com/tanpawarit/Chative-A2A-Customer-Support/pkg/config"
	logx "github.com/tanpawarit/Chative-A2A-Customer-Support/pkg/logger"
)

var envFile string

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "chative",
		Short:         "Customer support agents talking over A2A",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if envFile != "" {
				configx.SetEnvFile(envFile)
			}
			logCfg, err := configx.New[logx.Config]("LOG")
			if err != nil {
				return err
			}
			logx.Init(*logCfg)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "path to a .env file (default: ./.env when present)")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(askCmd())
	return rootCmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
