package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	configx "github.com/tanpawarit/Chative-A2A-Customer-Support/pkg/config"
	"github.com/tanpawarit/Chative-A2A-Customer-Support/pkg/database"
	logx "github.com/tanpawarit/Chative-A2A-Customer-Support/pkg/logger"
	"github.com/tanpawarit/Chative-A2A-Customer-Support/toolbackend"
)

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Migrate the tool backend database and load the demo data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configx.New[toolbackend.Config]("TOOLS")
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			db, err := database.Open(ctx, cfg.Database, logx.Component("seed"))
			if err != nil {
				return err
			}
			defer db.Close()

			seeded, err := toolbackend.Seed(ctx, toolbackend.NewStore(db))
			if err != nil {
				return err
			}
			if !seeded {
				fmt.Fprintln(cmd.OutOrStdout(), "database already has customers, nothing to seed")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "seeded demo customers and tickets")
			return nil
		},
	}
}
