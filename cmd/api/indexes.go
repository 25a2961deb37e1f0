package main

import (
	"context"

	"catalog-backend/pkg/container"

	"github.com/spf13/cobra"
)

var ensureIndexesCmd = &cobra.Command{
	Use:   "ensure-indexes",
	Short: "Create unique indexes (mongo) or schema (postgres) and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		appContainer, err := container.NewContainer(ctx, cfg)
		if err != nil {
			return err
		}
		defer appContainer.Cleanup()

		return appContainer.EnsureIndexes(ctx)
	},
}
