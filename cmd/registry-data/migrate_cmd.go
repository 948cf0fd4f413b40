package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iota-uz/civreg/modules/registry"
	"github.com/iota-uz/civreg/modules/registry/infrastructure/persistence"
	"github.com/iota-uz/civreg/pkg/composables"
	"github.com/iota-uz/civreg/pkg/configuration"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the registry tables if they do not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf := configuration.Use()
			ctx := cmd.Context()

			pool, err := connectDB(ctx, conf.Database)
			if err != nil {
				return withCode(exitDB, err)
			}
			defer pool.Close()

			applied, err := persistence.Migrate(composables.WithPool(ctx, pool), registry.SchemaFS())
			if err != nil {
				return withCode(exitDBWrite, fmt.Errorf("migrate: %w", err))
			}
			return writeJSONLine(cmd.OutOrStdout(), map[string]any{
				"status":  "migrated",
				"applied": applied,
			})
		},
	}
}
