package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	app "devdash-backend/application/ideamap"
	"devdash-backend/infrastructure/config"
	"devdash-backend/infrastructure/di"
)

func newBootstrapCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "bootstrap",
		Short: "Create the idea map record if the store has none",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			container, cleanup, err := di.InitializeContainer(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("initialize container: %w", err)
			}
			defer cleanup()

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Store.Timeout)
			defer cancel()
			doc, created, err := app.Bootstrap(ctx, container.IdeaMap, container.Logger.Logger)
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "created idea map record %s\n", doc.ID)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "idea map record %s already exists\n", doc.ID)
			}
			return nil
		},
	}
}
