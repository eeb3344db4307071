package main

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"github.com/kbukum/deckurl/bootstrap"
	"github.com/kbukum/deckurl/deckcache"
	"github.com/kbukum/deckurl/observability"
)

// errUnhealthy is returned by health when any component is not healthy.
var errUnhealthy = errors.New("unhealthy")

func newHealthCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Connect to the durable backend and print its health as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWithApp(cmd.Context(), flags, func(ctx context.Context, app *bootstrap.App[*AppConfig], _ *deckcache.Cache) error {
				sh := observability.NewServiceHealth(app.Name, app.Version)
				for _, h := range app.Components.HealthAll(ctx) {
					sh.AddComponent(h)
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(sh); err != nil {
					return err
				}
				if !sh.Healthy() {
					return errUnhealthy
				}
				return nil
			})
		},
	}
}
