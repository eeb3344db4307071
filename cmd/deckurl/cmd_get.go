package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/deckurl/deckcache"
)

func newGetCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "get <deal-id>",
		Short: "Print the deck URL of a deal",
		Long:  "Print the deck URL of a deal. Exits with status 1 and \"not found\" when none is recorded.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dealID := args[0]
			if err := validateDealID(dealID); err != nil {
				return err
			}
			return runWithCache(cmd.Context(), flags, func(ctx context.Context, cache *deckcache.Cache) error {
				url, ok, err := cache.GetDeckURL(ctx, dealID)
				if err != nil {
					return fmt.Errorf("get deck url: %w", err)
				}
				if !ok {
					return errNotFound
				}
				fmt.Fprintln(cmd.OutOrStdout(), url)
				return nil
			})
		},
	}
}
