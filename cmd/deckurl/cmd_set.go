package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/deckurl/deckcache"
)

func newSetCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "set <deal-id> <url>",
		Short: "Record the deck URL of a deal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dealID, url := args[0], args[1]
			if err := validateDealID(dealID); err != nil {
				return err
			}
			return runWithCache(cmd.Context(), flags, func(ctx context.Context, cache *deckcache.Cache) error {
				if err := cache.SetDeckURL(ctx, dealID, url); err != nil {
					return fmt.Errorf("set deck url: %w", err)
				}
				return nil
			})
		},
	}
}
