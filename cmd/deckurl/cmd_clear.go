package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/deckurl/deckcache"
)

func newClearCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <deal-id>",
		Short: "Forget the deck URL of a deal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dealID := args[0]
			if err := validateDealID(dealID); err != nil {
				return err
			}
			return runWithCache(cmd.Context(), flags, func(ctx context.Context, cache *deckcache.Cache) error {
				if err := cache.ClearDeckURL(ctx, dealID); err != nil {
					return fmt.Errorf("clear deck url: %w", err)
				}
				return nil
			})
		},
	}
}
