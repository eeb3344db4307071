package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newBackendsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "backends",
		Short: "List durable backends and mark the configured one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			cfg.ApplyDefaults()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, name := range Backends {
				mark := " "
				if name == cfg.Deckcache.Backend {
					mark = "*"
				}
				fmt.Fprintf(w, "%s %s\t%s\n", mark, name, backendLibrary[name])
			}
			return w.Flush()
		},
	}
}
