package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"oceanqc/internal/codecs"
	"oceanqc/pkg/codec"
)

// newListCodecsCmd creates the list-codecs subcommand.
func newListCodecsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-codecs",
		Short: "List the registered codecs in probe order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg := codec.NewRegistry()
			codecs.Builtin(reg)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, r := range reg.Codecs() {
				fmt.Fprintf(w, "%s\t%s\n", r.Name, r.Codec.Description())
			}
			return w.Flush()
		},
	}
}
