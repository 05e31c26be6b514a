package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"oceanqc/internal/codecs"
	"oceanqc/pkg/codec"
)

// newTranscodeCmd creates the transcode subcommand.
func newTranscodeCmd() *cobra.Command {
	var (
		iformat string
		oformat string
		iargs   string
		oargs   string
	)
	cmd := &cobra.Command{
		Use:   "transcode <src> <dst>",
		Short: "Convert an observation file between codecs",
		Long: "Transcode decodes every record from src and encodes them to dst.\n" +
			"Codecs are picked by file extension unless named explicitly, and the\n" +
			"destination is only written once the whole source decodes cleanly.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			iopts, err := codec.ParseOptions(iargs)
			if err != nil {
				return fmt.Errorf("parsing --iargs: %w", err)
			}
			oopts, err := codec.ParseOptions(oargs)
			if err != nil {
				return fmt.Errorf("parsing --oargs: %w", err)
			}

			reg := codec.NewRegistry()
			codecs.Builtin(reg)
			if err := codec.Transcode(reg, args[0], args[1], iformat, oformat, iopts, oopts); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "transcoded %s to %s\n", args[0], args[1])
			return nil
		},
	}

	cmd.Flags().StringVar(&iformat, "iformat", "", "Codec name for the source file (default: probe by extension)")
	cmd.Flags().StringVar(&oformat, "oformat", "", "Codec name for the destination file (default: probe by extension)")
	cmd.Flags().StringVar(&iargs, "iargs", "", "Decoder options as k=v pairs separated by spaces")
	cmd.Flags().StringVar(&oargs, "oargs", "", "Encoder options as k=v pairs separated by spaces")

	return cmd
}
