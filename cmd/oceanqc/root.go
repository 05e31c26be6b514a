// Command oceanqc loads ocean observation files through the codec registry
// and runs QC suites against the records they contain.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"oceanqc/internal/config"
	"oceanqc/pkg/codec"
	"oceanqc/pkg/qc"
)

// newRootCmd creates the root oceanqc command with all subcommands registered.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "oceanqc",
		Short:         "oceanqc - codec conversion and quality control for ocean observations",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.AddCommand(newListCodecsCmd())
	root.AddCommand(newTranscodeCmd())
	root.AddCommand(newQCCmd())
	return root
}

// reportError writes a classified error line to stderr so operators can tell
// configuration mistakes apart from bad input files and QC failures.
func reportError(err error) {
	var (
		cerr *config.ConfigurationError
		rerr *codec.ResolutionError
		derr *codec.DecodeError
		terr *qc.TestError
	)
	class := "error"
	switch {
	case errors.As(err, &cerr):
		class = "configuration error"
	case errors.As(err, &rerr):
		class = "codec error"
	case errors.As(err, &derr):
		class = "decode error"
	case errors.As(err, &terr):
		class = "qc error"
	}
	fmt.Fprintf(os.Stderr, "%s: %v\n", class, err)
}
