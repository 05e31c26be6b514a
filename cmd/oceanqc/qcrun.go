package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"oceanqc/internal/codecs"
	"oceanqc/internal/config"
	"oceanqc/internal/observability"
	"oceanqc/internal/station"
	"oceanqc/internal/worker"
	"oceanqc/pkg/codec"
	"oceanqc/pkg/qc"
	"oceanqc/plugins/basicqc"
	"oceanqc/plugins/gtspp"
)

// newQCCmd creates the qc command group.
func newQCCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "qc",
		Short: "Quality-control operations",
		Args:  cobra.NoArgs,
	}
	cmd.AddCommand(newQCRunCmd())
	return cmd
}

// newQCRunCmd creates the qc run subcommand.
func newQCRunCmd() *cobra.Command {
	var (
		suiteName string
		format    string
		outPath   string
		oformat   string
		envFile   string
	)
	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Run a QC suite against every record in a file",
		Long: "Run decodes the records in file, executes the named suite against\n" +
			"each of them in order, and writes the flagged records back out. The\n" +
			"suite run is recorded in each record's history and QC log.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(envFile)
			if err != nil {
				return err
			}

			stations, closeStations, err := openStations(cfg)
			if err != nil {
				return fmt.Errorf("opening station source: %w", err)
			}
			defer closeStations()

			metrics, err := observability.NewPrometheusRecorder(cfg.MetricsNamespace, prometheus.NewRegistry())
			if err != nil {
				return fmt.Errorf("building metrics: %w", err)
			}

			reg := codec.NewRegistry()
			codecs.Filtered(reg, cfg.CodecEnabled)

			runner := worker.NewRunner(qc.NewEngine(qc.WithMetrics(metrics)), reg)
			runner.RegisterSuite(gtspp.NewSuite(stations))
			runner.RegisterSuite(basicqc.NewSuite(stations))

			recs, err := runner.Load(args[0], format, nil)
			if err != nil {
				return err
			}
			if err := runner.RunBatch(cmd.Context(), recs, suiteName); err != nil {
				return err
			}

			dst := outPath
			if dst == "" {
				dst = args[0]
			}
			if err := runner.Dump(dst, oformat, recs, nil); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "suite %s passed for %d records, wrote %s\n", suiteName, len(recs), dst)
			return nil
		},
	}

	cmd.Flags().StringVar(&suiteName, "suite", gtspp.SuiteName, "QC suite to run")
	cmd.Flags().StringVar(&format, "format", "", "Codec name for the input file (default: probe by extension)")
	cmd.Flags().StringVar(&outPath, "out", "", "Destination path (default: rewrite the input file)")
	cmd.Flags().StringVar(&oformat, "oformat", "", "Codec name for the destination (default: probe by extension)")
	cmd.Flags().StringVar(&envFile, "env", "", "Environment file to load configuration from")

	return cmd
}

// openStations builds the station lookup named by the configuration.
func openStations(cfg *config.Config) (qc.StationLookup, func() error, error) {
	switch cfg.StationDriver {
	case config.DriverSQLite:
		src, err := station.OpenSQLite(cfg.StationDSN)
		if err != nil {
			return nil, nil, err
		}
		return src, src.Close, nil
	case config.DriverPostgres:
		src, err := station.OpenPostgres(cfg.StationDSN)
		if err != nil {
			return nil, nil, err
		}
		return src, src.Close, nil
	default:
		return station.NewMemorySource(), func() error { return nil }, nil
	}
}
