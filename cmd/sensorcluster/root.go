package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/banshee-data/sensorcluster/internal/cluster"
	"github.com/banshee-data/sensorcluster/internal/config"
	"github.com/banshee-data/sensorcluster/internal/logging"
	"github.com/banshee-data/sensorcluster/internal/pipeline"
	"github.com/banshee-data/sensorcluster/internal/records"
	"github.com/banshee-data/sensorcluster/internal/version"
)

const successMessage = "Data processed and saved successfully."

// run executes the command with args and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCommand(viper.New(), stdout, stderr)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error processing data: %v\n", err)
		return 1
	}
	return 0
}

func newRootCommand(v *viper.Viper, stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sensorcluster",
		Short: "Cluster sensor observations by distance",
		Long: `sensorcluster reads sensor observations (x_position, y_position,
sensor_id, timestamp_id, unique_id), groups observations that lie within
the distance threshold of an existing cluster member, and writes one row
per cluster with the reconciled timestamp, an identifier, the member
positions as JSON and the first known unique id.

Settings come from flags, SENSORCLUSTER_* environment variables (a .env
file in the working directory is loaded first), an optional config file,
then defaults.`,
		Version:       version.String(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCluster(cmd.Context(), v, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetVersionTemplate("sensorcluster {{.Version}}\n")

	flags := cmd.Flags()
	flags.String("config", "", "config file (.yaml, .json or .toml)")
	flags.StringP("input", "i", config.DefaultInput, "observation file to read")
	flags.StringP("output", "o", config.DefaultOutput, "summary CSV file to write")
	flags.String("source", config.SourceCSV, "input kind: csv or sqlite")
	flags.String("table", records.DefaultSQLiteTable, "table to read when --source=sqlite")
	flags.Float64P("threshold", "t", cluster.DefaultThreshold, "maximum distance to an existing cluster member")
	flags.String("id-strategy", cluster.IDStrategyRandom, "cluster id strategy: random or sequential")
	flags.Uint64("seed", 0, "seed for random cluster ids (0 picks one)")
	flags.String("log-level", "info", "log level: trace, debug, info, warn, error")
	flags.String("log-format", logging.FormatAuto, "log format: auto, console, json")
	flags.String("log-output", logging.OutputStderr, "log output: stderr, stdout or a file path")

	for key, name := range map[string]string{
		config.KeyConfig:     "config",
		config.KeyInput:      "input",
		config.KeyOutput:     "output",
		config.KeySource:     "source",
		config.KeyTable:      "table",
		config.KeyThreshold:  "threshold",
		config.KeyIDStrategy: "id-strategy",
		config.KeySeed:       "seed",
		config.KeyLogLevel:   "log-level",
		config.KeyLogFormat:  "log-format",
		config.KeyLogOutput:  "log-output",
	} {
		// Flags are defined above, so a bind failure is a programming error.
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic("programming error: bind flag " + name + ": " + err.Error())
		}
	}

	return cmd
}

func runCluster(ctx context.Context, v *viper.Viper, stdout, stderr io.Writer) error {
	if err := config.LoadEnvFiles(".env"); err != nil {
		return err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	logger, closeLog, err := logging.New(cfg.Log, stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	ids, err := cluster.NewIDGenerator(cfg.IDStrategy, cfg.Seed)
	if err != nil {
		return err
	}
	clusterer, err := cluster.NewThresholdClusterer(cfg.ClusterParams(), ids)
	if err != nil {
		return err
	}

	p, err := pipeline.New(newSource(cfg), clusterer, records.NewCSVSink(cfg.Output, nil), pipeline.WithLogger(logger))
	if err != nil {
		return err
	}

	logger.Debug().
		Str("input", cfg.Input).
		Str("output", cfg.Output).
		Str("source", cfg.SourceKind).
		Float64("threshold", cfg.Threshold).
		Str("id_strategy", cfg.IDStrategy).
		Str("config_file", cfg.ConfigFile).
		Msg("starting run")

	if _, err := p.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("run failed")
		return err
	}

	fmt.Fprintln(stdout, successMessage)
	return nil
}

func newSource(cfg *config.RunConfig) records.Source {
	if cfg.SourceKind == config.SourceSQLite {
		return records.NewSQLiteSource(cfg.Input, cfg.Table)
	}
	return records.NewCSVSource(cfg.Input, nil)
}
