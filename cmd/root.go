package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/pfrederiksen/breach-radius/internal/awsx"
	"github.com/pfrederiksen/breach-radius/internal/config"
	"github.com/pfrederiksen/breach-radius/internal/graph"
	"github.com/pfrederiksen/breach-radius/internal/metrics"
	"github.com/pfrederiksen/breach-radius/internal/network"
	"github.com/pfrederiksen/breach-radius/internal/output"
	"github.com/pfrederiksen/breach-radius/internal/spread"
)

var (
	// Global flags
	configPath  string
	input       string
	format      string
	maxNodes    int
	maxEdges    int
	metricsFile string
	noColor     bool
	debug       bool
	profile     string
	region      string

	// Resolved per run
	settings config.Config
	registry *metrics.Registry
)

var rootCmd = &cobra.Command{
	Use:   "breach-radius",
	Short: "Simulate how a compromise spreads through a network of computers",
	Long: `breach-radius simulates a breach spreading through a network of computers.

Each computer has a security clearance and an activation cost; connections
between computers take time to traverse. A compromised computer can only reach
neighbors whose clearance is at most one level above its own.

Networks are read from YAML, JSON or TOML documents, locally or from S3, or
discovered from an AWS account.

Examples:
  # Check whether a path of hops can be followed
  breach-radius probe --input net.yaml web app db

  # Find the computer that compromises the most of the network
  breach-radius source --input net.yaml

  # Earliest compromise time of every reachable computer
  breach-radius schedule --input s3://networks/prod.json web

  # Multi-wave spread, listing the waves
  breach-radius advanced --input net.yaml web --waves

  # Build a network document from an AWS account
  breach-radius discover --profile prod --region us-east-1 > net.yaml`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: writeMetrics,
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func init() {
	defaults := config.Default()

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Config file (default: $XDG_CONFIG_HOME/breach-radius/config.toml)")
	flags.StringVarP(&input, "input", "i", "", "Network document: local path or s3://bucket/key")
	flags.StringVar(&format, "format", defaults.Format, "Output format: tree, json, dot, svg")
	flags.IntVar(&maxNodes, "max-nodes", defaults.MaxNodes, "Maximum computers per network (0 for unlimited)")
	flags.IntVar(&maxEdges, "max-edges", defaults.MaxEdges, "Maximum connections per network (0 for unlimited)")
	flags.StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics to this file")
	flags.BoolVar(&noColor, "no-color", false, "Disable colored tree output")
	flags.BoolVar(&debug, "debug", false, "Enable debug logging")
	flags.StringVar(&profile, "profile", "", "AWS profile to use")
	flags.StringVar(&region, "region", "", "AWS region (default: from config/environment)")

	rootCmd.AddCommand(probeCmd, sourceCmd, scheduleCmd, advancedCmd, discoverCmd)
}

// setup installs logging and merges the config file under explicitly set flags
func setup(cmd *cobra.Command, _ []string) error {
	setupLogging()

	if err := resolveSettings(cmd); err != nil {
		return err
	}

	if settings.MetricsFile != "" {
		registry = metrics.NewRegistry()
	}

	slog.Debug("Settings resolved",
		"input", settings.Input,
		"format", settings.Format,
		"maxNodes", settings.MaxNodes,
		"maxEdges", settings.MaxEdges)
	return nil
}

func setupLogging() {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
	slog.SetDefault(slog.New(logger))
}

func resolveSettings(cmd *cobra.Command) error {
	path, required := configPath, true
	if path == "" {
		required = false
		var err error
		if path, err = config.DefaultPath(); err != nil {
			slog.Debug("No default config location", "error", err)
		}
	}

	file := config.Default()
	if path != "" {
		var err error
		if file, err = config.Load(path, required); err != nil {
			return err
		}
	}

	flags := cmd.Flags()
	override := func(name string, apply func()) {
		if flags.Changed(name) {
			apply()
		}
	}
	override("input", func() { file.Input = input })
	override("format", func() { file.Format = format })
	override("max-nodes", func() { file.MaxNodes = maxNodes })
	override("max-edges", func() { file.MaxEdges = maxEdges })
	override("metrics-file", func() { file.MetricsFile = metricsFile })
	override("no-color", func() { file.NoColor = noColor })
	override("profile", func() { file.AWS.Profile = profile })
	override("region", func() { file.AWS.Region = region })

	if err := file.Validate(); err != nil {
		return err
	}
	settings = file
	return nil
}

func writeMetrics(_ *cobra.Command, _ []string) error {
	if registry == nil {
		return nil
	}
	if err := registry.WriteTextfile(settings.MetricsFile); err != nil {
		return err
	}
	slog.Debug("Metrics written", "path", settings.MetricsFile)
	return nil
}

// newSimulator creates a simulator bounded by the configured limits
func newSimulator() *spread.Simulator {
	return spread.NewSimulator(
		spread.WithLimits(graph.Limits{MaxNodes: settings.MaxNodes, MaxEdges: settings.MaxEdges}),
		spread.WithLogger(slog.Default()),
		spread.WithMetrics(registry),
	)
}

// loadNetwork reads the document named by --input
func loadNetwork(ctx context.Context) (*network.Document, error) {
	if settings.Input == "" {
		return nil, errors.New("no network document given, use --input or set input in the config file")
	}

	var getter network.S3Getter
	if strings.HasPrefix(settings.Input, "s3://") {
		clients, err := awsClients(ctx)
		if err != nil {
			return nil, err
		}
		getter = clients.S3
	}

	doc, err := network.Load(ctx, settings.Input, getter)
	if err != nil {
		return nil, err
	}

	slog.Info("Network loaded",
		"input", settings.Input,
		"computers", len(doc.Computers),
		"connections", len(doc.Connections))
	return doc, nil
}

func awsClients(ctx context.Context) (*awsx.Clients, error) {
	cfg, err := awsx.LoadConfig(ctx, settings.AWS.Profile, settings.AWS.Region)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	slog.Debug("AWS config loaded",
		"region", cfg.Region,
		"profile", settings.AWS.Profile)

	return awsx.NewClients(cfg), nil
}

func renderOptions() (output.Options, error) {
	f, err := output.ParseFormat(settings.Format)
	if err != nil {
		return output.Options{}, err
	}
	return output.Options{Format: f, NoColor: settings.NoColor}, nil
}
