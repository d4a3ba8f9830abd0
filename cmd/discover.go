package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/breach-radius/internal/discover"
	"github.com/pfrederiksen/breach-radius/internal/network"
)

var (
	outputPath string
	docFormat  string
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Build a network document from an AWS account",
	Long: `Lists EC2 instances, ECS services, VPC Lambda functions, RDS instances and
load balancers. Each becomes a computer; workloads sharing a security group are
connected once per shared group.

Tags control the simulation:
  breach-radius/clearance        clearance of a workload (default 0)
  breach-radius/activation-cost  activation cost of a workload (default 0)
  breach-radius/traversal-cost   cost of a security group hop (default 1)`,
	Args: cobra.NoArgs,
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the document to this file instead of stdout")
	discoverCmd.Flags().StringVar(&docFormat, "doc-format", "", "Document format: yaml, json, toml (default: from --output extension, else yaml)")
}

func runDiscover(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	f := network.FormatYAML
	if outputPath != "" {
		f = network.FormatFromPath(outputPath)
	}
	if docFormat != "" {
		var err error
		if f, err = network.ParseFormat(docFormat); err != nil {
			return err
		}
	}

	slog.Info("Starting breach-radius discovery",
		"maxNodes", settings.MaxNodes,
		"profile", settings.AWS.Profile,
		"region", settings.AWS.Region)

	clients, err := awsClients(ctx)
	if err != nil {
		return err
	}

	discoverer := discover.New(clients, &discover.Options{
		MaxNodes:      settings.MaxNodes,
		ClearanceTag:  settings.Discovery.ClearanceTag,
		ActivationTag: settings.Discovery.ActivationTag,
		TraversalTag:  settings.Discovery.TraversalTag,
		DefaultCost:   settings.Discovery.DefaultCost,
		Metrics:       registry,
	})

	doc, err := discoverer.Discover(ctx)
	if err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}

	var w io.Writer = cmd.OutOrStdout()
	if outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", outputPath, err)
		}
		defer func() { _ = file.Close() }()
		w = file
	}

	if err := doc.Encode(w, f); err != nil {
		return fmt.Errorf("failed to write network document: %w", err)
	}
	return nil
}
