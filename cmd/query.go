package cmd

import (
	"github.com/spf13/cobra"

	"github.com/pfrederiksen/breach-radius/internal/output"
)

var showWaves bool

var probeCmd = &cobra.Command{
	Use:   "probe <computer>...",
	Short: "Check whether an attacker can follow a path of hops",
	Long: `Walks the given computers in order, starting compromised at the first.
Each hop must follow a connection and respect the clearance rule. Prints the
outcome and the time spent until the walk ended.

Computers are given by id or by name.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runProbe,
}

var sourceCmd = &cobra.Command{
	Use:   "source",
	Short: "Find the starting computer that compromises the most computers",
	Args:  cobra.NoArgs,
	RunE:  runSource,
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule <computer>",
	Short: "Earliest compromise time of every computer reachable from a start",
	Args:  cobra.ExactArgs(1),
	RunE:  runSchedule,
}

var advancedCmd = &cobra.Command{
	Use:   "advanced <computer>",
	Short: "Multi-wave schedule where every newly reached level spawns its own wave",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdvanced,
}

func init() {
	advancedCmd.Flags().BoolVar(&showWaves, "waves", false, "List the sources and levels of each wave")
}

func runProbe(cmd *cobra.Command, args []string) error {
	doc, err := loadNetwork(cmd.Context())
	if err != nil {
		return err
	}
	path, err := doc.LookupAll(args)
	if err != nil {
		return err
	}
	opts, err := renderOptions()
	if err != nil {
		return err
	}

	res, err := newSimulator().ProbePath(doc.Nodes(), doc.Edges(), path)
	if err != nil {
		return err
	}
	return output.RenderProbe(cmd.OutOrStdout(), doc, path, res, opts)
}

func runSource(cmd *cobra.Command, _ []string) error {
	doc, err := loadNetwork(cmd.Context())
	if err != nil {
		return err
	}
	opts, err := renderOptions()
	if err != nil {
		return err
	}

	res, err := newSimulator().BestSource(doc.Nodes(), doc.Edges())
	if err != nil {
		return err
	}
	return output.RenderSource(cmd.OutOrStdout(), doc, res, opts)
}

func runSchedule(cmd *cobra.Command, args []string) error {
	doc, err := loadNetwork(cmd.Context())
	if err != nil {
		return err
	}
	start, err := doc.Lookup(args[0])
	if err != nil {
		return err
	}
	opts, err := renderOptions()
	if err != nil {
		return err
	}

	steps, err := newSimulator().Schedule(doc.Nodes(), doc.Edges(), start)
	if err != nil {
		return err
	}
	return output.RenderSchedule(cmd.OutOrStdout(), doc, start, steps, opts)
}

func runAdvanced(cmd *cobra.Command, args []string) error {
	doc, err := loadNetwork(cmd.Context())
	if err != nil {
		return err
	}
	start, err := doc.Lookup(args[0])
	if err != nil {
		return err
	}
	opts, err := renderOptions()
	if err != nil {
		return err
	}
	opts.Waves = showWaves

	plan, err := newSimulator().AdvancedPlan(doc.Nodes(), doc.Edges(), start)
	if err != nil {
		return err
	}
	return output.RenderAdvanced(cmd.OutOrStdout(), doc, start, plan, opts)
}
