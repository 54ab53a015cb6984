package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/tungetti/wizardnav/internal/app"
	"github.com/tungetti/wizardnav/internal/config"
	"github.com/tungetti/wizardnav/internal/constants"
	"github.com/tungetti/wizardnav/internal/errors"
	"github.com/tungetti/wizardnav/internal/scenario"
	"github.com/tungetti/wizardnav/internal/script"
	"github.com/tungetti/wizardnav/internal/ui"
	"github.com/tungetti/wizardnav/internal/ui/theme"
	"github.com/tungetti/wizardnav/internal/wizard"
)

// describeCallbacks marks the setup steps of a graph without binding them
// to a wizard.
func describeCallbacks() scenario.Callbacks {
	noop := wizard.CallbackFunc(func(context.Context, wizard.Step) error { return nil })
	return scenario.Callbacks{Accounts: noop, StorageConfiguration: noop}
}

func describedGraph(cfg *config.Config) (*wizard.Graph, error) {
	return app.BuildGraph(cfg, cfg.Scenario, cfg.Hidden(), describeCallbacks())
}

// startOf returns the configured start step, or the first step of g.
func startOf(cfg *config.Config, g *wizard.Graph) wizard.Step {
	if cfg.StartStep != "" {
		return wizard.Step(cfg.StartStep)
	}
	return g.First()
}

func scenarioLabel(cfg *config.Config) string {
	if cfg.TopologyFile != "" {
		return cfg.TopologyFile
	}
	return cfg.Scenario
}

func newStepsCommand(flags *GlobalFlags, info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "steps",
		Short: "List the steps of the selected scenario",
		Long: `List the wizard steps in declaration order.

Each line shows the step's forward edges, whether it is hidden, the sidebar
entry it lives under and whether entering it runs a setup callback.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, info, func(_ context.Context, a *app.App) error {
				cfg := a.Config()
				g, err := describedGraph(cfg)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s: %d steps\n\n", scenarioLabel(cfg), g.Len())
				fmt.Fprint(out, ui.RenderSteps(g, ui.StepState{Current: startOf(cfg, g), Cursor: -1},
					theme.ForColor(cfg.NoColor).Styles))
				return nil
			})
		},
	}
}

func newPlanCommand(flags *GlobalFlags, info BuildInfo) *cobra.Command {
	var from string
	cmd := &cobra.Command{
		Use:   "plan <target>",
		Short: "Print the hops reaching a step would take",
		Long: `Print the forward hops a reach of <target> takes from the start step.

Hidden steps on the path are passed through: only their setup callback runs.

Examples:
  wizardnav plan anaconda-screen-review
  wizardnav plan anaconda-screen-accounts --from anaconda-screen-method`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, info, func(_ context.Context, a *app.App) error {
				cfg := a.Config()
				g, err := describedGraph(cfg)
				if err != nil {
					return err
				}
				start := startOf(cfg, g)
				if from != "" {
					start = wizard.Step(from)
				}
				return printPlan(cmd.OutOrStdout(), g, start, wizard.Step(args[0]))
			})
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Step to plan from (default: the start step)")
	return cmd
}

func printPlan(out io.Writer, g *wizard.Graph, from, to wizard.Step) error {
	const op = "cli.plan"
	if !g.Has(to) {
		return errors.Newf(errors.UnknownStep, "step %q is not declared", to).WithOp(op)
	}
	if g.IsHidden(to) {
		return errors.Newf(errors.UnreachableStep, "step %s is hidden", to).WithOp(op)
	}
	path, err := g.PathBetween(from, to)
	if err != nil {
		return err
	}
	if len(path) == 0 {
		fmt.Fprintf(out, "already on %s\n", to)
		return nil
	}

	fmt.Fprintf(out, "%s → %s: %d hops\n", from, to, len(path))
	for i, hop := range path {
		note := ""
		_, setup := g.Callback(hop)
		switch {
		case g.IsHidden(hop):
			note = "  (hidden, setup only)"
		case setup:
			note = "  (setup)"
		}
		fmt.Fprintf(out, "%3d. %s%s\n", i+1, hop, note)
	}
	return nil
}

func newRunCommand(flags *GlobalFlags, info BuildInfo) *cobra.Command {
	var simulated bool
	cmd := &cobra.Command{
		Use:   "run <flow.yaml>",
		Short: "Run a flow file against the wizard",
		Long: `Run the actions of a flow file in order, stopping at the first failure.

The flow's scenario and hidden steps apply on top of the configuration.
With --simulate the flow runs against the in-memory wizard instead of a
browser.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flow, err := script.Load(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, flags, info, func(ctx context.Context, a *app.App) error {
				s, err := a.Session(ctx, app.SessionOptions{
					Simulate: simulated,
					Scenario: flow.Scenario,
					Hidden:   flow.Hidden(),
				})
				if err != nil {
					return err
				}
				res, err := script.NewRunner(s.Navigator, a.Logger().WithPrefix("flow")).Run(ctx, flow)
				printResult(cmd.OutOrStdout(), flow, res, theme.ForColor(a.Config().NoColor).Styles)
				return err
			})
		},
	}
	cmd.Flags().BoolVar(&simulated, "simulate", false, "Run against the in-memory wizard")
	return cmd
}

func printResult(out io.Writer, flow *script.Flow, res *script.Result, styles theme.Styles) {
	if res == nil {
		return
	}
	fmt.Fprintf(out, "flow %s\n", flow.Name)
	for _, r := range res.Steps {
		line := fmt.Sprintf("%s %3d. %s", theme.MarkerReached, r.Index+1, r.Action)
		if r.Err != nil {
			line = fmt.Sprintf("%s %3d. %s: %v", theme.MarkerFailed, r.Index+1, r.Action, r.Err)
			fmt.Fprintln(out, styles.HopFailed.Render(line))
			continue
		}
		fmt.Fprintln(out, styles.HopOK.Render(fmt.Sprintf("%s (%s)", line, r.Duration.Round(time.Microsecond))))
	}
	if res.Failed() {
		fmt.Fprintln(out, styles.Error.Render(fmt.Sprintf("failed after %d of %d actions", len(res.Steps), len(flow.Steps))))
		return
	}
	fmt.Fprintln(out, styles.Success.Render(fmt.Sprintf("%d actions passed", len(res.Steps))))
}

func newExploreCommand(flags *GlobalFlags, info BuildInfo) *cobra.Command {
	var start string
	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Explore the scenario interactively",
		Long: `Open the interactive explorer over the in-memory wizard.

Move the cursor over the step list and reach, open or jump to steps while
watching the journal of hops.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, info, func(ctx context.Context, a *app.App) error {
				s, err := a.Session(ctx, app.SessionOptions{Simulate: true, Start: wizard.Step(start)})
				if err != nil {
					return err
				}
				return ui.Run(ctx, s.Navigator,
					ui.WithTheme(theme.ForColor(a.Config().NoColor)),
					ui.WithTitle(fmt.Sprintf("%s explorer: %s", constants.AppName, scenarioLabel(a.Config()))),
				)
			})
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "Step the wizard starts on")
	return cmd
}

func newVersionCommand(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprint(cmd.OutOrStdout(), VersionString(info))
			return nil
		},
	}
}

// VersionString returns formatted version information.
func VersionString(info BuildInfo) string {
	s := fmt.Sprintf("%s version %s\n", constants.AppName, info.Version)
	if info.BuildTime != "" && info.BuildTime != "unknown" {
		s += fmt.Sprintf("Build time: %s\n", info.BuildTime)
	}
	if info.GitCommit != "" && info.GitCommit != "unknown" {
		commit := info.GitCommit
		if len(commit) > 7 {
			commit = commit[:7]
		}
		s += fmt.Sprintf("Git commit: %s\n", commit)
	}
	return s
}
