package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tungetti/wizardnav/internal/app"
	"github.com/tungetti/wizardnav/internal/constants"
)

// BuildInfo is the version information baked into the binary.
type BuildInfo struct {
	Version   string
	BuildTime string
	GitCommit string
}

// NewRootCommand builds the wizardnav command tree.
func NewRootCommand(info BuildInfo) *cobra.Command {
	flags := &GlobalFlags{}

	root := &cobra.Command{
		Use:   constants.AppName,
		Short: "Drive installer wizards step by step",
		Long: `wizardnav drives a multi-step installer wizard through its screens.

It knows the wizard's step graph for each installation scenario and moves
between screens with next, back and sidebar actions, checking after every
action that the wizard landed where expected.

Examples:
  wizardnav steps --scenario home-reuse
  wizardnav plan anaconda-screen-review
  wizardnav run smoke.yaml --simulate
  wizardnav explore`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return flags.Validate()
		},
	}
	flags.register(root)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &FlagError{Flag: "args", Message: err.Error()}
	})

	root.AddCommand(
		newStepsCommand(flags, info),
		newPlanCommand(flags, info),
		newRunCommand(flags, info),
		newExploreCommand(flags, info),
		newVersionCommand(info),
	)
	return root
}

// Execute runs the command tree with args and returns the exit code.
func Execute(args []string, stdout, stderr io.Writer, info BuildInfo) int {
	root := NewRootCommand(info)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitCode(err).Int()
	}
	return constants.ExitSuccess.Int()
}

// withApp initializes the application from the global flags and runs fn
// under its lifecycle. The application is shut down when fn returns.
func withApp(cmd *cobra.Command, flags *GlobalFlags, info BuildInfo,
	fn func(ctx context.Context, a *app.App) error) error {
	a := app.New(app.Options{
		Version:         info.Version,
		BuildTime:       info.BuildTime,
		GitCommit:       info.GitCommit,
		ShutdownTimeout: constants.ShutdownTimeout,
	})

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := a.Initialize(ctx, flags.ConfigFile, flags.Apply); err != nil {
		return err
	}
	return a.Run(ctx, func(ctx context.Context) error {
		return fn(ctx, a)
	})
}
