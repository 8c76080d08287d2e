package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/catapult/internal/adapters/progress"
	"github.com/trebuchet-org/catapult/internal/app"
	"github.com/trebuchet-org/catapult/internal/cli/render"
	"github.com/trebuchet-org/catapult/internal/config"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey  contextKey = "app"
	// sinkKey is the context key for the progress sink
	sinkKey contextKey = "progress"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "catapult",
		Short: "Deploy and interact with compiled smart contracts",
		Long: `Catapult deploys compiled contract artifacts to EVM networks, waits for their
confirmation and keeps a registry of what was deployed where.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipInit(cmd) {
				return nil
			}

			projectRoot, err := config.FindProjectRoot()
			if err != nil {
				return err
			}

			v := config.SetupViper(projectRoot, cmd)
			sink := newProgressSink(v)

			appInstance, err := app.InitApp(v, sink)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			ctx = context.WithValue(ctx, sinkKey, sink)
			cmd.SetContext(ctx)
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts and spinners")
	rootCmd.PersistentFlags().StringP("network", "n", "", "Network to use (e.g., localhost, sepolia)")
	rootCmd.PersistentFlags().String("account", "", "Account index or address used for signing")
	rootCmd.PersistentFlags().Uint64("confirmations", 0, "Blocks to wait for after inclusion (overrides the network default)")
	rootCmd.PersistentFlags().Duration("timeout", 0, "How long to wait for confirmations (default 5m)")
	rootCmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	rootCmd.PersistentFlags().Bool("yaml", false, "Output in YAML format")
	rootCmd.MarkFlagsMutuallyExclusive("json", "yaml")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "chain",
		Title: "Chain Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	for _, cmd := range []*cobra.Command{NewDeployCmd(), NewCallCmd(), NewSendCmd(), NewDeploymentsCmd(), NewVerifyCmd()} {
		cmd.GroupID = "main"
		rootCmd.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{NewBalanceCmd(), NewAccountsCmd(), NewBlockNumberCmd(), NewNodeCmd()} {
		cmd.GroupID = "chain"
		rootCmd.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{NewNetworksCmd(), NewConfigCmd()} {
		cmd.GroupID = "management"
		rootCmd.AddCommand(cmd)
	}

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// skipInit reports whether cmd runs without a project or network
func skipInit(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help", "completion", "__complete":
		return true
	}
	return false
}

// newProgressSink picks the progress output for the selected output mode. Structured
// output keeps stderr quiet.
func newProgressSink(v *viper.Viper) usecase.ProgressSink {
	if v.GetBool("json") || v.GetBool("yaml") {
		return progress.NewNopSink()
	}
	interactive := !v.GetBool("non_interactive") && !color.NoColor
	return progress.NewSpinnerSink(os.Stderr, interactive)
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}

// stopProgress clears a running spinner before results are written
func stopProgress(cmd *cobra.Command) {
	if sink, ok := cmd.Context().Value(sinkKey).(*progress.SpinnerSink); ok {
		sink.Stop()
	}
}

// renderResult writes result as JSON or YAML when requested, otherwise through text
func renderResult[T any](cmd *cobra.Command, a *app.App, result T, text func(T) error) error {
	stopProgress(cmd)
	if done, err := render.Structured(cmd.OutOrStdout(), render.FormatOf(a.Config), result); done {
		return err
	}
	return text(result)
}

// useColor reports whether tables are drawn with colors
func useColor(a *app.App) bool {
	return !color.NoColor && !a.Config.NonInteractive
}
