package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/SscSPs/ledger_core/internal/app"
	"github.com/SscSPs/ledger_core/internal/platform/config"
)

// Runtime supplies configuration and the application container to commands.
type Runtime struct {
	LoadConfig func() (*config.Config, error)
	NewApp     func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app.App, error)
}

// DefaultRuntime reads configuration from the environment and builds a real container.
func DefaultRuntime() Runtime {
	return Runtime{
		LoadConfig: config.LoadConfig,
		NewApp:     app.New,
	}
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand(rt Runtime) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ledgerctl",
		Short: "Operator tooling for the ledger core",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newMigrateCommand(rt),
		newPostCommand(rt),
		newReverseCommand(rt),
		newSummaryCommand(rt),
		newLedgerCommand(rt),
		newAccountsCommand(rt),
		newPeriodsCommand(rt),
		newTokenCommand(rt),
	)

	return rootCmd
}

// withApp builds the container for one command run and releases it afterwards.
// Logs go to stderr so stdout stays machine readable.
func withApp(cmd *cobra.Command, rt Runtime, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := rt.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := app.NewLogger(cfg, os.Stderr)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := rt.NewApp(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing ledger: %w", err)
	}
	defer func() {
		if cerr := a.Close(ctx); cerr != nil {
			logger.Warn("Error releasing resources", slog.String("error", cerr.Error()))
		}
	}()

	return fn(ctx, a)
}
