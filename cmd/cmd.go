package cmd

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/zordinals/zord-indexer/internal/config"
	"github.com/zordinals/zord-indexer/pkg/logger"
	"github.com/zordinals/zord-indexer/pkg/logger/slogx"
)

// Version is the release version reported by "zord version" and the status
// endpoint.
const Version = "v0.1.0"

var cmd = &cobra.Command{
	Use:  "zord",
	Long: `Zordinals metaprotocol indexer for the Zcash transparent ledger`,
}

func init() {
	var configFile string

	// Add global flags
	flags := cmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file, E.g. `./config.yaml`")

	// Initialize configuration and logger on start command
	cobra.OnInitialize(func() {
		conf := config.Load(configFile)

		if err := logger.Init(conf.Logger); err != nil {
			logger.Panic("Failed to initialize logger: %v", slogx.Error(err), slog.Any("config", conf.Logger))
		}
	})
}

func Execute(ctx context.Context) {
	// Register sub-commands and handlers
	cmd.AddCommand(
		NewVersionCommand(),
		NewRunCommand(),
	)

	// Execute command
	if err := cmd.ExecuteContext(ctx); err != nil {
		logger.Fatal("Failed to execute command", slogx.Error(err))
	}
}
