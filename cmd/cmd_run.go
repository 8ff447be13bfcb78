package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/favicon"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/zordinals/zord-indexer/common/errs"
	"github.com/zordinals/zord-indexer/internal/api/httphandler"
	"github.com/zordinals/zord-indexer/internal/api/usecase"
	"github.com/zordinals/zord-indexer/internal/config"
	"github.com/zordinals/zord-indexer/internal/indexer"
	"github.com/zordinals/zord-indexer/internal/store"
	"github.com/zordinals/zord-indexer/internal/tippush"
	"github.com/zordinals/zord-indexer/internal/zcashclient"
	"github.com/zordinals/zord-indexer/pkg/automaxprocs"
	"github.com/zordinals/zord-indexer/pkg/errorhandler"
	"github.com/zordinals/zord-indexer/pkg/logger"
	"github.com/zordinals/zord-indexer/pkg/logger/slogx"
	"github.com/zordinals/zord-indexer/pkg/middleware/requestcontext"
	"github.com/zordinals/zord-indexer/pkg/middleware/requestlogger"
)

func NewRunCommand() *cobra.Command {
	// Create command
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Start zord indexer service",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := automaxprocs.Init(); err != nil {
				logger.Error("Failed to set GOMAXPROCS", slogx.Error(err))
			}
			return runHandler(cmd, args)
		},
	}

	// Add local flags
	flags := runCmd.Flags()
	flags.String("db-path", "", "path to the index database directory")
	flags.Uint64("start-height", 0, "height of the first inscribable block")

	// Bind flags to configuration
	config.BindPFlag("db.path", flags.Lookup("db-path"))
	config.BindPFlag("start_height", flags.Lookup("start-height"))

	return runCmd
}

const shutdownTimeout = 60 * time.Second

func runHandler(cmd *cobra.Command, _ []string) error {
	conf := config.Load("")

	// Validate inputs and configurations
	if err := conf.Validate(); err != nil {
		return errors.Wrap(errs.InvalidArgument, err.Error())
	}
	if conf.StartHeight == 0 {
		conf.StartHeight = conf.Network.DefaultStartHeight()
	}

	// Initialize application process context
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	injector := do.New()
	do.ProvideValue(injector, conf)

	// Initialize Zcash RPC client
	do.Provide(injector, func(i do.Injector) (*zcashclient.Client, error) {
		conf := do.MustInvoke[config.Config](i)

		client := zcashclient.New(conf.Rpc.Url, conf.Rpc.Username, conf.Rpc.Password)

		// Check node RPC connection
		{
			start := time.Now()
			logger.InfoContext(ctx, "Connecting to Zcash node RPC server...", slogx.String("url", conf.Rpc.Url))
			if _, err := client.GetBlockCount(ctx); err != nil {
				return nil, errors.Wrapf(err, "can't connect to Zcash node RPC server %q", conf.Rpc.Url)
			}
			logger.InfoContext(ctx, "Connected to Zcash node RPC server", slog.Duration("latency", time.Since(start)))
		}

		return client, nil
	})

	// Initialize index database
	do.Provide(injector, func(i do.Injector) (*store.Store, error) {
		conf := do.MustInvoke[config.Config](i)

		s, err := store.Open(conf.Db.Path)
		if err != nil {
			return nil, errors.Wrapf(err, "can't open index database at %q", conf.Db.Path)
		}
		return s, nil
	})

	// Initialize tip push subscriber. Optional, the indexer falls back to
	// polling without it.
	do.Provide(injector, func(i do.Injector) (*tippush.Subscriber, error) {
		conf := do.MustInvoke[config.Config](i)
		if conf.TipPush.Url == "" {
			return nil, nil
		}
		return tippush.New(conf.TipPush.Url), nil
	})

	// Initialize indexer worker
	do.Provide(injector, func(i do.Injector) (*indexer.Indexer, error) {
		conf := do.MustInvoke[config.Config](i)
		s := do.MustInvoke[*store.Store](i)
		client := do.MustInvoke[*zcashclient.Client](i)
		tip := do.MustInvoke[*tippush.Subscriber](i)

		return indexer.New(s, client, indexer.NewProcessor(), tip, conf.StartHeight), nil
	})

	// Initialize read API
	do.Provide(injector, func(i do.Injector) (*httphandler.HttpHandler, error) {
		conf := do.MustInvoke[config.Config](i)
		s := do.MustInvoke[*store.Store](i)

		return httphandler.New(usecase.New(s, conf.StartHeight, Version)), nil
	})

	// Initialize HTTP server
	do.Provide(injector, func(i do.Injector) (*fiber.App, error) {
		app := fiber.New(fiber.Config{
			AppName:      "Zord Indexer",
			ErrorHandler: errorhandler.NewHTTPErrorHandler(),
		})
		app.
			Use(favicon.New()).
			Use(cors.New()).
			Use(requestid.New()).
			Use(requestcontext.New(
				requestcontext.WithRequestId(),
				requestcontext.WithClientIP(conf.Api.RequestIp),
			)).
			Use(requestlogger.New(conf.Api.Logger)).
			Use(fiberrecover.New(fiberrecover.Config{
				EnableStackTrace: true,
				StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
					buf := make([]byte, 1024)
					buf = buf[:runtime.Stack(buf, false)]
					logger.ErrorContext(c.UserContext(), "Something went wrong, panic in http handler", slogx.Any("panic", e), slog.String("stacktrace", string(buf)))
				},
			})).
			Use(compress.New(compress.Config{
				Level: compress.LevelDefault,
			}))

		// Health check
		app.Get("/", func(c *fiber.Ctx) error {
			return errors.WithStack(c.SendStatus(http.StatusOK))
		})

		handler := do.MustInvoke[*httphandler.HttpHandler](i)
		if err := handler.Mount(app); err != nil {
			return nil, errors.Wrap(err, "can't mount API routes")
		}

		return app, nil
	})

	// Run indexer worker
	worker := do.MustInvoke[*indexer.Indexer](injector)
	go func() {
		// stop main process if indexer stopped
		defer stop()

		logger.InfoContext(ctx, "Starting Zord Indexer")
		if err := worker.Run(ctx); err != nil {
			logger.ErrorContext(ctx, "Something went wrong, error during running indexer", err)
		}
	}()

	// Run API server
	httpServer := do.MustInvoke[*fiber.App](injector)
	go func() {
		// stop main process if API stopped
		defer stop()

		logger.InfoContext(ctx, "Started HTTP server", slog.Int("port", conf.Api.Port))
		if err := httpServer.Listen(fmt.Sprintf(":%d", conf.Api.Port)); err != nil {
			logger.ErrorContext(ctx, "Something went wrong, error during running HTTP server", err)
		}
	}()

	logger.InfoContext(ctx, "Zord Indexer started")

	// Wait for interrupt signal to gracefully stop the server
	<-ctx.Done()

	// Force shutdown if timeout exceeded or got signal again
	go func() {
		defer os.Exit(1)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		select {
		case <-ctx.Done():
			logger.FatalContext(ctx, "Received exit signal again. Force shutdown...")
		case <-time.After(shutdownTimeout + 15*time.Second):
			logger.FatalContext(ctx, "Shutdown timeout exceeded. Force shutdown...")
		}
	}()

	{
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := httpServer.ShutdownWithContext(shutdownCtx); err != nil {
			logger.ErrorContext(shutdownCtx, "Failed to shut down HTTP server", err)
		}
		if err := worker.ShutdownWithContext(shutdownCtx); err != nil {
			logger.ErrorContext(shutdownCtx, "Failed to shut down indexer", err)
		}
	}
	if err := do.MustInvoke[*store.Store](injector).Close(); err != nil {
		logger.Error("Failed to close index database", slogx.Error(err))
	}

	return nil
}
