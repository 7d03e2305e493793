package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"esg-matching/core/database"
	"esg-matching/core/loader"
	"esg-matching/core/logger"
	"esg-matching/core/middleware/auth"
	"esg-matching/core/middleware/rayid"
	"esg-matching/feature/integrity"
	"esg-matching/feature/matching"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "esg-matching/docs/swagger"
)

// @title ESG Matching API
// @version 1.0
// @description API for running rule-based matching of target datasets against referential datasets.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the HTTP server",
	Long:  `Loads the settings, connects to the database and serves the matching and integrity endpoints until SIGINT or SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadRuntime(cmd.Context())
		if err != nil {
			return err
		}
		logg := rt.logger
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		store, err := rt.connect()
		if err != nil {
			return err
		}
		logg.Info("Connected to database", zap.String("driver", rt.cfg.Database.Driver))

		app, mgr, err := newServer(rt, store)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errc := make(chan error, 1)
		go func() {
			logg.Info("Starting server", zap.String("addr", rt.cfg.Server.Addr()), zap.Strings("features", mgr.Enabled()))
			errc <- app.Listen(rt.cfg.Server.Addr())
		}()

		select {
		case err := <-errc:
			return err
		case <-ctx.Done():
		}
		logg.Info("Shutting down server...")
		if err := app.ShutdownWithTimeout(rt.cfg.Server.ShutdownTimeout()); err != nil {
			logg.Warn("Shutdown did not complete", zap.Error(err))
		}
		return nil
	},
}

// newServer builds the Fiber app: ray id, request logging, the public
// /health and /swagger routes, then the API key check and the features.
func newServer(rt *runtime, store *database.Store) (*fiber.App, *loader.Manager, error) {
	logg := rt.logger

	mgr := loader.NewManager()
	mgr.Register(matching.NewFeature(store, rt.settings, rt.client, rt.cfg.Storage.Bucket, rt.cfg.Matching, logg))
	mgr.Register(integrity.NewFeature(store, rt.settings, logg))

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(rayid.New())
	app.Use(requestLogger(logg))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "features": mgr.Enabled()})
	})
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Use(auth.New(auth.Config{ApiKey: rt.cfg.Server.ApiKey}))
	if err := mgr.LoadAll(app); err != nil {
		return nil, nil, err
	}
	return app, mgr, nil
}

func requestLogger(logg *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		l := logger.WithRayID(logg, c)
		l.Info("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		return err
	}
}

func init() {
	RootCmd.AddCommand(startCmd)
}
