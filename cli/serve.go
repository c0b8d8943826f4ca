package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	"github.com/vastuconnect/booking_backend/config"
	"github.com/vastuconnect/booking_backend/controllers"
	"github.com/vastuconnect/booking_backend/middleware"
	"github.com/vastuconnect/booking_backend/routes"
	"github.com/vastuconnect/booking_backend/services"
	"github.com/vastuconnect/booking_backend/utils"
	"github.com/vastuconnect/booking_backend/websocket"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := config.GetLogger()

	b, err := connect(cfg, true)
	if err != nil {
		return err
	}
	defer b.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Create WebSocket hub
	hub := websocket.NewHub()
	go hub.Run(ctx)

	accessTTL, refreshTTL := cfg.TokenTTL()
	jwt := middleware.NewJWTManager(cfg.JWT.Secret, accessTTL, refreshTTL)

	commission := services.NewCommissionService(b.stores.Settings)
	attributor := services.NewReferralAttributor(b.stores, commission, services.NewLocker(b.locks), hub)
	notifier := services.NewNotifier(utils.NewMailer(cfg.SMTP))

	ctrl := routes.Controllers{
		Auth:       controllers.NewAuthController(services.NewAuthService(b.stores, jwt)),
		Booking:    controllers.NewBookingController(services.NewBookingService(b.stores, attributor, notifier, hub)),
		Commission: controllers.NewCommissionController(commission),
		BA:         controllers.NewBAController(services.NewBAService(b.stores, hub, cfg.FrontendURL)),
		Admin:      controllers.NewAdminController(services.NewAdminService(b.stores), hub),
		Health:     controllers.NewHealthController(healthChecks(b)),
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = controllers.NewValidator()

	rateLimiter := middleware.NewRateLimiter()
	go rateLimiter.Cleanup(time.Minute, ctx.Done())

	// Middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.GlobalCORS(cfg.CORSOrigins))
	e.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	e.Use(middleware.RequestMetrics())
	e.Use(rateLimiter.RateLimit())

	routes.SetupRoutes(e, ctrl, jwt)

	errCh := make(chan error, 1)
	go func() {
		logger.WithField("port", cfg.Port).Info("Starting server")
		errCh <- e.Start(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func healthChecks(b *backend) map[string]controllers.HealthCheck {
	checks := map[string]controllers.HealthCheck{
		"database": func(ctx context.Context) error {
			return b.client.Ping(ctx, nil)
		},
	}
	if b.redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return b.redis.Ping(ctx).Err()
		}
	}
	return checks
}
