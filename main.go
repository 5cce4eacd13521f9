package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bandroom/internal/api"
	"bandroom/internal/cache"
	"bandroom/internal/config"
	"bandroom/internal/daemon"
	"bandroom/internal/database"
	"bandroom/internal/member"
	"bandroom/internal/monitoring"
	"bandroom/internal/rehearsal"
	"bandroom/internal/repository"
	"bandroom/internal/schedule"
	"bandroom/internal/service"
	"bandroom/internal/store"
	"bandroom/internal/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/storage/postgres/v3"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		fmt.Println("Received signal:", sig)
		cancel()
	}()

	cfg := config.NewConfig()

	// Set up telemetry and logging
	tel, err := monitoring.NewOpenTelemetry(cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("initialize telemetry: %w", err)
	}
	logger := tel.Logger()

	// Set up Postgres connection
	db := database.NewDatabase()
	if err := db.Connect(ctx, cfg.Database.URL()); err != nil {
		logger.Error("Failed to initialize database", "error", err)
		return err
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		logger.Error("Failed to migrate database", "error", err)
		return err
	}

	// Set up session store
	sessionStorage := postgres.New(postgres.Config{
		ConnectionURI: cfg.Database.URL(),
		Table:         "tbl_session",
		Reset:         false,
	})
	sessions := session.New(session.Config{
		Storage:        sessionStorage,
		KeyLookup:      "cookie:session_id",
		CookiePath:     "/",
		CookieSecure:   cfg.Server.Environment == "production",
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
		Expiration:     30 * 24 * time.Hour,
	})

	// Shared Redis client for rate limiting and the reminder digest. The
	// cache proxy endpoints dial their own short-lived connections.
	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		logger.Error("Failed to parse Redis URL", "error", err)
		return err
	}
	if cfg.Redis.TLS {
		redisOpts.TLSConfig = &tls.Config{InsecureSkipVerify: cfg.Redis.SkipTLSVerify}
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	repo := repository.NewPostgresRepository(&db)
	projection := store.New(logger, &db, repo)
	v := validator.New()
	rateLimiter := service.NewRateLimiter(redisClient)

	scheduler := schedule.NewManager(logger, repo, tel)
	members := member.NewManager(logger, repo)
	rehearsals := rehearsal.NewManager(logger, repo, tel)

	handler := api.NewAppHandler(sessions, repo, projection, v, tel, rateLimiter, scheduler, members, rehearsals)
	cacheHandler := cache.NewHandler(logger, cache.RedisDialer(cfg.Redis))

	// Set up Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	// Rate limiting for auth endpoints
	authLimiter := limiter.New(limiter.Config{
		Max:        10,
		Expiration: 15 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many attempts. Please try again later.",
			})
		},
	})

	app.Get("/api/health", handler.Healthy)

	app.Post("/auth/register", authLimiter, handler.Register)
	app.Post("/auth/login", authLimiter, handler.Login)
	app.Post("/auth/logout", handler.Logout)

	apiGroup := app.Group("/api", handler.RequireAuth)
	apiGroup.Get("/members", handler.ListMembers)
	apiGroup.Post("/members", handler.CreateMember)
	apiGroup.Put("/members/:id", handler.UpdateMember)
	apiGroup.Delete("/members/:id", handler.DeleteMember)

	apiGroup.Post("/availability/reconcile", handler.Reconcile)
	apiGroup.Post("/availability/drag/press", handler.DragPress)
	apiGroup.Post("/availability/drag/enter", handler.DragEnter)
	apiGroup.Post("/availability/drag/release", handler.DragRelease)
	// Leaving the calendar surface commits like a release.
	apiGroup.Post("/availability/drag/leave", handler.DragRelease)

	apiGroup.Get("/rehearsals", handler.ListRehearsals)
	apiGroup.Post("/rehearsals", handler.CreateRehearsal)

	apiGroup.Get("/calendar/stream", handler.CalendarStream)
	apiGroup.Get("/calendar/:month", handler.Calendar)

	// Cache proxy endpoints; the handlers do their own method and CORS
	// handling to match the serverless functions they replace.
	app.All("/redis/get", cacheHandler.Get)
	app.All("/redis/set", cacheHandler.Set)

	// Supervised daemons: the change listener feeding the projection and
	// the morning rehearsal digest.
	daemons := daemon.NewDaemonManager(logger)
	daemons.Add("listener", projection.Listen)
	daemons.Add("reminder", daemon.ReminderTask(logger, repo, redisClient))
	daemons.Start(ctx)

	go func() {
		addr := cfg.Server.Host + ":" + cfg.Server.Port
		logger.Info("Starting HTTP server...", "addr", addr)
		if err := app.Listen(addr); err != nil {
			logger.Error("HTTP server stopped", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()

	logger.Info("Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("Error shutting down HTTP server", "error", err)
	}
	daemons.Wait()
	if err := tel.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error shutting down telemetry", "error", err)
	}

	return nil
}
