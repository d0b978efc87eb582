package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"alfredoptarigan/resume-matcher/internal/config"
	"alfredoptarigan/resume-matcher/internal/handlers"
	"alfredoptarigan/resume-matcher/internal/repositories"
	"alfredoptarigan/resume-matcher/internal/services"
)

// maxUploadFiles bounds one match request: a job description plus resumes.
const maxUploadFiles = 20

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}
	log.Println("✅ Config loaded successfully")

	slogger := newLogger(cfg.Server.Env)
	slog.SetDefault(slogger)

	// Initialize history repository
	runRepo, err := newRunRepository(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize match history: %v", err)
	}
	log.Printf("✅ Match history initialized (%s)\n", cfg.Database.Backend)

	// Load the embedding model once for the whole process
	ctx := context.Background()
	model := services.LoadEmbeddingModel(ctx, cfg, slogger)
	if model.Available() {
		log.Printf("✅ Embedding model %s loaded\n", model.Name())
	} else {
		log.Printf("⚠️  Embedding model unavailable, match percentages run in fallback mode: %v\n", model.LoadError())
	}

	// Initialize matcher
	matcher, err := services.BuildMatcher(cfg, model, slogger)
	if err != nil {
		log.Fatalf("❌ Failed to initialize matcher: %v", err)
	}
	log.Println("✅ Matcher service initialized")

	// Initialize Handlers
	matchHandler := handlers.NewMatchHandler(
		matcher,
		services.NewDocumentLoader(cfg.Storage.MaxFileSize),
		runRepo,
		services.NewHighlighter(cfg.Keywords.HighlightColor),
	)
	resultHandler := handlers.NewResultHandler(runRepo)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Resume Matcher API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
		BodyLimit:    int(cfg.Storage.MaxFileSize) * maxUploadFiles,
		ErrorHandler: handlers.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	handlers.RegisterRoutes(app, matchHandler, resultHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
		matcher.Close()
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)
	log.Printf("📖 API Documentation: http://localhost%s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func newLogger(env string) *slog.Logger {
	level := slog.LevelInfo
	if env == "development" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

func newRunRepository(cfg *config.Config) (repositories.MatchRunRepository, error) {
	if cfg.Database.Backend != config.HistoryBackendPostgres {
		return repositories.NewMemoryMatchRunRepository(cfg.Database.MaxRuns), nil
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return nil, err
	}
	return repositories.NewMatchRunRepository(db), nil
}
