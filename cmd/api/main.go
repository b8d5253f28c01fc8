package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	_ "github.com/johnquangdev/loan-agent-trainer/docs"
	pkgvalidator "github.com/johnquangdev/loan-agent-trainer/pkg/validator"

	"github.com/johnquangdev/loan-agent-trainer/internal/adapter/handler"
	"github.com/johnquangdev/loan-agent-trainer/internal/adapter/repository"
	"github.com/johnquangdev/loan-agent-trainer/internal/infrastructure/cache"
	"github.com/johnquangdev/loan-agent-trainer/internal/infrastructure/database"
	httpmw "github.com/johnquangdev/loan-agent-trainer/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/loan-agent-trainer/internal/usecase/auth"
	"github.com/johnquangdev/loan-agent-trainer/internal/usecase/conversation"
	"github.com/johnquangdev/loan-agent-trainer/internal/usecase/simulator"
	"github.com/johnquangdev/loan-agent-trainer/internal/usecase/streak"
	"github.com/johnquangdev/loan-agent-trainer/internal/usecase/user"
	pkgai "github.com/johnquangdev/loan-agent-trainer/pkg/ai"
	"github.com/johnquangdev/loan-agent-trainer/pkg/config"
	"github.com/johnquangdev/loan-agent-trainer/pkg/jwt"
)

// @title           Loan Agent Trainer API
// @version         1.0
// @description     Practice sales conversations with a simulated banking customer, get scored feedback and track daily streaks

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath  /v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	e.Use(middleware.RequestID())

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${id} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "Set-Cookie", "Cookie"},
		AllowCredentials: true,
	}))

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	// Initialize Database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	// Production deployments should manage schema via cmd/migrate.
	if cfg.Database.AutoMigrate {
		if cfg.IsProduction() {
			log.Fatalf("AutoMigrate is enabled in production. Disable DB_AUTO_MIGRATE or run cmd/migrate.")
		}
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	} else {
		log.Println("🔄 Skipping migrations; run cmd/migrate to apply them")
	}

	// Per-user streak lock
	var locker streak.Locker
	if cfg.Redis.Enabled {
		log.Println("📦 Connecting to Redis...")
		redisClient, err := cache.NewRedisClient(context.Background(), cfg)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		locker = cache.NewRedisLocker(redisClient, cfg.Streak.LockTTL, cfg.Streak.LockWait, logger)
	} else {
		log.Println("⚠️  Redis disabled, streak updates are serialized in-process only")
		locker = cache.NewMemoryLocker(cfg.Streak.LockWait)
	}

	// Initialize repositories
	log.Println("⚙️  Initializing repositories...")
	userRepo := repository.NewUserRepository(db)
	streakRepo := repository.NewStreakRepository(db)
	conversationRepo := repository.NewConversationRepository(db)

	// Chat completion provider
	log.Printf("🤖 Initializing LLM provider %q...", cfg.LLM.Provider)
	var completer pkgai.Completer
	switch cfg.LLM.Provider {
	case config.ProviderGroq:
		completer = pkgai.NewGroqClient(cfg.LLM, logger)
	default:
		completer = simulator.New(logger)
	}

	// Initialize JWT manager
	jwtManager := jwt.NewManager(cfg.JWT.AccessSecret, cfg.JWT.AccessExpiry)

	// Initialize services
	log.Println("✨ Initializing services...")
	authService := auth.NewAuthService(userRepo, jwtManager, logger)
	userService := user.NewUserService(userRepo, logger)
	conversationService := conversation.NewConversationService(conversationRepo, completer, conversation.Options{
		Prompts: conversation.Prompts{
			Easy: cfg.LLM.PromptEasy,
			Hard: cfg.LLM.PromptHard,
		},
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
	}, logger)

	loc, err := cfg.Streak.Location()
	if err != nil {
		log.Fatalf("Failed to load streak timezone: %v", err)
	}
	streakService := streak.NewStreakService(streakRepo, locker, streak.NewEvaluator(loc, cfg.Streak.PassThreshold), logger)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(
		cfg,
		httpmw.EchoAuth(authService),
		handler.NewAuth(authService, logger),
		handler.NewConversation(conversationService, logger),
		handler.NewStreak(streakService, logger),
		handler.NewUser(userService, logger),
		handler.NewChat(completer, logger),
	)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
