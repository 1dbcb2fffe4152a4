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

	pkgvalidator "github.com/johnquangdev/meeting-automations/pkg/validator"

	"github.com/johnquangdev/meeting-automations/internal/adapter/handler"
	"github.com/johnquangdev/meeting-automations/internal/adapter/repository"
	"github.com/johnquangdev/meeting-automations/internal/domain/entities"
	"github.com/johnquangdev/meeting-automations/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-automations/internal/infrastructure/database"
	"github.com/johnquangdev/meeting-automations/internal/infrastructure/external/graphql"
	"github.com/johnquangdev/meeting-automations/internal/infrastructure/external/httpclient"
	"github.com/johnquangdev/meeting-automations/internal/infrastructure/external/hubspot"
	"github.com/johnquangdev/meeting-automations/internal/infrastructure/external/linear"
	"github.com/johnquangdev/meeting-automations/internal/infrastructure/external/monday"
	"github.com/johnquangdev/meeting-automations/internal/infrastructure/external/notion"
	"github.com/johnquangdev/meeting-automations/internal/infrastructure/external/oauth"
	"github.com/johnquangdev/meeting-automations/internal/infrastructure/external/salesforce"
	"github.com/johnquangdev/meeting-automations/internal/infrastructure/external/slack"
	httpmw "github.com/johnquangdev/meeting-automations/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/meeting-automations/internal/infrastructure/ratelimit"
	"github.com/johnquangdev/meeting-automations/internal/usecase/export"
	"github.com/johnquangdev/meeting-automations/pkg/config"
	"github.com/johnquangdev/meeting-automations/pkg/jwt"
)

// @title           Meeting Automations API
// @version         1.0
// @description     Exports finished meeting transcripts to the integrations configured by each user

// @BasePath  /v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the service JWT.

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

	e.HideBanner = true
	e.HidePort = false

	e.Use(middleware.RequestID())
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))
	e.Use(middleware.Recover())

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	// Initialize Database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	if cfg.Database.AutoMigrate {
		log.Println("🔄 Applying sql-migrate migrations...")
		n, err := database.Migrate(db, database.MigrationsDir)
		if err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		log.Printf("✅ Applied %d migrations", n)
	} else {
		log.Println("🔄 Skipping migrations; run scripts/migrate.go in CI/CD/production")
	}

	// Rate limiting is shared through Redis when configured, otherwise per process
	limits := ratelimit.Limits(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	var limiter ratelimit.Limiter = ratelimit.NewLocal(limits)
	if cfg.Redis.Addr != "" {
		log.Println("📦 Connecting to Redis...")
		redisClient, err := cache.NewRedisClient(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		limiter = ratelimit.NewRedis(redisClient, limits, logger)
		log.Println("✅ Using Redis rate limiter")
	} else {
		log.Println("⚠️  REDIS_ADDR not set, using in-process rate limiter")
	}

	// Initialize repositories
	log.Println("⚙️  Initializing repositories...")
	store := repository.NewDocumentStore(db)
	transcriptRepo := repository.NewTranscriptRepository(store, logger)
	userRepo := repository.NewUserRepository(store)
	automationRepo := repository.NewAutomationRepository(store)
	runRepo := repository.NewExportRunRepository(store)
	workspaceRepo := repository.NewSlackWorkspaceRepository(store)

	// Initialize provider clients
	log.Println("🔌 Initializing provider clients...")
	retry := httpclient.RetryConfig{
		MaxRetries: cfg.Export.MaxRetries,
		Initial:    cfg.Export.RetryInitial,
		MaxElapsed: cfg.Export.RetryMaxElapsed,
	}
	providerClient := func(provider entities.StepType) *httpclient.Client {
		return httpclient.New(string(provider),
			httpclient.WithLimiter(limiter),
			httpclient.WithLogger(logger),
			httpclient.WithRetry(retry),
		)
	}

	p := cfg.Providers
	notionClient := notion.NewClient(p.Notion, providerClient(entities.StepTypeNotion))
	slackClient := slack.NewClient(p.Slack, limiter, logger)
	hubspotClient := hubspot.NewClient(p.HubSpot, providerClient(entities.StepTypeHubSpot))
	linearClient := linear.NewClient(graphql.New(p.Linear.URL, providerClient(entities.StepTypeLinear)))
	mondayClient := monday.NewClient(graphql.New(p.Monday.URL, providerClient(entities.StepTypeMonday),
		graphql.WithRawAuthorization(),
		graphql.WithHeader("API-Version", p.Monday.APIVersion),
	))
	salesforceClient := salesforce.NewClient(p.Salesforce, providerClient(entities.StepTypeSalesforce))

	log.Println("🔐 Initializing HubSpot token refresher...")
	refresher := oauth.NewHubSpotRefresher(
		p.HubSpot.ClientID,
		p.HubSpot.ClientSecret,
		p.HubSpot.TokenURL,
		&http.Client{Timeout: 30 * time.Second},
	)

	// Initialize export service
	log.Println("✨ Initializing export service...")
	v := pkgvalidator.New()
	loc := cfg.Export.Location()
	registry := export.Registry{
		entities.StepTypeNotion:     export.NewNotionAdapter(notionClient, v, loc),
		entities.StepTypeSlack:      export.NewSlackAdapter(slackClient, workspaceRepo, v, loc),
		entities.StepTypeHubSpot:    export.NewHubSpotAdapter(hubspotClient, refresher, userRepo, v, loc, cfg.Export.RefreshSkew),
		entities.StepTypeLinear:     export.NewLinearAdapter(linearClient, v, loc),
		entities.StepTypeMonday:     export.NewMondayAdapter(mondayClient, v, loc),
		entities.StepTypeSalesforce: export.NewSalesforceAdapter(salesforceClient, v, loc),
	}
	exportService := export.NewExportService(
		transcriptRepo,
		userRepo,
		automationRepo,
		runRepo,
		registry,
		cfg.Export,
		logger,
	)
	exportHandler := handler.NewExportHandler(exportService, logger)
	log.Println("✅ Export service initialized successfully")

	// Initialize JWT manager
	log.Println("🔑 Initializing JWT manager...")
	jwtManager := jwt.NewManager(cfg.JWT.ServiceSecret, cfg.JWT.Issuer, cfg.JWT.TokenExpiry)
	authEchoMW := httpmw.EchoServiceAuth(jwtManager, jwt.ScopeExport, logger)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(cfg, exportHandler, authEchoMW)
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
