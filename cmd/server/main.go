package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shourjoguha/Gainsly-sub000/internal/api"
	"github.com/shourjoguha/Gainsly-sub000/internal/config"
	"github.com/shourjoguha/Gainsly-sub000/internal/llm"
	"github.com/shourjoguha/Gainsly-sub000/internal/logger"
	"github.com/shourjoguha/Gainsly-sub000/internal/planner"
	"github.com/shourjoguha/Gainsly-sub000/internal/repository/mongo"
	"github.com/shourjoguha/Gainsly-sub000/internal/service"
	"github.com/shourjoguha/Gainsly-sub000/internal/storage"
)

// @title Gainsly Program API
// @version 1.0
// @description API for goal-weighted training program generation: microcycle
// @description scheduling, constraint-solved session content, and deload tracking.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}

	logg, err := logger.New(cfg.Log.Mode)
	if err != nil {
		log.Fatalf("FATAL: Could not initialize logger: %v", err)
	}
	defer logg.Sync()
	logg.Info("starting gainsly server", "address", cfg.Server.Address)

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		logg.Fatal("could not connect to MongoDB", "error", err)
	}
	defer func() {
		if err := mongo.DisconnectDB(dbClient); err != nil {
			logg.Error("failed to disconnect MongoDB", "error", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	logg.Info("database connection established", "database", cfg.Database.Name)

	// --- Ensure Indexes ---
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureUserIndexes(ctx, appDB.Collection("users"))
		mongo.EnsureProgramIndexes(ctx, appDB.Collection("programs"))
		mongo.EnsureMicrocycleIndexes(ctx, appDB.Collection("microcycles"))
		mongo.EnsureSessionIndexes(ctx, appDB.Collection("sessions"))
		mongo.EnsureMovementIndexes(ctx, appDB.Collection("movements"))
		mongo.EnsureRecoveryIndexes(ctx, appDB.Collection("recovery_signals"))
		mongo.EnsureGenerationJobIndexes(ctx, appDB.Collection("generation_jobs"))
		logg.Info("index creation process completed")
	}()

	// --- Initialize Storage ---
	fileStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		logg.Fatal("failed to initialize S3 storage", "error", err)
	}

	// --- LLM Client (rationale text only; falls back to static copy) ---
	var llmClient llm.Client
	if cfg.LLM.APIKey != "" {
		llmClient, err = llm.NewHTTPClient(llm.Config{
			BaseURL: cfg.LLM.BaseURL,
			APIKey:  cfg.LLM.APIKey,
			Model:   cfg.LLM.Model,
		}, logg)
		if err != nil {
			logg.Fatal("failed to initialize LLM client", "error", err)
		}
	} else {
		logg.Warn("no LLM API key configured; session rationales use static text")
		llmClient = llm.StaticClient{}
	}

	// --- Planner Configuration ---
	plannerCfg := planner.DefaultConfig()
	if cfg.Planner.DefaultMicrocycleDays > 0 {
		plannerCfg.DefaultMicrocycleDays = cfg.Planner.DefaultMicrocycleDays
	}
	if cfg.Planner.SetsPerMovement > 0 {
		plannerCfg.SetsPerMovement = cfg.Planner.SetsPerMovement
	}
	if cfg.Planner.MinutesPerMovement > 0 {
		plannerCfg.MinutesPerMovement = cfg.Planner.MinutesPerMovement
	}
	if cfg.Planner.SolverBudget > 0 {
		plannerCfg.SolverBudget = cfg.Planner.SolverBudget
	}
	if cfg.Planner.RationaleTimeout > 0 {
		plannerCfg.RationaleTimeout = cfg.Planner.RationaleTimeout
	}
	if cfg.Planner.MinConditioningMinutes > 0 {
		plannerCfg.MinConditioningMinutes = cfg.Planner.MinConditioningMinutes
	}

	// --- Initialize Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	programRepo := mongo.NewMongoProgramRepository(appDB)
	microRepo := mongo.NewMongoMicrocycleRepository(appDB)
	sessionRepo := mongo.NewMongoSessionRepository(appDB)
	movementRepo := mongo.NewMongoMovementRepository(appDB)
	recoveryRepo := mongo.NewMongoRecoveryRepository(appDB)
	jobRepo := mongo.NewMongoGenerationJobRepository(appDB)

	// --- Initialize Services ---
	composer := planner.NewComposer(plannerCfg, llmClient, logg)
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	generationService := service.NewGenerationService(
		programRepo, microRepo, sessionRepo, movementRepo, jobRepo,
		plannerCfg, composer, logg,
		cfg.Planner.GenerationWorkers, cfg.Planner.GenerationQueueSize,
	)
	programService := service.NewProgramService(
		programRepo, microRepo, sessionRepo, generationService, fileStorage,
		plannerCfg, logg, cfg.Planner.DefaultSessionMinutes,
	)
	catalogService := service.NewCatalogService(movementRepo, logg)
	recoveryService := service.NewRecoveryService(recoveryRepo, programRepo, microRepo, plannerCfg, logg)

	// Seed the default movement/circuit catalog on an empty database.
	{
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := catalogService.SeedDefaults(ctx); err != nil {
			logg.Error("failed to seed default catalog", "error", err)
		}
		cancel()
	}

	generationService.Start()

	// --- Initialize Gin Engine ---
	if cfg.Log.Mode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	api.SetupRoutes(router, cfg.JWT.Secret, authService, programService, generationService, catalogService, recoveryService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Fatal("ListenAndServe error", "error", err)
		}
	}()
	logg.Info("server started", "address", cfg.Server.Address)

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logg.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		logg.Error("server forced to shutdown", "error", err)
	}

	// Let in-flight generation jobs finish before disconnecting the database.
	generationService.Stop()

	logg.Info("server exiting")
}
