package main

import (
	"context"
	"fmt"
	"os"
	"time"

	redisclient "github.com/brightloop/brightloop-backend/internal/clients/redis"
	"github.com/brightloop/brightloop-backend/internal/db"
	"github.com/brightloop/brightloop-backend/internal/handlers"
	"github.com/brightloop/brightloop-backend/internal/middleware"
	"github.com/brightloop/brightloop-backend/internal/observability"
	"github.com/brightloop/brightloop-backend/internal/platform/logger"
	"github.com/brightloop/brightloop-backend/internal/platform/openai"
	"github.com/brightloop/brightloop-backend/internal/repos"
	"github.com/brightloop/brightloop-backend/internal/server"
	"github.com/brightloop/brightloop-backend/internal/services"
	"github.com/brightloop/brightloop-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Tracing
	shutdownOTel := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "brightloop-backend",
		Environment: utils.GetEnv("APP_ENV", "development", log),
		Version:     utils.GetEnv("APP_VERSION", "dev", log),
	})
	if shutdownOTel != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdownOTel(ctx)
		}()
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Fatal("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up repos...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	standardRepo := repos.NewStandardRepo(thePG, log)
	componentRepo := repos.NewStandardComponentRepo(thePG, log)
	skillRepo := repos.NewSkillDefinitionRepo(thePG, log)
	studentSkillRepo := repos.NewStudentSkillRepo(thePG, log)
	progressRepo := repos.NewStandardProgressRepo(thePG, log)
	requirementRepo := repos.NewGraduationRequirementRepo(thePG, log)
	creditRepo := repos.NewCreditTotalRepo(thePG, log)
	planRepo := repos.NewDailyPlanRepo(thePG, log)
	activityRepo := repos.NewActivityRepo(thePG, log)
	callLogRepo := repos.NewSuggestionCallLogRepo(thePG, log)

	// Suggestion provider (optional: no API key means no auto-linking)
	var provider services.SuggestionProvider
	if os.Getenv("OPENAI_API_KEY") != "" {
		aiClient, err := openai.NewClient(log)
		if err != nil {
			log.Warn("OpenAI client init failed; standard suggestions disabled", "error", err)
		} else {
			timeoutSeconds := utils.GetEnvAsInt("SUGGESTION_TIMEOUT_SECONDS", 20, log)
			provider = services.NewOpenAISuggestionProvider(log, aiClient, callLogRepo, time.Duration(timeoutSeconds)*time.Second)
		}
	} else {
		log.Info("OPENAI_API_KEY unset; standard suggestions disabled")
	}

	// Plan cache (optional)
	var planCache services.PlanCache
	if cache := redisclient.NewPlanCache(log); cache != nil {
		planCache = cache
	}

	// Services
	log.Info("Setting up services...")
	authService := services.NewAuthService(log, userRepo, userTokenRepo)
	standardsService := services.NewStandardsService(log, standardRepo, componentRepo)
	masteryService := services.NewMasteryService(log, skillRepo, studentSkillRepo, userRepo, requirementRepo, creditRepo)
	progressService := services.NewProgressService(log, progressRepo)
	gapService := services.NewGapService(log, standardRepo, progressRepo)
	linkerService := services.NewLinkerService(log, provider, standardsService, progressService)
	creditsService := services.NewCreditsService(log, userRepo, studentSkillRepo, requirementRepo, creditRepo)
	plannerService := services.NewPlannerService(log, userRepo, requirementRepo, creditRepo, planRepo, activityRepo, gapService, planCache)

	autoLinkLevel, _ := services.ParseConfidence(utils.GetEnv("AUTO_LINK_CONFIDENCE", "medium", log))
	activityService := services.NewActivityService(log, activityRepo, userRepo, masteryService, linkerService, autoLinkLevel)

	// Handlers + router
	log.Info("Setting up handlers...")
	router := server.NewRouter(server.RouterConfig{
		AllowedOrigins:   server.SplitOrigins(utils.GetEnv("CORS_ALLOWED_ORIGINS", "", log)),
		AuthMiddleware:   middleware.NewAuthMiddleware(log, authService),
		AuthHandler:      handlers.NewAuthHandler(authService),
		ActivityHandler:  handlers.NewActivityHandler(activityService),
		SkillsHandler:    handlers.NewSkillsHandler(masteryService),
		StandardsHandler: handlers.NewStandardsHandler(standardsService, gapService),
		ProgressHandler:  handlers.NewProgressHandler(progressService),
		PlanHandler:      handlers.NewPlanHandler(plannerService),
		CreditsHandler:   handlers.NewCreditsHandler(creditsService),
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Starting server", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Server exited", "error", err)
	}
}
