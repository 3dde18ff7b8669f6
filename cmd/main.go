package main

import (
	"fmt"
	"os"
	"time"

	"github.com/yungbote/studyai-backend/internal/catalog"
	"github.com/yungbote/studyai-backend/internal/db"
	"github.com/yungbote/studyai-backend/internal/handlers"
	"github.com/yungbote/studyai-backend/internal/logger"
	"github.com/yungbote/studyai-backend/internal/middleware"
	"github.com/yungbote/studyai-backend/internal/repos"
	"github.com/yungbote/studyai-backend/internal/server"
	"github.com/yungbote/studyai-backend/internal/services"
	"github.com/yungbote/studyai-backend/internal/utils"
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

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	attemptMode := services.AttemptHistoryMode(utils.GetEnv("ATTEMPT_HISTORY_MODE", "upsert", log))

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	noteRepo := repos.NewNoteRepo(thePG, log)
	quizRepo := repos.NewQuizRepo(thePG, log)
	quizQuestionRepo := repos.NewQuizQuestionRepo(thePG, log)
	quizAttemptRepo := repos.NewQuizAttemptRepo(thePG, log)

	// Topic catalog
	topicCatalog, err := catalog.Load()
	if err != nil {
		log.Error("Could not load topic catalog", "error", err)
		os.Exit(1)
	}
	log.Info("Topic catalog loaded", "topics", len(topicCatalog.Topics()))

	// Services
	log.Info("Setting up Services from main...")
	bucketService, err := services.NewBucketService(log)
	if err != nil {
		log.Warn("Could not init BucketService", "error", err)
	}
	avatarService, err := services.NewAvatarService(log, bucketService)
	if err != nil {
		log.Error("Could not init AvatarService", "error", err)
		os.Exit(1)
	}
	aiClient := services.NewAIClient(log)
	if !aiClient.Available() {
		log.Warn("AI client unavailable, summaries and feedback will use fallbacks")
	}
	authService := services.NewAuthService(thePG, log, userRepo, avatarService, userTokenRepo, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
	userService := services.NewUserService(thePG, log, userRepo)
	noteService := services.NewNoteService(thePG, log, noteRepo, bucketService, aiClient)
	explainService := services.NewExplainService(log, aiClient)
	quizService := services.NewQuizService(thePG, log, topicCatalog, quizRepo, quizQuestionRepo, quizAttemptRepo, aiClient, attemptMode)

	// Handlers
	log.Info("Setting up handlers from main...")
	healthcheckHandler := handlers.NewHealthcheckHandler()
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(log, userService)
	noteHandler := handlers.NewNoteHandler(log, noteService)
	explainHandler := handlers.NewExplainHandler(log, explainService)
	quizHandler := handlers.NewQuizHandler(log, quizService)

	// Middleware
	log.Info("Setting up middleware from main...")
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		HealthcheckHandler: healthcheckHandler,
		AuthHandler:        authHandler,
		AuthMiddleware:     authMiddleware,
		UserHandler:        userHandler,
		NoteHandler:        noteHandler,
		ExplainHandler:     explainHandler,
		QuizHandler:        quizHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
