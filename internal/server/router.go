package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yungbote/studyai-backend/internal/handlers"
	"github.com/yungbote/studyai-backend/internal/middleware"
)

type RouterConfig struct {
	HealthcheckHandler *handlers.HealthcheckHandler
	AuthHandler        *handlers.AuthHandler
	AuthMiddleware     *middleware.AuthMiddleware
	UserHandler        *handlers.UserHandler
	NoteHandler        *handlers.NoteHandler
	ExplainHandler     *handlers.ExplainHandler
	QuizHandler        *handlers.QuizHandler
	AllowedOrigins     []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", cfg.HealthcheckHandler.Healthcheck)
	api := router.Group("/api")
	{
		api.POST("/register", cfg.AuthHandler.Register)
		api.POST("/login", cfg.AuthHandler.Login)
	}

	// Protected
	protected := router.Group("/api")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// Auth
	protected.POST("/refresh", cfg.AuthHandler.Refresh)
	protected.POST("/logout", cfg.AuthHandler.Logout)
	// User
	protected.GET("/me", cfg.UserHandler.GetMe)
	// Notes
	protected.POST("/notes", cfg.NoteHandler.UploadNote)
	protected.GET("/notes", cfg.NoteHandler.ListNotes)
	protected.GET("/notes/:id", cfg.NoteHandler.GetNote)
	// Explain
	protected.POST("/explain", cfg.ExplainHandler.ExplainTopic)
	// Quizzes
	protected.POST("/quizzes", cfg.QuizHandler.GenerateQuiz)
	protected.GET("/quizzes", cfg.QuizHandler.ListQuizzes)
	protected.GET("/quizzes/:id", cfg.QuizHandler.GetQuiz)
	protected.POST("/quizzes/:id/attempts", cfg.QuizHandler.SubmitAttempt)
	protected.GET("/attempts/:id", cfg.QuizHandler.GetAttempt)

	return router
}
