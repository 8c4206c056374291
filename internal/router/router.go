package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/upgradist/eduquest-backend/internal/config"
	"github.com/upgradist/eduquest-backend/internal/handler"
	"github.com/upgradist/eduquest-backend/internal/middleware"
	"github.com/upgradist/eduquest-backend/internal/response"
	"github.com/upgradist/eduquest-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth        *handler.AuthHandler
	Subject     *handler.SubjectHandler
	Topic       *handler.TopicHandler
	Question    *handler.QuestionHandler
	Test        *handler.TestHandler
	Session     *handler.SessionHandler
	Leaderboard *handler.LeaderboardHandler
	WS          *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Request ID first so every response carries metadata.
	router.Use(response.RequestIDMiddleware())

	// Compress large payloads (leaderboards, question pages).
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)
		auth.GET("/me", middleware.RequireUserJWT(authService), handlers.Auth.Profile)
	}

	// ─── 2. Catalog Group (JWT) ────────────────────────────────────────
	catalogAPI := router.Group("/api/v1")
	catalogAPI.Use(middleware.RequireUserJWT(authService))
	{
		catalogAPI.GET("/subjects", handlers.Subject.List)
		catalogAPI.GET("/subjects/:id", handlers.Subject.Get)
		catalogAPI.GET("/topics", handlers.Topic.List)
		catalogAPI.GET("/topics/:id", handlers.Topic.Get)

		// Test taking
		catalogAPI.GET("/tests", handlers.Session.ListTests)
		catalogAPI.GET("/tests/:id/paper", handlers.Session.GetPaper)
		catalogAPI.POST("/tests/:id/submit", handlers.Session.Submit)
		catalogAPI.GET("/tests/:id/attempted", handlers.Session.Attempted)
		catalogAPI.GET("/attempts", handlers.Session.History)

		// Leaderboards
		catalogAPI.GET("/leaderboard/overall", handlers.Leaderboard.Overall)
		catalogAPI.GET("/leaderboard/tests/:id", handlers.Leaderboard.ForTest)
		catalogAPI.GET("/leaderboard/tests/:id/detailed", handlers.Leaderboard.ForTestDetailed)
	}

	// ─── 3. WebSocket Group (WS Auth via token query) ──────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireUserWSAuth(authService))
	{
		ws.GET("/tests/:id/leaderboard", handlers.WS.LeaderboardStream)
	}

	// ─── 4. Admin Group (JWT + admin role) ─────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAdminJWT(authService))
	{
		// Subjects
		adminAPI.POST("/subjects", handlers.Subject.Create)
		adminAPI.PUT("/subjects/:id", handlers.Subject.Update)
		adminAPI.DELETE("/subjects/:id", handlers.Subject.Delete)
		adminAPI.POST("/subjects/:id/restore", handlers.Subject.Restore)

		// Topics
		adminAPI.POST("/topics", handlers.Topic.Create)
		adminAPI.PUT("/topics/:id", handlers.Topic.Update)
		adminAPI.DELETE("/topics/:id", handlers.Topic.Delete)
		adminAPI.POST("/topics/:id/restore", handlers.Topic.Restore)

		// Question bank
		adminAPI.GET("/questions", handlers.Question.List)
		adminAPI.GET("/questions/:id", handlers.Question.Get)
		adminAPI.POST("/questions", handlers.Question.Create)
		adminAPI.PUT("/questions/:id", handlers.Question.Update)
		adminAPI.DELETE("/questions/:id", handlers.Question.Delete)
		adminAPI.POST("/questions/:id/restore", handlers.Question.Restore)

		// Test assembly
		adminAPI.GET("/tests", handlers.Test.List)
		adminAPI.GET("/tests/:id", handlers.Test.Get)
		adminAPI.POST("/tests", handlers.Test.Assemble)
		adminAPI.PUT("/tests/:id", handlers.Test.Reassemble)
		adminAPI.DELETE("/tests/:id", handlers.Test.Delete)
		adminAPI.POST("/tests/:id/restore", handlers.Test.Restore)
	}

	return router
}
