package http

import (
	"hideseek_webapp/internal/config"
	"hideseek_webapp/internal/http/handlers"
	"hideseek_webapp/internal/http/middleware"
	"hideseek_webapp/internal/repository"
	"hideseek_webapp/internal/service"
	"hideseek_webapp/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RegisterRoutes wires the whole HTTP surface: REST commands, the watch
// websocket and photo uploads.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, db *pgxpool.Pool, games *service.GameService, uploads service.UploadSink, version string) {
	hub := ws.NewHub(games)
	h := handlers.NewHandler(games, repository.NewQuestionRepository(db), uploads)
	h.Hub = hub
	healthHandler := handlers.NewHealthHandler(db, games.Store(), version)

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	// API v1 routes
	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(cfg.APIRateLimit, cfg.APIRateWindow))
	registerAPIRoutes(v1, h, cfg)

	// WebSocket watch stream
	r.GET("/ws", h.WS(hub))

	// Uploaded photo evidence
	r.Static(cfg.UploadBaseURL, cfg.UploadDir)
}

func registerAPIRoutes(api *gin.RouterGroup, h *handlers.Handler, cfg *config.Config) {
	// Identity: in-memory limiter so it still holds without redis
	api.POST("/auth/anonymous", middleware.SimpleRateLimit(10, cfg.APIRateWindow), h.AuthAnonymous)

	// Game command rate limiter (per user, not per IP) + command metrics
	gameRL := middleware.GameRateLimit(cfg.GameRateLimit, cfg.GameRateWindow)
	cmdMetrics := middleware.CommandMetrics()

	// Sessions
	api.POST("/games", h.CreateGame)
	api.GET("/games/code/:code", h.GetGameByCode)
	api.GET("/games/:id", h.GetGame)
	api.GET("/games/:id/qr", h.JoinQR)
	api.POST("/games/:id/join", middleware.JWT(), cmdMetrics, h.JoinGame)
	api.POST("/games/:id/location", middleware.JWT(), cmdMetrics, h.UpdateLocation)
	api.POST("/games/:id/end", middleware.JWT(), cmdMetrics, h.EndGame)

	// Cards
	api.GET("/deck", h.ListDeck)
	api.POST("/games/:id/cards/draw", middleware.JWT(), gameRL, cmdMetrics, h.DrawCard)
	api.POST("/games/:id/cards/play", middleware.JWT(), gameRL, cmdMetrics, h.PlayCard)

	// Question lifecycle
	api.POST("/games/:id/questions/request", middleware.JWT(), gameRL, cmdMetrics, h.RequestQuestion)
	api.POST("/games/:id/questions/answer", middleware.JWT(), gameRL, cmdMetrics, h.AnswerQuestion)
	api.POST("/games/:id/questions/expire", middleware.JWT(), cmdMetrics, h.ExpireQuestion)

	// Photo evidence
	api.POST("/games/:id/photos", middleware.JWT(), h.UploadPhoto)

	// Question bank (+ admin screen CRUD)
	api.GET("/questions", h.ListQuestions)
	api.POST("/questions", middleware.JWT(), h.CreateQuestion)
	api.DELETE("/questions/:qid", middleware.JWT(), h.DeleteQuestion)
}
