package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hideseek_webapp/internal/config"
	"hideseek_webapp/internal/db"
	httpServer "hideseek_webapp/internal/http"
	"hideseek_webapp/internal/http/middleware"
	"hideseek_webapp/internal/logger"
	"hideseek_webapp/internal/repository"
	"hideseek_webapp/internal/service"
	"hideseek_webapp/internal/session"
	"hideseek_webapp/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var version = "dev"

func main() {
	cfg := config.Load()
	logger.InitFromEnv()
	service.InitJWT()

	dbPool := db.Connect(cfg.DatabaseURL)
	defer dbPool.Close()

	// Session store: redis in production, in-memory for local dev
	var st store.Store
	if cfg.RedisAddr != "" {
		rs, err := store.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatalf("redis store: %v", err)
		}
		st = rs
	} else {
		log.Println("REDIS_ADDR not set, using in-memory session store")
		st = store.NewMemoryStore()
	}

	manager := session.New(session.Config{
		RevealCategories: cfg.RevealCategories,
		RevealFor:        time.Duration(cfg.RevealSeconds) * time.Second,
	})

	games := service.NewGameService(
		st,
		manager,
		repository.NewQuestionRepository(dbPool),
		repository.NewDeckRepository(dbPool),
		repository.NewArchiveRepository(dbPool),
	)

	uploads, err := service.NewDiskSink(cfg.UploadDir, cfg.UploadBaseURL)
	if err != nil {
		log.Fatalf("upload dir: %v", err)
	}

	r := gin.Default()

	// CORS for production (frontend on different domain)
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	middleware.InitRedisRateLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	httpServer.RegisterRoutes(r, cfg, dbPool, games, uploads, version)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		log.Println("server started on port", cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server forced to shutdown:", err)
	}

	log.Println("server exited")
}
