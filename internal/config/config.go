package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"hideseek_webapp/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	DatabaseURL string
	JWTSecret   string

	// Session store: пустой REDIS_ADDR = in-memory store (dev mode)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	UploadDir     string
	UploadBaseURL string

	// Which question types reveal the hider's location, and for how long.
	RevealCategories []string
	RevealSeconds    int

	// Rate limits
	APIRateLimit   int
	APIRateWindow  time.Duration
	GameRateLimit  int
	GameRateWindow time.Duration
}

// Загрузка конфига из env
func Load() *Config {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			redisDB = n
		}
	}

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "./uploads"
	}

	// По умолчанию локацию палят только radar-вопросы (последняя версия
	// правил; ранняя использовала ping|radar)
	reveal := []string{"radar"}
	if v := os.Getenv("REVEAL_CATEGORIES"); v != "" {
		reveal = nil
		for _, c := range strings.Split(v, ",") {
			if c = strings.TrimSpace(c); c != "" {
				reveal = append(reveal, c)
			}
		}
	}

	revealSeconds := 10
	if v := os.Getenv("REVEAL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			revealSeconds = n
		}
	}

	apiRateLimit := 60
	if v := os.Getenv("API_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			apiRateLimit = n
		}
	}

	apiRateWindow := time.Minute
	if v := os.Getenv("API_RATE_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			apiRateWindow = time.Duration(n) * time.Second
		}
	}

	gameRateLimit := 30 // макс игровых команд за ->
	if v := os.Getenv("GAME_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			gameRateLimit = n
		}
	}

	gameRateWindow := time.Minute // -> 60 секунд
	if v := os.Getenv("GAME_RATE_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			gameRateWindow = time.Duration(n) * time.Second
		}
	}

	return &Config{
		AppPort:          port,
		DatabaseURL:      dbURL,
		JWTSecret:        jwtSecret,
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RedisDB:          redisDB,
		UploadDir:        uploadDir,
		UploadBaseURL:    "/uploads",
		RevealCategories: reveal,
		RevealSeconds:    revealSeconds,
		APIRateLimit:     apiRateLimit,
		APIRateWindow:    apiRateWindow,
		GameRateLimit:    gameRateLimit,
		GameRateWindow:   gameRateWindow,
	}
}
