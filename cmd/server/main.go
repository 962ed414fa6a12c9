package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/medirec/medirec-backend/internal/auth"
	"github.com/medirec/medirec-backend/internal/config"
	"github.com/medirec/medirec-backend/internal/database"
	"github.com/medirec/medirec-backend/internal/handlers"
	"github.com/medirec/medirec-backend/internal/logger"
	"github.com/medirec/medirec-backend/internal/middleware"
	"github.com/medirec/medirec-backend/internal/repository"
	"github.com/medirec/medirec-backend/internal/routes"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	zlog, err := logger.New(!cfg.IsProduction())
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer zlog.Sync()

	// Refuse to start rather than issue insecurely signed tokens
	if cfg.JWTSecret == "" {
		zlog.Fatal("JWT_SECRET is not set")
	}

	zlog.Info("Connecting to MongoDB...")
	client, db, err := database.Connect(cfg.MongoURI)
	if err != nil {
		zlog.Fatalw("Failed to connect to MongoDB", "error", err)
	}
	defer database.Disconnect(client)

	zlog.Info("Connecting to Redis...")
	rdb, err := database.ConnectRedis(cfg.RedisURI)
	if err != nil {
		zlog.Fatalw("Failed to connect to Redis", "error", err)
	}
	defer rdb.Close()

	tokens := auth.NewTokenService(cfg.JWTSecret)

	userRepo := repository.NewUserRepository(db)
	recordRepo := repository.NewHealthRecordRepository(db)
	symptomRepo := repository.NewSymptomRepository(db)

	userHandler := handlers.NewUserHandler(userRepo, tokens, zlog)
	healthHandler := handlers.NewHealthInfoHandler(recordRepo, zlog)
	symptomHandler := handlers.NewSymptomHandler(symptomRepo, zlog)

	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.RequestLogger(zlog))
	r.Use(middleware.RateLimit(rdb))
	if cfg.IsProduction() {
		r.Use(middleware.SecurityHeaders)
		r.Use(middleware.LoginRateLimit)
		zlog.Info("Production security enabled (security headers, login rate limiting)")
	}

	// Health check (no auth)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	routes.Setup(r, tokens, userHandler, healthHandler, symptomHandler)

	zlog.Infof("medirec backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		zlog.Fatalw("Failed to start server", "error", err)
	}
}
