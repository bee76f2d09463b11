package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/software-students-fall2024/5-final-y2k/internal/configuration"
	"github.com/software-students-fall2024/5-final-y2k/internal/delivery"
	ws "github.com/software-students-fall2024/5-final-y2k/internal/delivery/ws"
	"github.com/software-students-fall2024/5-final-y2k/internal/domain"
	"github.com/software-students-fall2024/5-final-y2k/internal/infra"
	"go.uber.org/zap"
)

func main() {

	// LOGGER
	zcore, _ := zap.NewProduction()
	zl := logger.NewZapLogger(zcore.Sugar())

	// CONFIG
	cfg := configuration.Load()

	ctx := context.Background()

	// POSTGRES
	if err := infra.RunMigrations(ctx, cfg.Database.DSN); err != nil {
		panic("migrations failed: " + err.Error())
	}

	pool, err := infra.NewPgxPool(ctx, cfg.Database.DSN)
	if err != nil {
		panic("cannot connect pgxpool: " + err.Error())
	}
	defer pool.Close()

	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(ctxPing); err != nil {
		panic("postgres ping failed: " + err.Error())
	}

	// OBJECT STORE
	store, err := infra.NewMinioObjectStore(ctx, cfg.MinIO)
	if err != nil {
		panic("minio init failed: " + err.Error())
	}

	// SERVICES
	userRepo := infra.NewPostgresUserRepo(pool)
	authService := domain.NewAuthService(userRepo, cfg.AuthSecret)

	audioRepo := infra.NewPostgresAudioRepo(pool)
	stt := infra.NewSpeechKitService(cfg.SpeechKit)

	audioService := domain.NewAudioService(store, audioRepo, domain.NewNormalizer(), stt)

	// WS HUB
	hub := ws.NewHub()

	// BROADCAST LISTENER
	go func() {
		for ev := range audioService.Events() {
			payload, err := json.Marshal(ev)
			if err != nil {
				log.Printf("[SEND][ERR] json marshal failed: %v", err)
				continue
			}
			hub.SendToRoom(ws.DefaultRoom, payload)
		}
	}()

	// HANDLERS
	authHandler := delivery.NewAuthHandler(authService, zl)
	audioHandler := delivery.NewAudioHandler(audioService, store, audioRepo, zl)

	// ROUTER
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "X-Auth"},
		AllowCredentials: true,
	}))

	delivery.RegisterRoutes(r, authHandler, authService, audioHandler)

	r.Get("/ws", ws.Handler(hub))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	zl.Log(logger.LogEntry{
		Level:   "info",
		Message: "server started",
		Fields:  map[string]any{"port": cfg.Server.Port},
	})

	if err := http.ListenAndServe(":"+cfg.Server.Port, r); err != nil {
		zl.Log(logger.LogEntry{
			Level:   "error",
			Message: "server crashed",
			Error:   err,
		})
	}
}
