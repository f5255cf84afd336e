package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/HACKWAVE2025/B48-sub000/internal/cache"
	"github.com/HACKWAVE2025/B48-sub000/internal/config"
	"github.com/HACKWAVE2025/B48-sub000/internal/content"
	"github.com/HACKWAVE2025/B48-sub000/internal/coordinator"
	"github.com/HACKWAVE2025/B48-sub000/internal/history"
	"github.com/HACKWAVE2025/B48-sub000/internal/service"
	"github.com/HACKWAVE2025/B48-sub000/internal/transport/rest"
	"github.com/HACKWAVE2025/B48-sub000/internal/transport/ws"
)

func main() {
	log.Println("started")
	ctx := context.Background()

	if err := godotenv.Load(); err == nil {
		log.Println("loaded .env")
	}
	cfg := config.Load()

	// WebSocket hub (connection registry)
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// Coordinator over the built-in question bank
	coord := coordinator.New(content.DefaultBank())
	coord.SetBroadcaster(wsHub)
	coord.SetIdleWindow(cfg.IdleWindow)
	coord.SetQuestionCount(cfg.QuestionCount)

	// Optional durable history (fire-and-forget)
	if cfg.MongoURI != "" {
		mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			log.Fatal("Failed to connect to MongoDB:", err)
		}
		defer mongoClient.Disconnect(ctx)

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := mongoClient.Ping(pingCtx, nil); err != nil {
			cancel()
			log.Fatal("Failed to ping MongoDB:", err)
		}
		cancel()
		log.Println("Connected to MongoDB")

		coord.SetHistorySink(history.NewStore(mongoClient, cfg.MongoDatabase))
	} else {
		log.Println("MONGO_URI not set, room history disabled")
	}

	// Optional leaderboard mirror (fire-and-forget)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()

		if _, err := rdb.Ping(ctx).Result(); err != nil {
			log.Fatal("Failed to ping Redis:", err)
		}
		log.Println("Connected to Redis")

		coord.SetLeaderboardMirror(cache.NewLeaderboardCache(rdb))
	} else {
		log.Println("REDIS_ADDR not set, leaderboard mirror disabled")
	}

	// Idle-room reaper
	reaperCtx, stopReaper := context.WithCancel(ctx)
	defer stopReaper()
	go coord.Run(reaperCtx)

	authSvc := service.NewAuthService(cfg.JWTSecret)

	router := rest.NewRouter(&rest.Container{
		AuthService: authSvc,
		Coordinator: coord,
		WSHub:       wsHub,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		log.Println("Endpoints:")
		log.Println("  POST /v1/rooms")
		log.Println("  POST /v1/rooms/{code}/join")
		log.Println("  GET  /v1/rooms/{code}")
		log.Println("  WS   /v1/ws/rooms/{code}")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	stopReaper()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
