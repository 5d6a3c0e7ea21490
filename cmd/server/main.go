package main

import (
	"log"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/glab/space-reservation/internal/booking"
	"github.com/glab/space-reservation/internal/config"
	"github.com/glab/space-reservation/internal/database"
	"github.com/glab/space-reservation/internal/handler"
	"github.com/glab/space-reservation/internal/middleware"
	"github.com/glab/space-reservation/internal/queue"
	"github.com/glab/space-reservation/internal/repository"
	"github.com/glab/space-reservation/internal/router"
	queue_publisher "github.com/glab/space-reservation/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	var (
		store  booking.Store
		users  repository.UserStore
		tokens repository.TokenStore
	)
	switch cfg.StoreDriver {
	case config.DriverMySQL:
		db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			log.Fatalf("mysql open: %v", err)
		}
		store = repository.NewMySQLReservationStore(db)
		users = repository.NewMySQLUserStore(db)
		tokens = repository.NewMySQLTokenStore(db)
	case config.DriverFile:
		var err error
		store, err = repository.NewFileReservationStore(filepath.Join(cfg.DataDir, "reservations.json"))
		if err != nil {
			log.Fatalf("reservation store: %v", err)
		}
		users, err = repository.NewFileUserStore(filepath.Join(cfg.DataDir, "users.json"))
		if err != nil {
			log.Fatalf("user store: %v", err)
		}
		tokens = repository.NewMemoryTokenStore()
	}

	spaces := make([]booking.Space, 0, len(cfg.Spaces))
	for _, s := range cfg.Spaces {
		spaces = append(spaces, booking.Space(s))
	}
	svc := booking.NewService(store, spaces, booking.NewPolicy(cfg.DailyCap))

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and grid cache disabled")
	}

	authH := handler.NewAuthHandler(cfg, users, tokens)
	resH := handler.NewReservationHandler(svc, queue_publisher.NewPublisher())

	e := echo.New()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	router.RegisterRoutes(e, resH, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterReservations(e, resH, cfg.JWTSecret)

	// Event consumer runs for the life of the process, reconnecting on
	// broker failures.
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, driver=%s)", addr, cfg.Env, cfg.StoreDriver)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
