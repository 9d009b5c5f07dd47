package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/anmarochka/resto-booking/internal/analytics"
	"github.com/anmarochka/resto-booking/internal/booking"
	"github.com/anmarochka/resto-booking/internal/config"
	"github.com/anmarochka/resto-booking/internal/database"
	"github.com/anmarochka/resto-booking/internal/floorplan"
	"github.com/anmarochka/resto-booking/internal/handler"
	"github.com/anmarochka/resto-booking/internal/middleware"
	"github.com/anmarochka/resto-booking/internal/queue"
	"github.com/anmarochka/resto-booking/internal/repository"
	"github.com/anmarochka/resto-booking/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; cache and rate limiting disabled")
	}

	// Floor plans persist either in MySQL sub-resources or as Redis
	// documents; both fall back to the seeded default layout.
	var floors floorplan.Store
	if cfg.FloorPlanStore == "redis" && rdb != nil {
		floors = floorplan.NewDocStore(rdb)
	} else {
		floors = repository.NewFloorPlanRepo(db)
	}

	restaurants := repository.NewRestaurantRepo(db)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	bookingStore := repository.NewBookingRepo(db)

	events := analytics.NewEventLog()
	publisher := queue.NewPublisher(cfg.AMQPURL)
	bookings := booking.NewService(bookingStore, floors, events, publisher, restaurants)
	sessions := floorplan.NewManager(floors)

	go func() {
		if err := queue.StartBookingConsumer(cfg.AMQPURL); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	// The live feed is in-memory and empty after a restart; reseed it
	// from stored bookings so dashboards are not blank.
	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 30*time.Second)
	if rests, err := restaurants.ListAll(seedCtx); err == nil {
		for _, r := range rests {
			bookings.SeedEvents(seedCtx, r.ID)
		}
	}
	cancelSeed()

	// Periodically recompute dashboard snapshots so admin reads hit a
	// warm cache instead of aggregating on every request.
	refreshEvery := time.Duration(cfg.AnalyticsRefreshSec) * time.Second
	snapshots := analytics.NewSnapshotCache(refreshEvery)
	analyticsHandler := handler.NewAdminAnalyticsHandler(bookings, floors, events, snapshots)
	refresher := analytics.NewRefresher(refreshEvery, func(ctx context.Context) {
		rests, err := restaurants.ListAll(ctx)
		if err != nil {
			return
		}
		for _, r := range rests {
			bs, err := bookings.ListByRestaurant(ctx, r.ID)
			if err != nil {
				continue
			}
			state, err := floors.Load(ctx, r.ID)
			if err != nil {
				continue
			}
			now := time.Now()
			snapshots.Put(r.ID, analytics.ComputeSnapshot(r.ID, bs, state, events, now), now)
		}
	})
	refreshCtx, stopRefresh := context.WithCancel(context.Background())
	defer stopRefresh()
	go refresher.Start(refreshCtx)

	e := echo.New()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret)

	// Public browsing sits behind the response cache.
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	router.RegisterPublic(e, handler.NewPublicHandler(restaurants, floors), cache)

	router.RegisterGuest(e, handler.NewGuestBookingHandler(bookings), cfg.JWTSecret)
	router.RegisterAdmin(e,
		handler.NewAdminBookingHandler(bookings, floors),
		handler.NewAdminFloorHandler(sessions),
		analyticsHandler,
		cfg.JWTSecret,
	)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
