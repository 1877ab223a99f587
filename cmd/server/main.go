package main // HTTP API: booking, catalog, admin

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/cors"

	"github.com/iliyamo/salon-booking/internal/config"
	"github.com/iliyamo/salon-booking/internal/database"
	"github.com/iliyamo/salon-booking/internal/handler"
	"github.com/iliyamo/salon-booking/internal/live"
	"github.com/iliyamo/salon-booking/internal/middleware"
	"github.com/iliyamo/salon-booking/internal/repository"
	"github.com/iliyamo/salon-booking/internal/router"
	"github.com/iliyamo/salon-booking/internal/service"
	"github.com/iliyamo/salon-booking/internal/slots"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found; using system environment")
	}
	cfg := config.Load()

	cal, err := slots.NewCalendar(cfg.Business.OpenHour, cfg.Business.CloseHour, cfg.Business.StepMinutes)
	if err != nil {
		log.Fatalf("business calendar: %v", err)
	}
	loc, err := cfg.Business.Location()
	if err != nil {
		log.Fatalf("business timezone %q: %v", cfg.Business.Timezone, err)
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}
	defer db.Close()

	rdb, err := config.NewRedisClient()
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := repository.NewSlotStore(rdb)
	catalog := repository.NewCatalogRepo(db)

	hub := live.NewHub()
	if err := hub.Start(ctx, rdb, live.DefaultChannel); err != nil {
		log.Fatalf("live: subscribe: %v", err)
	}
	notifiers := []service.Notifier{live.NewPublisher(rdb, live.DefaultChannel)}
	if cfg.Notify.Enabled {
		notifiers = append(notifiers, service.NewQueuePublisher(cfg.Notify.AMQPURL, cfg.Notify.Queue))
	}
	svc := service.NewBookingService(cal, repository.KeyScheme{PerStaff: cfg.Business.PerStaff}, loc, store, catalog, notifiers...)

	cacheCfg := config.LoadCacheConfig()
	bookingH := handler.NewBookingHandler(svc, cfg.RequestTimeout)
	catalogH := handler.NewCatalogHandler(catalog, repository.NewStaffRepo(db), func(ctx context.Context) error {
		return middleware.PurgeCache(ctx, rdb, cacheCfg.Prefix)
	})
	authH := handler.NewAuthHandler(cfg, repository.NewAdminRepo(db), repository.NewTokenRepo(db))

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(echo.WrapMiddleware(cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}).Handler))

	router.RegisterRoutes(e, store)
	router.RegisterPublic(e, catalogH, middleware.NewRedisCache(cacheCfg, rdb))
	router.RegisterBooking(e, bookingH, &handler.LiveHandler{Hub: hub}, middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterAdmin(e, catalogH, bookingH, cfg.JWTSecret)

	go func() {
		addr := ":" + cfg.Port
		grid := svc.Calendar()
		log.Printf("listening on %s (env=%s, hours=%02d:00-%02d:00, step=%dm, slots=%d, per_staff=%t)",
			addr, cfg.Env, grid.OpenHour(), grid.CloseHour(), grid.StepMinutes(), grid.SlotCount(), cfg.Business.PerStaff)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutdown signal received; draining")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
	svc.Wait()
	log.Println("bye")
}
