package main // Entry point package

import (
    "context" // Context for startup deadlines
    "log"     // Logging library
    "time"    // Timeouts

    "github.com/joho/godotenv"    // Load .env files in development
    "github.com/labstack/echo/v4" // Echo web framework

    "github.com/mesaflow/reservations-backend/internal/booking"    // Booking attempt pipeline
    "github.com/mesaflow/reservations-backend/internal/config"     // Internal config loader
    "github.com/mesaflow/reservations-backend/internal/database"   // MySQL connection and schema
    "github.com/mesaflow/reservations-backend/internal/handler"    // HTTP handlers
    "github.com/mesaflow/reservations-backend/internal/middleware" // Rate limiting and caching
    "github.com/mesaflow/reservations-backend/internal/queue"      // Outcome event consumer
    "github.com/mesaflow/reservations-backend/internal/repository" // Data access layer
    "github.com/mesaflow/reservations-backend/internal/router"     // Route registration
)

func main() {
    // Load .env if present; real deployments set the environment directly.
    if err := godotenv.Load(); err != nil {
        log.Printf("no .env file loaded: %v", err)
    }

    cfg := config.Load() // Load environment config

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database: %v", err)
    }
    defer db.Close()

    ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
    if err := database.EnsureSchema(ctx, db); err != nil {
        cancel()
        log.Fatalf("schema: %v", err)
    }
    cancel()

    customerRepo := repository.NewCustomerRepo(db)
    tableRepo := repository.NewTableRepo(db)
    reservationRepo := repository.NewReservationRepo(db)

    pipeline := booking.NewService(customerRepo, tableRepo, reservationRepo)
    sessions := booking.NewSessionRegistry()

    convHandler := handler.NewConversationHandler(pipeline, sessions)
    resHandler := handler.NewReservationHandler(reservationRepo)
    tblHandler := handler.NewTableHandler(tableRepo)

    e := echo.New()
    router.RegisterRoutes(e) // Health check

    // Redis backs both the rate limiter and the response cache.  A
    // missing or unreachable Redis disables them; the API still works.
    var mws []echo.MiddlewareFunc
    if rdb := config.NewRedisClient(); rdb != nil {
        mws = append(mws, middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
        mws = append(mws, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
    } else {
        log.Println("redis unavailable; rate limiting and caching disabled")
    }
    router.RegisterAPI(e, convHandler, resHandler, tblHandler, mws...)

    // The outcome consumer runs for the lifetime of the process and
    // reconnects on broker failures.
    go func() {
        if err := queue.StartOutcomeConsumer(); err != nil {
            log.Printf("reservation-consumer stopped: %v", err)
        }
    }()

    addr := ":" + cfg.Port                                // Address string with port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

    if err := e.Start(addr); err != nil { // Start HTTP server
        log.Fatal(err) // Log and exit if server fails
    }
}
