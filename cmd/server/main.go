package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mdvrp-planner/internal/adapters/cache"
	"mdvrp-planner/internal/adapters/distance"
	"mdvrp-planner/internal/adapters/repositories"
	"mdvrp-planner/internal/adapters/solver"
	"mdvrp-planner/internal/api"
	"mdvrp-planner/internal/config"
	"mdvrp-planner/internal/platform/db"
	"mdvrp-planner/internal/ports"
	"mdvrp-planner/internal/services"

	"github.com/joho/godotenv"
)

// main is the application composition root.
// It wires concrete adapters (OSRM, solver, persistence, caches) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	distanceCache, closeCache := openDistanceCache(ctx, cfg)
	defer closeCache()

	osrm, err := distance.NewOSRMClient(cfg.OSRMURL, cfg.OSRMRPS)
	if err != nil {
		log.Fatal(err)
	}

	store, err := openScenarioStore(cfg)
	if err != nil {
		log.Fatal(err)
	}

	mdvrp, err := solver.NewHTTPSolver(cfg.SolverURL)
	if err != nil {
		log.Fatal(err)
	}

	notices := services.NewNoticeBoard()
	guard := services.NewGuard(osrm, cfg.GuardTimeout, notices)
	planner := services.NewPlanner(
		services.NewCostMatrixBuilder(osrm, distanceCache),
		mdvrp,
		guard,
		cfg.SolveTimeout,
	)

	router := api.NewRouter(api.Deps{
		Scenarios: services.NewScenarios(store),
		Planner:   planner,
		Notices:   notices,
	})

	// Write timeout covers a cold-cache matrix fetch plus one solver round trip.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.SolveTimeout + 30*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("Server listening addr=:%s osrm=%s solver=%s", cfg.Port, cfg.OSRMURL, cfg.SolverURL)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
	log.Println("Server stopped")
}

// Road distances change slowly; a week keeps the public OSRM server quiet.
const cacheMaxAge = 7 * 24 * time.Hour

// openDistanceCache prefers Postgres, then Redis. A nil cache disables caching.
func openDistanceCache(ctx context.Context, cfg config.Config) (ports.DistanceCache, func()) {
	switch {
	case cfg.DatabaseURL != "":
		conn, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal(err)
		}
		if err := repositories.InitSchema(ctx, conn); err != nil {
			log.Fatal(err)
		}
		log.Println("distance cache backend=postgres")
		return cache.NewSQLDistanceCache(conn, cacheMaxAge), func() { _ = conn.Close() }

	case cfg.RedisURL != "":
		c, err := cache.NewRedisDistanceCacheFromURL(cfg.RedisURL, cacheMaxAge)
		if err != nil {
			log.Fatal(err)
		}
		log.Println("distance cache backend=redis")
		return c, func() { _ = c.Close() }
	}

	log.Println("distance cache disabled")
	return nil, func() {}
}

func openScenarioStore(cfg config.Config) (ports.ScenarioStore, error) {
	if cfg.PersistenceURL != "" {
		log.Printf("scenario store backend=http url=%s", cfg.PersistenceURL)
		store, err := repositories.NewHTTPScenarioStore(cfg.PersistenceURL)
		if err != nil {
			return nil, err
		}
		return store, nil
	}

	seed, err := repositories.LoadSeedFile(cfg.SeedPath)
	if err != nil {
		return nil, err
	}
	log.Printf("scenario store backend=memory seeded=%d", len(seed))
	return repositories.NewMemoryScenarioStore(seed...), nil
}
