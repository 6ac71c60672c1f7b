package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"itinerary-planner-service/internal/adapters/cache"
	"itinerary-planner-service/internal/adapters/repositories"
	"itinerary-planner-service/internal/api"
	"itinerary-planner-service/internal/config"
	"itinerary-planner-service/internal/domain"
	"itinerary-planner-service/internal/platform/db"
	"itinerary-planner-service/internal/store"
)

// main is the application composition root.
// It wires concrete adapters (postgres, redis) behind ports and starts the
// HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}
	port := config.Get("PORT", "8080")
	seedPath := config.Get("SEED_PATH", "data/seeds/experiences.json")

	pg, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer pg.Close()

	// Initialize schema and seed the demo catalog on startup for local runs.
	if err := repositories.InitSchema(pg); err != nil {
		log.Fatal(err)
	}
	if _, err := os.Stat(seedPath); err == nil {
		if err := repositories.SeedFromJSON(pg, seedPath); err != nil {
			log.Fatal(err)
		}
	}

	cfg := planningFromEnv()

	experiences := repositories.NewPostgresExperienceRepository(pg)
	itineraries := repositories.NewPostgresItineraryRepository(pg, experiences)

	storeOpts := []store.Option{}

	// Redis is optional; without it the store reads fall back to postgres.
	if addr := os.Getenv("REDIS_ADDR"); strings.TrimSpace(addr) != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		if err := client.Ping(context.Background()).Err(); err != nil {
			log.Fatalf("verify redis connection to %q: %v", addr, err)
		}
		lookup := func(id string) (*domain.Experience, error) {
			return experiences.GetExperience(context.Background(), id)
		}
		storeOpts = append(storeOpts, store.WithCache(cache.NewRedisItineraryCache(client, time.Hour, lookup)))
		log.Printf("Itinerary cache enabled addr=%s", addr)
	}

	st := store.New(itineraries, cfg, storeOpts...)
	if err := st.LoadAll(context.Background()); err != nil {
		log.Fatal(err)
	}

	st.Subscribe(func(ev store.Event) {
		log.Printf("event=%s itinerary_id=%s", ev.Type, ev.ItineraryID)
	})

	router := api.NewRouter(st, experiences, cfg)

	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// planningFromEnv starts from the stock scheduling constants and applies the
// recognized env overrides.
func planningFromEnv() config.Planning {
	cfg := config.DefaultPlanning()

	if v := os.Getenv("MAX_EXPERIENCES_PER_DAY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			log.Fatalf("MAX_EXPERIENCES_PER_DAY must be a positive integer, got %q", v)
		}
		cfg.MaxExperiencesPerDay = n
	}
	if v := os.Getenv("MAX_DAYS_PER_ITINERARY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			log.Fatalf("MAX_DAYS_PER_ITINERARY must be a positive integer, got %q", v)
		}
		cfg.MaxDaysPerItinerary = n
	}
	if v := os.Getenv("DAY_START"); v != "" {
		minutes, err := domain.ClockMinutes(v)
		if err != nil {
			log.Fatalf("DAY_START must be HH:MM, got %q", v)
		}
		cfg.DayStart = time.Duration(minutes) * time.Minute
	}

	return cfg
}
