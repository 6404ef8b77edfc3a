package main

import (
	"log"
	"net/http"

	_ "modernc.org/sqlite"

	web "gamezone/internal/adapters/http"
	"gamezone/internal/adapters/http/middleware"
	"gamezone/internal/adapters/http/perf"
	"gamezone/internal/adapters/storage"
	gameStore "gamezone/internal/adapters/storage/game"
	"gamezone/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Fatalf("failed to load .env: %v", err)
	}
	cfg := config.Load()

	db, err := storage.Open(cfg.DataDir)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to init database: %v", err)
	}
	log.Println("Database initialized successfully!")

	// Performance instrumentation: wrap DB with timing, create collector
	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector)

	games := gameStore.NewSQLiteStore(timedDB)
	sessions := middleware.NewSessionStore()

	server, err := web.NewServer(cfg, games, sessions, collector)
	if err != nil {
		log.Fatalf("failed to build server: %v", err)
	}
	mux := web.NewMux(cfg, "static", server)

	addr := ":" + cfg.Port
	log.Printf("DARKX Gamezone %s running on port %s", version, cfg.Port)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
