// server/cmd/api/main.go
package main

import (
	"log"

	"pharmacy-refill-dispatch/config"
	"pharmacy-refill-dispatch/internal/api/routes"
	"pharmacy-refill-dispatch/internal/database"
	"pharmacy-refill-dispatch/internal/directory"
	"pharmacy-refill-dispatch/internal/requests"
	"pharmacy-refill-dispatch/internal/socket"
)

func main() {
	// 1. Load configuration
	cfg, err := config.LoadConfig("./config")
	if err != nil {
		log.Fatalf("Could not load config: %v", err)
	}

	// 2. Store directory (static collaborator)
	dir := directory.New()

	// 3. Request store: mongo when configured, in-memory for local dev
	var store requests.Store
	if cfg.Mongo.URI != "" {
		db, err := database.Connect(cfg.Mongo)
		if err != nil {
			log.Fatalf("Failed to connect to mongo: %v", err)
		}
		if err := database.EnsureIndexes(db); err != nil {
			log.Fatalf("Failed to ensure indexes: %v", err)
		}
		store = requests.NewMongoStore(db, dir)
	} else {
		log.Println("No MONGO_URI configured; using in-memory request store (dev mode)")
		store = requests.NewMemoryStore(dir)
	}

	// 4. WebSocket hub for the live status feed
	hub := socket.NewHub()

	// 5. Router
	router := routes.SetupRouter(store, dir, hub)

	// 6. Start server
	log.Printf("Starting dispatch server on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
