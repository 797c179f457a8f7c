package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/david/vetting-hub/internal/api"
	"github.com/david/vetting-hub/internal/cache"
	"github.com/david/vetting-hub/internal/sources"
)

func main() {
	if err := godotenv.Load(); err == nil {
		log.Print("Loaded environment from .env")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8081"
	}

	reg, err := sources.LoadRegistry(os.Getenv("SOURCES_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load sources config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	adapters := sources.BuildAdapters(ctx, reg, sources.BuildOptions{
		ForceMock: os.Getenv("USE_MOCK_DATA") == "true",
	})
	cancel()

	dispatcher := sources.NewDispatcher(adapters, cache.New(cache.DefaultTTL))

	srv := api.NewServer(dispatcher)
	log.Printf("Server starting on port %s...", port)
	if err := srv.Start(port); err != nil {
		log.Fatal(err)
	}
}
