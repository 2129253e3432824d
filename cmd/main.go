package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ostromhub/venue-token-service/config"
	"github.com/ostromhub/venue-token-service/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.New()
	if err != nil {
		fmt.Println("Error reading config file", err)
		os.Exit(1)
	}

	application := &app.App{}
	if err := application.Initialize(cfg); err != nil {
		log.Fatalf("failed to initialize: %v", err)
	}

	if err := application.Run(ctx); err != nil {
		log.Fatalf("service error: %v", err)
	}
}
