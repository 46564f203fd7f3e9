package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"aimarket/internal/app/bootstrap"
)

// API process entrypoint.
// Data flow:
// 1) Load config.
// 2) Build app wiring (storage + resolver + use cases).
// 3) Serve HTTP until SIGINT/SIGTERM, then drain.
//
// @title AI Model Marketplace API
// @version 1.0
// @description Mint, list and buy AI model tokens.
// @BasePath /
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.BuildAPI(ctx)
	if err != nil {
		log.Fatalf("bootstrap api failed: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("api shutdown close failed: %v", err)
		}
	}()

	if err := app.Run(ctx); err != nil {
		log.Printf("aimarket api stopped with error: %v", err)
	}
}
