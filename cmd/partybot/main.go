package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/susu3304/partybot/internal/api"
	"github.com/susu3304/partybot/internal/bot"
	"github.com/susu3304/partybot/internal/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize Discord bot
	discordBot, err := bot.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create discord bot: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start Discord bot; refuses to run without a reachable channel
	if err := discordBot.Start(ctx); err != nil {
		log.Fatalf("Failed to start discord bot: %v", err)
	}
	defer discordBot.Stop()

	// Initialize API server
	apiServer := api.New(cfg, discordBot)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(apiServer.Start)
	g.Go(func() error {
		<-gctx.Done()
		log.Println("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return apiServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Printf("API server error: %v", err)
	}
}
