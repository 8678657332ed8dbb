package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	api "github.com/botblog/backend/api"
	"github.com/botblog/backend/config"
	"github.com/botblog/backend/database"
	"github.com/botblog/backend/logging"
	"github.com/botblog/backend/services"
)

func main() {
	if err := run(); err != nil {
		log.Error().Err(err).Msg("BotBlog server stopped with error")
		os.Exit(1)
	}
}

func run() error {
	// Load environment variables from .env file
	envErr := godotenv.Load()

	cfg := config.New()

	logCloser, err := logging.Setup(cfg.Log)
	if err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}
	defer logCloser.Close()

	if envErr != nil {
		log.Debug().Err(envErr).Msg("No .env file loaded")
	}

	currentDB, err := database.New(cfg.StoreDriver)
	if err != nil {
		return fmt.Errorf("initialize post store: %w", err)
	}
	defer currentDB.Close()
	log.Info().Str("driver", currentDB.Driver()).Msg("Post store ready")

	server, err := api.NewServer(currentDB, cfg)
	if err != nil {
		return fmt.Errorf("initialize server: %w", err)
	}

	var scheduler *services.BotScheduler
	if cfg.BotSchedule != "" {
		scheduler, err = services.NewBotScheduler(cfg.BotSchedule, services.NewBotPostGenerator(), currentDB.PostRepo())
		if err != nil {
			return err
		}
	}

	// Listen for interrupt signals to gracefully shutdown the server
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error {
		<-gctx.Done()
		return server.ShutdownGracefully(cfg.ShutdownTimeout)
	})
	if scheduler != nil {
		g.Go(func() error {
			return scheduler.Start(gctx)
		})
	}

	log.Info().Msgf("BotBlog server running on port %s", cfg.Port)
	return g.Wait()
}
