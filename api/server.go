package api

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/botblog/backend/config"
	"github.com/botblog/backend/database"
	"github.com/botblog/backend/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(database database.Database, c config.Config) (Server, error) {
	startupTime := time.Now()

	router := newRouter(database, withConfig(c))

	server := &http.Server{
		Addr:         c.Address(),
		Handler:      router,
		ReadTimeout:  c.ReadTimeout,  // Timeout for reading the entire request
		WriteTimeout: c.WriteTimeout, // Timeout for writing the response
		IdleTimeout:  c.IdleTimeout,  // Timeout for idle connections
	}

	return Server{server, startupTime}, nil
}

type router struct {
	config    config.Config
	now       func() time.Time
	generator *services.BotPostGenerator
}

func withConfig(c config.Config) func(*router) {
	return func(r *router) {
		r.config = c
	}
}

func withClock(now func() time.Time) func(*router) {
	return func(r *router) {
		r.now = now
	}
}

func withBotGenerator(generator *services.BotPostGenerator) func(*router) {
	return func(r *router) {
		r.generator = generator
	}
}

func newRouter(database database.Database, opts ...func(*router)) *chi.Mux {
	router := router{
		config: config.Config{AcceptedOrigins: []string{"*"}},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&router)
	}
	if router.generator == nil {
		router.generator = services.NewBotPostGeneratorWith(router.now, nil)
	}

	chiRouter := chi.NewRouter()
	chiRouter.Use(RequestID)
	chiRouter.Use(LogInternalServerErrors)
	chiRouter.Use(cors.Handler(cors.Options{
		AllowedOrigins: router.config.AcceptedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}))

	handlers := initializeHandlers(database, router.now, router.generator)

	setupRoutes(chiRouter, handlers)
	setupStaticRoutes(chiRouter, router.config.StaticDir)

	return chiRouter
}

// setupStaticRoutes serves dir at / when it exists. API routes take precedence.
func setupStaticRoutes(r chi.Router, dir string) {
	if dir == "" {
		return
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		log.Debug().Str("dir", dir).Msg("Static directory not found, skipping static routes")
		return
	}
	r.Handle("/*", http.FileServer(http.Dir(dir)))
}

// Start blocks serving requests. A graceful shutdown is not reported as an error.
func (s Server) Start() error {
	log.Info().Msgf("Server started on: %s", s.Addr)
	if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s Server) ShutdownGracefully(timeout time.Duration) error {
	log.Info().Dur("uptime", time.Since(s.startupTime)).Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
		return err
	}
	log.Info().Msg("HttpServer gracefully shut down")
	return nil
}
