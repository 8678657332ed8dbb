package services

import (
	"context"
	"fmt"

	"github.com/botblog/backend/models"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// PostAdder is the part of the post store the scheduler needs.
type PostAdder interface {
	Add(post *models.Post) error
}

// BotScheduler stores a generated post every time its cron schedule fires.
type BotScheduler struct {
	spec      string
	cron      *cron.Cron
	generator *BotPostGenerator
	store     PostAdder
	logger    zerolog.Logger
}

// NewBotScheduler parses spec (five-field cron or descriptors like "@every 1h")
// and registers the generation job. It does not start the clock.
func NewBotScheduler(spec string, generator *BotPostGenerator, store PostAdder) (*BotScheduler, error) {
	logger := log.With().Str("component", "botScheduler").Logger()
	s := &BotScheduler{
		spec:      spec,
		generator: generator,
		store:     store,
		logger:    logger,
		cron:      cron.New(cron.WithLogger(cronLogger{logger: logger})),
	}

	if _, err := s.cron.AddFunc(spec, s.fire); err != nil {
		return nil, fmt.Errorf("invalid bot schedule %q: %w", spec, err)
	}
	return s, nil
}

// RunOnce generates and stores one bot post.
func (s *BotScheduler) RunOnce() (*models.Post, error) {
	post := s.generator.Generate()
	if err := s.store.Add(&post); err != nil {
		return nil, err
	}
	return &post, nil
}

// Start runs the schedule until ctx is cancelled, then waits for a running job to finish.
func (s *BotScheduler) Start(ctx context.Context) error {
	s.logger.Info().Str("schedule", s.spec).Msg("Bot scheduler started")
	s.cron.Start()

	<-ctx.Done()

	<-s.cron.Stop().Done()
	s.logger.Info().Msg("Bot scheduler stopped")
	return nil
}

func (s *BotScheduler) fire() {
	post, err := s.RunOnce()
	if err != nil {
		s.logger.Error().Err(err).Msg("Scheduled bot post failed")
		return
	}
	s.logger.Info().Int64("postID", post.ID).Str("title", post.Title).Msg("Scheduled bot post created")
}

// cronLogger routes robfig/cron's internal logging through zerolog.
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
