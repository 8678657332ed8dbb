package api

import (
	"net/http"

	"github.com/botblog/backend/database"
	"github.com/botblog/backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type botHandler struct {
	responder Responder
	logger    zerolog.Logger
	postRepo  database.PostRepo
	generator *services.BotPostGenerator
}

func newBotHandler(postRepo database.PostRepo, generator *services.BotPostGenerator) botHandler {
	logger := log.With().Str("handlerName", "botHandler").Logger()

	return botHandler{
		responder: NewResponder(logger),
		logger:    logger,
		postRepo:  postRepo,
		generator: generator,
	}
}

// generatePost stores a post fabricated from a random topic
// @Summary Generate bot post
// @Tags Bot
// @Produce json
// @Success 201 {object} models.Post
// @Router /api/bot/generate [post]
func (h botHandler) generatePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post := h.generator.Generate()
		if err := h.postRepo.Add(&post); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "bot post", err))
			return
		}

		h.logger.Info().Int64("postID", post.ID).Str("title", post.Title).Msg("Bot post generated")
		h.responder.WriteJSON(w, http.StatusCreated, post)
	}
}
