package api

import (
	"net/http"

	"github.com/botblog/backend/database"
	"github.com/rs/zerolog/log"
)

type healthHandler struct {
	responder Responder
	postRepo  database.PostRepo
}

func newHealthHandler(postRepo database.PostRepo) healthHandler {
	return healthHandler{
		responder: NewResponder(log.With().Str("handlerName", "healthHandler").Logger()),
		postRepo:  postRepo,
	}
}

func (h healthHandler) getHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count, err := h.postRepo.Count()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("count", "posts", err))
			return
		}

		h.responder.WriteJSON(w, http.StatusOK, HealthResponse{Status: "ok", Posts: count})
	}
}
