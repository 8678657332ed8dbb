package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/botblog/backend/database"
	"github.com/botblog/backend/errs"
	"github.com/botblog/backend/models"
	"github.com/botblog/backend/services"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const maxPayloadBytes = 1 << 20

type postHandler struct {
	responder Responder
	logger    zerolog.Logger
	postRepo  database.PostRepo
	now       func() time.Time
}

func newPostHandler(postRepo database.PostRepo, now func() time.Time) postHandler {
	logger := log.With().Str("handlerName", "postHandler").Logger()

	return postHandler{
		responder: NewResponder(logger),
		logger:    logger,
		postRepo:  postRepo,
		now:       now,
	}
}

// getAllPosts returns every post in insertion order
// @Summary List posts
// @Tags Posts
// @Produce json
// @Success 200 {array} models.Post
// @Router /api/posts [get]
func (h postHandler) getAllPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := h.postRepo.FindAll()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "posts", err))
			return
		}

		h.responder.WriteJSON(w, http.StatusOK, posts)
	}
}

// getPost returns a single post
// @Summary Get post
// @Tags Posts
// @Produce json
// @Param postID path int true "Post ID"
// @Success 200 {object} models.Post
// @Failure 404 {object} ErrorResponse "Post not found"
// @Router /api/posts/{postID} [get]
func (h postHandler) getPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, ok := h.postIDParam(w, r)
		if !ok {
			return
		}

		post, err := h.postRepo.FindByID(postID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "post", err))
			return
		}

		h.responder.WriteJSON(w, http.StatusOK, post)
	}
}

// createPost stores a new post written by a caller
// @Summary Create post
// @Tags Posts
// @Accept json
// @Produce json
// @Param post body PostPayload true "title and content are required"
// @Success 201 {object} models.Post
// @Failure 400 {object} ErrorResponse "Title and content are required"
// @Router /api/posts [post]
func (h postHandler) createPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := h.decodePayload(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		title, hasTitle := supplied(payload.Title)
		content, hasContent := supplied(payload.Content)
		if !hasTitle || !hasContent {
			var missing []string
			if !hasTitle {
				missing = append(missing, "title")
			}
			if !hasContent {
				missing = append(missing, "content")
			}
			h.responder.WriteError(w, errs.NewMissingRequiredFieldsError("Title and content are required", missing...))
			return
		}

		author, ok := supplied(payload.Author)
		if !ok {
			author = models.DefaultAuthor
		}

		post := models.Post{
			Title:     title,
			Content:   content,
			Author:    author,
			CreatedAt: models.Stamp(h.now()),
			Bot:       false,
		}
		if err := h.postRepo.Add(&post); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "post", err))
			return
		}

		h.logger.Debug().Int64("postID", post.ID).Msg("Post created")
		h.responder.WriteJSON(w, http.StatusCreated, post)
	}
}

// updatePost overwrites the supplied fields and stamps updatedAt
// @Summary Update post
// @Tags Posts
// @Accept json
// @Produce json
// @Param postID path int true "Post ID"
// @Param post body PostPayload false "fields to overwrite"
// @Success 200 {object} models.Post
// @Failure 404 {object} ErrorResponse "Post not found"
// @Router /api/posts/{postID} [put]
func (h postHandler) updatePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := h.decodePayload(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		postID, ok := h.postIDParam(w, r)
		if !ok {
			return
		}

		updatedAt := models.Stamp(h.now())
		post, err := h.postRepo.Update(postID, func(p *models.Post) {
			if title, ok := supplied(payload.Title); ok {
				p.Title = title
			}
			if content, ok := supplied(payload.Content); ok {
				p.Content = content
			}
			if author, ok := supplied(payload.Author); ok {
				p.Author = author
			}
			p.UpdatedAt = &updatedAt
		})
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "post", err))
			return
		}

		h.responder.WriteJSON(w, http.StatusOK, post)
	}
}

// deletePost removes a post for good
// @Summary Delete post
// @Tags Posts
// @Param postID path int true "Post ID"
// @Success 204
// @Failure 404 {object} ErrorResponse "Post not found"
// @Router /api/posts/{postID} [delete]
func (h postHandler) deletePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, ok := h.postIDParam(w, r)
		if !ok {
			return
		}

		if err := h.postRepo.Delete(postID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "post", err))
			return
		}

		h.responder.WriteNoContent(w)
	}
}

// exportPostMarkdown renders a post as a Hugo content file
// @Summary Export post as markdown
// @Tags Posts
// @Produce text/markdown
// @Param postID path int true "Post ID"
// @Success 200 {string} string "Hugo markdown"
// @Failure 404 {object} ErrorResponse "Post not found"
// @Router /api/posts/{postID}/markdown [get]
func (h postHandler) exportPostMarkdown() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, ok := h.postIDParam(w, r)
		if !ok {
			return
		}

		post, err := h.postRepo.FindByID(postID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "post", err))
			return
		}

		body, err := services.RenderHugoMarkdown(*post)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("failed to render markdown", err))
			return
		}

		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", services.PostSlug(*post)+".md"))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(body); err != nil {
			h.logger.Error().Err(err).Msg("error writing markdown export")
		}
	}
}

// postIDParam parses {postID}. An id that is not an integer cannot match any
// post, so it is answered as not found.
func (h postHandler) postIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	postID, err := strconv.ParseInt(chi.URLParam(r, "postID"), 10, 64)
	if err != nil {
		h.responder.WriteError(w, errs.NewNotFound("Post"))
		return 0, false
	}
	return postID, true
}

// decodePayload reads a PostPayload. An empty body decodes to an empty payload.
func (h postHandler) decodePayload(r *http.Request) (PostPayload, error) {
	var payload PostPayload
	if r.Body == nil {
		return payload, nil
	}

	bodyBytes, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes+1))
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to read request body")
		return payload, errs.NewBadRequestError("failed to read request body")
	}
	if len(bodyBytes) > maxPayloadBytes {
		return payload, errs.NewBadRequestError("request body too large")
	}
	if len(bytes.TrimSpace(bodyBytes)) == 0 {
		return payload, nil
	}

	if err := json.Unmarshal(bodyBytes, &payload); err != nil {
		h.logger.Warn().Err(err).Str("body", string(bodyBytes)).Msg("Failed to decode post request body")
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return payload, errs.NewMalformedPayloadError("post", err)
		}
		return payload, errs.NewInvalidJSONError(err)
	}
	return payload, nil
}
