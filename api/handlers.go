package api

import (
	"time"

	"github.com/botblog/backend/database"
	"github.com/botblog/backend/services"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(database database.Database, now func() time.Time, generator *services.BotPostGenerator) *routeHandlers {
	return &routeHandlers{
		postHandler:   newPostHandler(database.PostRepo(), now),
		botHandler:    newBotHandler(database.PostRepo(), generator),
		healthHandler: newHealthHandler(database.PostRepo()),
	}
}
