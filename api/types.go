package api

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	postHandler   postHandler
	botHandler    botHandler
	healthHandler healthHandler
}

// ErrorResponse is the body of every 4xx/5xx response
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// PostPayload is the body of create and update requests. A nil or empty
// field counts as not supplied.
type PostPayload struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Author  *string `json:"author"`
}

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status string `json:"status"`
	Posts  int    `json:"posts"`
}

// supplied reports whether a payload field carries a non-empty value.
func supplied(field *string) (string, bool) {
	if field == nil || *field == "" {
		return "", false
	}
	return *field, true
}
