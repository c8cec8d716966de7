package handlers

import (
	"net/http"
	"strings"

	"vicharcha/internal/middleware"
)

// NewRouter wires the story API, the cron cleanup hooks and the media
// file server onto one mux.
func NewRouter(h *StoryHandler, auth *middleware.AuthMiddleware, media http.Handler, mediaPrefix string) *http.ServeMux {
	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", Health)

	router.Handle("GET /api/stories", auth.OptionalAuth(http.HandlerFunc(h.ListStories)))
	router.Handle("POST /api/stories", auth.RequireAuth(http.HandlerFunc(h.CreateStory)))
	router.Handle("POST /api/stories/upload", auth.RequireAuth(http.HandlerFunc(h.UploadStory)))
	router.Handle("POST /api/stories/process-audio", auth.RequireAuth(http.HandlerFunc(h.ProcessAudio)))
	router.Handle("POST /api/stories/{id}/view", auth.RequireAuth(http.HandlerFunc(h.ViewStory)))
	router.Handle("DELETE /api/stories/{id}", auth.RequireAuth(http.HandlerFunc(h.DeleteStory)))

	router.Handle("GET /api/stories/cleanup", auth.RequireCron(http.HandlerFunc(h.CleanupStories)))
	router.Handle("GET /api/cron/cleanup-stories", auth.RequireCron(http.HandlerFunc(h.CleanupStories)))

	router.Handle("GET "+strings.TrimSuffix(mediaPrefix, "/")+"/", media)

	return router
}
