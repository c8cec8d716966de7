package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"vicharcha/internal/domain"
	"vicharcha/internal/media"
	"vicharcha/internal/middleware"
	"vicharcha/internal/service"
	"vicharcha/internal/upload"
	"vicharcha/utils/response"
)

const (
	multipartMemory = 32 << 20
	formOverhead    = 1 << 20
)

type StoryHandler struct {
	stories *service.StoryService
	cleanup *service.CleanupService
	maxBody int64
	logger  *slog.Logger
}

// NewStoryHandler serves the story API. maxUpload bounds a single upload
// request body.
func NewStoryHandler(stories *service.StoryService, cleanup *service.CleanupService, maxUpload int64, logger *slog.Logger) *StoryHandler {
	return &StoryHandler{
		stories: stories,
		cleanup: cleanup,
		maxBody: maxUpload + formOverhead,
		logger:  logger.With("component", "handlers"),
	}
}

func (h *StoryHandler) ListStories(w http.ResponseWriter, r *http.Request) {
	var viewerID string
	if user, ok := middleware.GetUserFromContext(r.Context()); ok {
		viewerID = user.ID
	}

	stories, err := h.stories.List(r.Context(), r.URL.Query().Get("userId"), viewerID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response.Success(w, http.StatusOK, response.Fields{"stories": stories})
}

func (h *StoryHandler) CreateStory(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUserFromContext(r.Context())

	var in service.CreateStoryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	story, err := h.stories.Create(r.Context(), user, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response.Success(w, http.StatusCreated, response.Fields{"story": story})
}

// UploadStory accepts one part of a story upload. A request without
// chunkIndex and totalChunks is a complete single-part upload.
func (h *StoryHandler) UploadStory(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUserFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(w, http.StatusRequestEntityTooLarge, "Upload too large")
			return
		}
		response.Error(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := formFile(r, "file", "chunk")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	in, err := parseUploadForm(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	in.Filename = header.Filename
	in.ContentType = header.Header.Get("Content-Type")
	in.Data = file

	res, err := h.stories.CompleteUpload(r.Context(), user, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if !res.Complete {
		response.Success(w, http.StatusOK, response.Fields{
			"chunkIndex": res.Index,
			"remaining":  res.Remaining,
		})
		return
	}

	response.Success(w, http.StatusCreated, response.Fields{
		"url":      res.Story.MediaURL,
		"settings": res.Settings,
		"story":    res.Story,
	})
}

type processAudioRequest struct {
	StoryID  string                    `json:"storyId"`
	Settings domain.ProcessingSettings `json:"settings"`
}

func (h *StoryHandler) ProcessAudio(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUserFromContext(r.Context())

	var req processAudioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.StoryID == "" {
		response.Error(w, http.StatusBadRequest, "Story ID required")
		return
	}

	res, err := h.stories.ProcessAudio(r.Context(), user, req.StoryID, req.Settings)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response.Success(w, http.StatusOK, response.Fields{
		"url":      res.Story.MediaURL,
		"settings": res.Settings,
	})
}

func (h *StoryHandler) ViewStory(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUserFromContext(r.Context())

	if _, err := h.stories.View(r.Context(), r.PathValue("id"), user); err != nil {
		h.fail(w, r, err)
		return
	}

	response.Success(w, http.StatusOK, nil)
}

func (h *StoryHandler) DeleteStory(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUserFromContext(r.Context())

	if err := h.stories.Delete(r.Context(), r.PathValue("id"), user); err != nil {
		h.fail(w, r, err)
		return
	}

	response.Success(w, http.StatusOK, nil)
}

func (h *StoryHandler) CleanupStories(w http.ResponseWriter, r *http.Request) {
	stats, err := h.cleanup.Cleanup(r.Context())
	if err != nil {
		h.logger.Error("cleanup failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Failed to clean up stories")
		return
	}

	response.Success(w, http.StatusOK, response.Fields{
		"deletedCount": stats.Deleted,
		"mediaRemoved": stats.MediaRemoved,
		"staleUploads": stats.StaleUploads,
		"errors":       stats.Errors,
		"duration":     fmt.Sprintf("%dms", stats.Duration.Milliseconds()),
		"timestamp":    time.Now().UTC().Format(time.RFC3339Nano),
	})
}

func Health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *StoryHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrStoryNotFound), errors.Is(err, media.ErrMediaNotFound):
		response.Error(w, http.StatusNotFound, "Story not found")
	case errors.Is(err, upload.ErrTooLarge):
		response.Error(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, upload.ErrUploadExists):
		response.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidStory),
		errors.Is(err, domain.ErrInvalidSettings),
		errors.Is(err, upload.ErrInvalidChunk),
		errors.Is(err, upload.ErrMissingChunk),
		errors.Is(err, upload.ErrUnsupportedMedia):
		response.Error(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}

func formFile(r *http.Request, names ...string) (multipart.File, *multipart.FileHeader, error) {
	var lastErr error
	for _, name := range names {
		file, header, err := r.FormFile(name)
		if err == nil {
			return file, header, nil
		}
		lastErr = err
	}
	return nil, nil, lastErr
}

func parseUploadForm(r *http.Request) (service.UploadInput, error) {
	in := service.UploadInput{
		UploadID: firstValue(r, "uploadId", "storyId"),
		Total:    1,
	}

	var err error
	if in.Index, err = intValue(r, "chunkIndex", 0); err != nil {
		return in, err
	}
	if in.Total, err = intValue(r, "totalChunks", 1); err != nil {
		return in, err
	}
	if v := r.FormValue("settings"); v != "" {
		if err := json.Unmarshal([]byte(v), &in.Settings); err != nil {
			return in, errors.New("settings must be a JSON object")
		}
	}
	if v := r.FormValue("items"); v != "" {
		if err := json.Unmarshal([]byte(v), &in.Story.Items); err != nil {
			return in, errors.New("items must be a JSON array")
		}
	}

	in.Story.Type = domain.MediaType(r.FormValue("type"))
	in.Story.Category = r.FormValue("category")
	if in.Story.Duration, err = intValue(r, "duration", 0); err != nil {
		return in, err
	}
	in.Story.Downloadable = boolValue(r, "downloadable")
	in.Story.Adult = boolValue(r, "isAdult")
	in.Story.Premium = boolValue(r, "isPremium")
	return in, nil
}

func firstValue(r *http.Request, names ...string) string {
	for _, name := range names {
		if v := r.FormValue(name); v != "" {
			return v
		}
	}
	return ""
}

func intValue(r *http.Request, name string, def int) (int, error) {
	v := r.FormValue(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return n, nil
}

func boolValue(r *http.Request, name string) bool {
	ok, _ := strconv.ParseBool(r.FormValue(name))
	return ok
}
