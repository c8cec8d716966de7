package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"vicharcha/internal/domain"
	"vicharcha/internal/upload"
)

type StoryService struct {
	stories   StoryStore
	receiver  ChunkReceiver
	processor AudioProcessor
	files     MediaFiles
	publisher Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewStoryService(
	stories StoryStore,
	receiver ChunkReceiver,
	processor AudioProcessor,
	files MediaFiles,
	publisher Publisher,
	logger *slog.Logger,
) *StoryService {
	return &StoryService{
		stories:   stories,
		receiver:  receiver,
		processor: processor,
		files:     files,
		publisher: publisher,
		logger:    logger.With("component", "stories"),
		now:       time.Now,
	}
}

// CreateStoryInput carries the caller-controlled fields of a new story.
type CreateStoryInput struct {
	MediaURL     string               `json:"mediaUrl"`
	Type         domain.MediaType     `json:"type"`
	Duration     int                  `json:"duration"`
	Category     string               `json:"category"`
	Premium      bool                 `json:"isPremium"`
	Downloadable bool                 `json:"downloadable"`
	Adult        bool                 `json:"isAdult"`
	Items        []domain.OverlayItem `json:"items"`
}

// UploadInput is one multipart upload request. A plain upload is a single
// part with Index 0 and Total 1.
type UploadInput struct {
	UploadID    string
	Index       int
	Total       int
	Filename    string
	ContentType string
	Data        io.Reader
	Settings    domain.ProcessingSettings
	Story       CreateStoryInput
}

type UploadResult struct {
	Index     int
	Remaining int
	Complete  bool
	Story     *domain.Story
	Settings  domain.ProcessingSettings
}

type ProcessResult struct {
	Story    *domain.Story
	Settings domain.ProcessingSettings
}

// ListedStory is a story as returned to a viewer, with the remaining
// visibility window in milliseconds.
type ListedStory struct {
	domain.Story
	TimeLeft int64 `json:"timeLeft"`
}

func (s *StoryService) Create(ctx context.Context, user domain.User, in CreateStoryInput) (*domain.Story, error) {
	story := s.newStory(user, uuid.NewString(), in)
	if err := story.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkLocalMedia(ctx, user, in.MediaURL); err != nil {
		return nil, err
	}

	if err := s.stories.Create(ctx, story); err != nil {
		return nil, fmt.Errorf("create story: %w", err)
	}

	s.logger.Info("story created", "story_id", story.ID, "user_id", user.ID, "type", story.Type)
	s.publish(ctx, story, domain.ActionCreated)
	return story, nil
}

// checkLocalMedia lets a story point into the local media tree only at an
// upload of the same user.
func (s *StoryService) checkLocalMedia(ctx context.Context, user domain.User, mediaURL string) error {
	owner, local := s.files.Owner(mediaURL)
	if !local {
		return nil
	}
	if owner == "" {
		return fmt.Errorf("%w: unknown local media %q", domain.ErrInvalidStory, mediaURL)
	}

	story, err := s.stories.Get(ctx, owner)
	switch {
	case errors.Is(err, domain.ErrStoryNotFound):
		return fmt.Errorf("%w: unknown local media %q", domain.ErrInvalidStory, mediaURL)
	case err != nil:
		return fmt.Errorf("get story: %w", err)
	case story.UserID != user.ID:
		return fmt.Errorf("%w: media %q belongs to another user", domain.ErrInvalidStory, mediaURL)
	}
	return nil
}

// List returns the live stories, newest first. ownerID narrows to one owner;
// viewerID, when set, decides the viewed flag of each story.
func (s *StoryService) List(ctx context.Context, ownerID, viewerID string) ([]ListedStory, error) {
	now := s.now()

	stories, err := s.stories.List(ctx, domain.StoryFilter{UserID: ownerID, Now: now})
	if err != nil {
		return nil, fmt.Errorf("list stories: %w", err)
	}

	sort.SliceStable(stories, func(i, j int) bool {
		return stories[i].CreatedAt.After(stories[j].CreatedAt)
	})

	var viewed map[string]bool
	if viewerID != "" && len(stories) > 0 {
		ids := make([]string, len(stories))
		for i := range stories {
			ids[i] = stories[i].ID
		}
		viewed, err = s.stories.ViewedBy(ctx, viewerID, ids)
		if err != nil {
			return nil, fmt.Errorf("load views: %w", err)
		}
	}

	result := make([]ListedStory, 0, len(stories))
	for _, story := range stories {
		if story.Expired(now) {
			continue
		}
		story.Viewed = viewed[story.ID]
		if story.Items == nil {
			story.Items = []domain.OverlayItem{}
		}
		result = append(result, ListedStory{
			Story:    story,
			TimeLeft: story.TimeLeft(now).Milliseconds(),
		})
	}
	return result, nil
}

// View records that viewer has seen the story. The story row's own viewed
// flag only changes when the viewer owns it.
func (s *StoryService) View(ctx context.Context, id string, viewer domain.User) (*domain.Story, error) {
	story, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if story.Expired(now) {
		return nil, domain.ErrStoryNotFound
	}

	if err := s.stories.RecordView(ctx, id, viewer.ID, now); err != nil {
		return nil, fmt.Errorf("record view: %w", err)
	}

	owner, err := s.stories.MarkViewed(ctx, id, viewer.ID)
	if err != nil {
		return nil, fmt.Errorf("mark viewed: %w", err)
	}

	s.logger.Debug("story viewed", "story_id", id, "viewer_id", viewer.ID, "owner", owner)

	story.Viewed = true
	s.publish(ctx, story, domain.ActionViewed)
	return story, nil
}

// Delete removes a story owned by user together with its media. Stories of
// other users are reported as not found.
func (s *StoryService) Delete(ctx context.Context, id string, user domain.User) error {
	story, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if story.UserID != user.ID {
		return domain.ErrStoryNotFound
	}

	if err := s.stories.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete story: %w", err)
	}

	if _, err := removeMedia(story, s.files); err != nil {
		s.logger.Warn("failed to remove story media", "story_id", id, "error", err)
	}

	s.logger.Info("story deleted", "story_id", id, "user_id", user.ID)
	s.publish(ctx, story, domain.ActionDeleted)
	return nil
}

// CompleteUpload stores one upload part. When the final part arrives the
// assembled file becomes the media of a new story whose id is the upload id.
func (s *StoryService) CompleteUpload(ctx context.Context, user domain.User, in UploadInput) (*UploadResult, error) {
	settings := in.Settings.WithDefaults()
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	uploadID := in.UploadID
	if uploadID == "" {
		if in.Total > 1 {
			return nil, fmt.Errorf("%w: upload id is required for chunked uploads", upload.ErrInvalidChunk)
		}
		uploadID = uuid.NewString()
	}

	// A repeated part of a finished upload returns its story. Upload ids of
	// other users are refused before anything reaches the disk.
	existing, err := s.stories.Get(ctx, uploadID)
	switch {
	case err == nil:
		if existing.UserID != user.ID {
			return nil, fmt.Errorf("%w: upload id %q is already used", domain.ErrInvalidStory, uploadID)
		}
		return &UploadResult{
			Index:    in.Index,
			Complete: true,
			Story:    existing,
			Settings: settings,
		}, nil
	case !errors.Is(err, domain.ErrStoryNotFound):
		return nil, fmt.Errorf("get story: %w", err)
	}

	res, err := s.receiver.WriteChunk(ctx, upload.Chunk{
		UploadID: uploadID,
		Index:    in.Index,
		Total:    in.Total,
		Filename: in.Filename,
		Data:     in.Data,
	})
	if err != nil {
		return nil, err
	}

	result := &UploadResult{
		Index:     res.Index,
		Remaining: res.Remaining,
		Settings:  settings,
	}
	if !res.Complete {
		return result, nil
	}
	result.Complete = true

	story, err := s.storyFromUpload(user, uploadID, in, res)
	if err != nil {
		if story != nil {
			s.discard(uploadID, story.MediaURL)
		}
		return nil, err
	}

	if err := s.stories.Create(ctx, story); err != nil {
		s.discard(uploadID, story.MediaURL)
		return nil, fmt.Errorf("create story: %w", err)
	}

	s.logger.Info("upload completed",
		"story_id", story.ID,
		"user_id", user.ID,
		"size", res.Size,
		"sha256", res.Hash,
	)
	s.publish(ctx, story, domain.ActionCreated)

	result.Story = story
	return result, nil
}

func (s *StoryService) storyFromUpload(user domain.User, id string, in UploadInput, res *upload.Result) (*domain.Story, error) {
	mediaURL, ok := s.files.URLFor(res.Path)
	if !ok {
		return nil, fmt.Errorf("upload %s assembled outside the media directory", id)
	}

	details := in.Story
	details.MediaURL = mediaURL
	story := s.newStory(user, id, details)

	if story.Type == "" {
		mediaType, err := upload.MediaTypeFor(in.ContentType, in.Filename)
		if err != nil {
			return story, err
		}
		story.Type = mediaType
	}

	return story, story.Validate()
}

// ProcessAudio rebuilds the audio track of a video story owned by user and
// points the story at the processed file.
func (s *StoryService) ProcessAudio(ctx context.Context, user domain.User, id string, settings domain.ProcessingSettings) (*ProcessResult, error) {
	settings = settings.WithDefaults()
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	story, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if story.UserID != user.ID {
		return nil, domain.ErrStoryNotFound
	}
	if story.Type != domain.MediaVideo {
		return nil, fmt.Errorf("%w: only video stories carry audio", domain.ErrInvalidStory)
	}

	owned, ok := s.files.StoryMedia(story.MediaURL, id)
	if !ok {
		return nil, fmt.Errorf("%w: story media is not an upload of this story", domain.ErrInvalidStory)
	}
	input, ok := s.files.Resolve(owned.UploadURL)
	if !ok {
		return nil, fmt.Errorf("%w: story media is not an upload of this story", domain.ErrInvalidStory)
	}

	output, err := s.processor.ProcessAudio(ctx, input, id, settings)
	if err != nil {
		return nil, fmt.Errorf("process audio: %w", err)
	}

	mediaURL, ok := s.files.URLFor(output)
	if !ok {
		return nil, fmt.Errorf("processed file %s is outside the media directory", output)
	}

	if err := s.stories.UpdateMedia(ctx, id, mediaURL); err != nil {
		if mediaURL != story.MediaURL {
			s.discard(id, mediaURL)
		}
		return nil, fmt.Errorf("update media: %w", err)
	}
	story.MediaURL = mediaURL

	s.logger.Info("audio processed", "story_id", id, "media_url", mediaURL)
	return &ProcessResult{Story: story, Settings: settings}, nil
}

func (s *StoryService) get(ctx context.Context, id string) (*domain.Story, error) {
	story, err := s.stories.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrStoryNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get story: %w", err)
	}
	return story, nil
}

func (s *StoryService) newStory(user domain.User, id string, in CreateStoryInput) *domain.Story {
	now := s.now().UTC()

	story := &domain.Story{
		ID:           id,
		UserID:       user.ID,
		Username:     user.Username,
		UserImage:    user.Avatar(),
		MediaURL:     in.MediaURL,
		Type:         in.Type,
		Duration:     in.Duration,
		Premium:      in.Premium,
		Downloadable: in.Downloadable,
		Adult:        in.Adult,
		Category:     in.Category,
		CreatedAt:    now,
		ExpiresAt:    domain.NewExpiry(now),
		Items:        in.Items,
	}
	if story.Username == "" {
		story.Username = "User"
	}
	if story.Duration == 0 {
		story.Duration = domain.DefaultDuration
	}
	if story.Category == "" {
		story.Category = domain.DefaultCategory
	}
	if story.Items == nil {
		story.Items = []domain.OverlayItem{}
	}
	return story
}

func (s *StoryService) publish(ctx context.Context, story *domain.Story, action string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, story, action); err != nil {
		s.logger.Warn("failed to publish story event", "story_id", story.ID, "action", action, "error", err)
	}
}

func (s *StoryService) discard(id, mediaURL string) {
	if _, err := s.files.Remove(mediaURL); err != nil {
		s.logger.Warn("failed to remove unused media", "story_id", id, "media_url", mediaURL, "error", err)
	}
}

// removeMedia deletes the local files a story owns: its upload and, for
// processed videos, the processed copy. Media named after another story or
// hosted elsewhere is left alone. It returns how many files were removed.
func removeMedia(story *domain.Story, files MediaFiles) (int, error) {
	owned, ok := files.StoryMedia(story.MediaURL, story.ID)
	if !ok {
		return 0, nil
	}

	var (
		removed int
		errs    []error
	)
	for _, url := range []string{owned.ProcessedURL, owned.UploadURL} {
		if url == "" {
			continue
		}
		ok, err := files.Remove(url)
		if err != nil {
			errs = append(errs, err)
		} else if ok {
			removed++
		}
	}
	return removed, errors.Join(errs...)
}
