package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"vicharcha/internal/config"
	"vicharcha/internal/domain"
)

// CleanupService removes expired stories with their media and drops upload
// parts that were never completed. Running it twice in a row is harmless.
type CleanupService struct {
	stories    StoryStore
	receiver   ChunkReceiver
	files      MediaFiles
	publisher  Publisher
	logger     *slog.Logger
	staleAfter time.Duration
	now        func() time.Time
}

func NewCleanupService(
	stories StoryStore,
	receiver ChunkReceiver,
	files MediaFiles,
	publisher Publisher,
	logger *slog.Logger,
	cfg config.UploadConfig,
) *CleanupService {
	return &CleanupService{
		stories:    stories,
		receiver:   receiver,
		files:      files,
		publisher:  publisher,
		logger:     logger.With("component", "cleanup"),
		staleAfter: cfg.StaleAfter,
		now:        time.Now,
	}
}

func (s *CleanupService) Cleanup(ctx context.Context) (*domain.CleanupStats, error) {
	startTime := time.Now()
	s.logger.Info("starting cleanup")

	expired, err := s.stories.DeleteExpired(ctx, s.now())
	if err != nil {
		return nil, fmt.Errorf("delete expired: %w", err)
	}

	stats := &domain.CleanupStats{Deleted: len(expired)}

	for i := range expired {
		story := &expired[i]

		removed, err := removeMedia(story, s.files)
		stats.MediaRemoved += removed
		if err != nil {
			stats.Errors++
			s.logger.Warn("failed to remove expired media", "story_id", story.ID, "error", err)
		}

		if s.publisher != nil {
			if err := s.publisher.Publish(ctx, story, domain.ActionExpired); err != nil {
				stats.Errors++
				s.logger.Warn("failed to publish expiry", "story_id", story.ID, "error", err)
			}
		}
	}

	if s.staleAfter > 0 {
		n, err := s.receiver.RemoveStale(s.staleAfter)
		stats.StaleUploads = n
		if err != nil {
			stats.Errors++
			s.logger.Warn("failed to remove stale uploads", "error", err)
		}
	}

	stats.Duration = time.Since(startTime)

	s.logger.Info("cleanup completed",
		"deleted", stats.Deleted,
		"media_removed", stats.MediaRemoved,
		"stale_uploads", stats.StaleUploads,
		"errors", stats.Errors,
		"duration", stats.Duration,
	)

	return stats, nil
}
