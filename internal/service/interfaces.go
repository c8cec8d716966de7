package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"vicharcha/internal/domain"
	"vicharcha/internal/upload"
)

type StoryStore interface {
	Create(ctx context.Context, story *domain.Story) error
	Get(ctx context.Context, id string) (*domain.Story, error)
	List(ctx context.Context, filter domain.StoryFilter) ([]domain.Story, error)
	MarkViewed(ctx context.Context, id, userID string) (bool, error)
	RecordView(ctx context.Context, id, viewerID string, at time.Time) error
	ViewedBy(ctx context.Context, viewerID string, ids []string) (map[string]bool, error)
	UpdateMedia(ctx context.Context, id, mediaURL string) error
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) ([]domain.Story, error)
}

type Publisher interface {
	Publish(ctx context.Context, story *domain.Story, action string) error
	Close() error
}

type ChunkReceiver interface {
	WriteChunk(ctx context.Context, chunk upload.Chunk) (*upload.Result, error)
	RemoveStale(olderThan time.Duration) (int, error)
}

type AudioProcessor interface {
	ProcessAudio(ctx context.Context, inputPath, storyID string, settings domain.ProcessingSettings) (string, error)
}

// MediaFiles maps public media URLs to files on local disk.
type MediaFiles interface {
	Owner(mediaURL string) (storyID string, local bool)
	StoryMedia(mediaURL, storyID string) (upload.StoryMedia, bool)
	Resolve(mediaURL string) (string, bool)
	Remove(mediaURL string) (bool, error)
	URLFor(path string) (string, bool)
}
