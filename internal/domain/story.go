package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// StoryLifetime is the fixed window between a story's creation and its expiry.
const StoryLifetime = 24 * time.Hour

const (
	DefaultCategory = "general"
	DefaultDuration = 5000 // ms

	MinDuration = 1000
	MaxDuration = 60000
)

var (
	ErrStoryNotFound = errors.New("story not found")
	ErrInvalidStory  = errors.New("invalid story")
)

type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

func (t MediaType) Valid() bool {
	return t == MediaImage || t == MediaVideo
}

type Story struct {
	ID           string        `json:"id"`
	UserID       string        `json:"userId"`
	Username     string        `json:"username"`
	UserImage    string        `json:"userImage"`
	MediaURL     string        `json:"mediaUrl"`
	Type         MediaType     `json:"type"`
	Duration     int           `json:"duration"`
	Viewed       bool          `json:"isViewed"`
	Premium      bool          `json:"isPremium"`
	Downloadable bool          `json:"downloadable"`
	Adult        bool          `json:"isAdult"`
	Category     string        `json:"category"`
	CreatedAt    time.Time     `json:"createdAt"`
	ExpiresAt    time.Time     `json:"expiresAt"`
	Items        []OverlayItem `json:"items"`
}

// NewExpiry returns the expiry timestamp for a story created at createdAt.
func NewExpiry(createdAt time.Time) time.Time {
	return createdAt.Add(StoryLifetime)
}

// Expired reports whether the story is past its expiry at now.
func (s *Story) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// TimeLeft is the remaining visibility window, never negative.
func (s *Story) TimeLeft(now time.Time) time.Duration {
	if left := s.ExpiresAt.Sub(now); left > 0 {
		return left
	}
	return 0
}

// Validate checks the fields a caller controls.
func (s *Story) Validate() error {
	var problems []string

	if s.UserID == "" {
		problems = append(problems, "user id is required")
	}
	if s.MediaURL == "" {
		problems = append(problems, "media url is required")
	}
	if !s.Type.Valid() {
		problems = append(problems, `type must be "image" or "video"`)
	}
	if s.Duration < MinDuration || s.Duration > MaxDuration {
		problems = append(problems, "duration must be between 1 and 60 seconds")
	}
	for _, item := range s.Items {
		if !item.Type.Valid() {
			problems = append(problems, fmt.Sprintf("overlay item %q has invalid type %q", item.ID, item.Type))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidStory, strings.Join(problems, "; "))
	}
	return nil
}

type OverlayType string

const (
	OverlayText    OverlayType = "text"
	OverlaySticker OverlayType = "sticker"
	OverlayGIF     OverlayType = "gif"
	OverlayLink    OverlayType = "link"
)

func (t OverlayType) Valid() bool {
	switch t {
	case OverlayText, OverlaySticker, OverlayGIF, OverlayLink:
		return true
	}
	return false
}

// OverlayItem is an annotation drawn on top of the story media.
type OverlayItem struct {
	ID       string         `json:"id"`
	Type     OverlayType    `json:"type"`
	Content  string         `json:"content"`
	Position Position       `json:"position"`
	Style    map[string]any `json:"style,omitempty"`
}

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// StoryFilter narrows List. Zero UserID means all owners.
type StoryFilter struct {
	UserID string
	Now    time.Time
}
