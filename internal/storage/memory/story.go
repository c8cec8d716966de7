// Package memory is a process-local story store. Data is lost on restart.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"vicharcha/internal/domain"
)

type viewKey struct {
	storyID  string
	viewerID string
}

type StoryStore struct {
	mu      sync.RWMutex
	stories map[string]domain.Story
	views   map[viewKey]time.Time
}

func NewStoryStore() *StoryStore {
	return &StoryStore{
		stories: make(map[string]domain.Story),
		views:   make(map[viewKey]time.Time),
	}
}

func (s *StoryStore) Create(_ context.Context, story *domain.Story) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stories[story.ID] = clone(*story)
	return nil
}

func (s *StoryStore) Get(_ context.Context, id string) (*domain.Story, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	story, ok := s.stories[id]
	if !ok {
		return nil, domain.ErrStoryNotFound
	}
	story = clone(story)
	return &story, nil
}

func (s *StoryStore) List(_ context.Context, filter domain.StoryFilter) ([]domain.Story, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.Story
	for _, story := range s.stories {
		if filter.UserID != "" && story.UserID != filter.UserID {
			continue
		}
		if story.Expired(filter.Now) {
			continue
		}
		result = append(result, clone(story))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *StoryStore) MarkViewed(_ context.Context, id, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	story, ok := s.stories[id]
	if !ok || story.UserID != userID {
		return false, nil
	}
	story.Viewed = true
	s.stories[id] = story
	return true, nil
}

func (s *StoryStore) RecordView(_ context.Context, id, viewerID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := viewKey{storyID: id, viewerID: viewerID}
	if _, seen := s.views[key]; !seen {
		s.views[key] = at
	}
	return nil
}

func (s *StoryStore) ViewedBy(_ context.Context, viewerID string, ids []string) (map[string]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]bool)
	for _, id := range ids {
		if _, seen := s.views[viewKey{storyID: id, viewerID: viewerID}]; seen {
			result[id] = true
		}
	}
	return result, nil
}

func (s *StoryStore) UpdateMedia(_ context.Context, id, mediaURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	story, ok := s.stories[id]
	if !ok {
		return domain.ErrStoryNotFound
	}
	story.MediaURL = mediaURL
	s.stories[id] = story
	return nil
}

func (s *StoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.stories, id)
	s.deleteViews(id)
	return nil
}

func (s *StoryStore) DeleteExpired(_ context.Context, now time.Time) ([]domain.Story, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []domain.Story
	for id, story := range s.stories {
		if !story.Expired(now) {
			continue
		}
		removed = append(removed, story)
		delete(s.stories, id)
		s.deleteViews(id)
	}
	return removed, nil
}

func (s *StoryStore) deleteViews(storyID string) {
	for key := range s.views {
		if key.storyID == storyID {
			delete(s.views, key)
		}
	}
}

func clone(s domain.Story) domain.Story {
	if s.Items != nil {
		items := make([]domain.OverlayItem, len(s.Items))
		copy(items, s.Items)
		s.Items = items
	}
	return s
}
