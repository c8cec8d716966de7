// Package storetest holds the behaviour every story store backend must share.
package storetest

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"vicharcha/internal/domain"
	"vicharcha/internal/service"
)

// StoryStoreSuite runs against a fresh, empty store per test.
type StoryStoreSuite struct {
	suite.Suite
	NewStore func() service.StoryStore

	ctx   context.Context
	store service.StoryStore
	now   time.Time
}

func (s *StoryStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = s.NewStore()
	// Cassandra keeps millisecond timestamps.
	s.now = time.Now().UTC().Truncate(time.Millisecond)
}

func (s *StoryStoreSuite) newStory(userID string, createdAt time.Time) *domain.Story {
	return &domain.Story{
		ID:           uuid.NewString(),
		UserID:       userID,
		Username:     "User " + userID,
		UserImage:    "/placeholder-user.jpg",
		MediaURL:     "/uploads/stories/" + userID + ".mp4",
		Type:         domain.MediaVideo,
		Duration:     domain.DefaultDuration,
		Premium:      true,
		Downloadable: true,
		Category:     domain.DefaultCategory,
		CreatedAt:    createdAt,
		ExpiresAt:    domain.NewExpiry(createdAt),
		Items: []domain.OverlayItem{
			{ID: "t1", Type: domain.OverlayText, Content: "hello", Position: domain.Position{X: 0.5, Y: 0.25}},
		},
	}
}

func (s *StoryStoreSuite) create(story *domain.Story) *domain.Story {
	s.Require().NoError(s.store.Create(s.ctx, story))
	return story
}

func (s *StoryStoreSuite) TestCreateAndGet() {
	story := s.create(s.newStory("alice", s.now))

	got, err := s.store.Get(s.ctx, story.ID)
	s.Require().NoError(err)

	s.Equal(story.ID, got.ID)
	s.Equal("alice", got.UserID)
	s.Equal(story.Username, got.Username)
	s.Equal(story.MediaURL, got.MediaURL)
	s.Equal(domain.MediaVideo, got.Type)
	s.Equal(domain.DefaultDuration, got.Duration)
	s.False(got.Viewed)
	s.True(got.Premium)
	s.True(got.Downloadable)
	s.False(got.Adult)
	s.Equal(domain.DefaultCategory, got.Category)
	s.WithinDuration(story.CreatedAt, got.CreatedAt, time.Millisecond)
	s.WithinDuration(story.ExpiresAt, got.ExpiresAt, time.Millisecond)
	s.Equal(domain.StoryLifetime, got.ExpiresAt.Sub(got.CreatedAt))
	s.Require().Len(got.Items, 1)
	s.Equal("hello", got.Items[0].Content)
	s.Equal(0.25, got.Items[0].Position.Y)
}

func (s *StoryStoreSuite) TestGet_NotFound() {
	_, err := s.store.Get(s.ctx, uuid.NewString())
	s.ErrorIs(err, domain.ErrStoryNotFound)
}

func (s *StoryStoreSuite) TestList_ExcludesExpired() {
	live := s.create(s.newStory("alice", s.now.Add(-time.Hour)))
	s.create(s.newStory("alice", s.now.Add(-25*time.Hour)))

	stories, err := s.store.List(s.ctx, domain.StoryFilter{Now: s.now})
	s.Require().NoError(err)
	s.Require().Len(stories, 1)
	s.Equal(live.ID, stories[0].ID)

	// Once the clock passes the expiry the story disappears.
	stories, err = s.store.List(s.ctx, domain.StoryFilter{Now: live.ExpiresAt.Add(time.Millisecond)})
	s.Require().NoError(err)
	s.Empty(stories)
}

func (s *StoryStoreSuite) TestList_FilterByOwner() {
	s.create(s.newStory("alice", s.now))
	s.create(s.newStory("alice", s.now.Add(-time.Minute)))
	bob := s.create(s.newStory("bob", s.now))

	all, err := s.store.List(s.ctx, domain.StoryFilter{Now: s.now})
	s.Require().NoError(err)
	s.Len(all, 3)

	bobs, err := s.store.List(s.ctx, domain.StoryFilter{UserID: "bob", Now: s.now})
	s.Require().NoError(err)
	s.Require().Len(bobs, 1)
	s.Equal(bob.ID, bobs[0].ID)

	none, err := s.store.List(s.ctx, domain.StoryFilter{UserID: "carol", Now: s.now})
	s.Require().NoError(err)
	s.Empty(none)
}

func (s *StoryStoreSuite) TestMarkViewed_Owner() {
	story := s.create(s.newStory("alice", s.now))

	ok, err := s.store.MarkViewed(s.ctx, story.ID, "alice")
	s.Require().NoError(err)
	s.True(ok)

	got, err := s.store.Get(s.ctx, story.ID)
	s.Require().NoError(err)
	s.True(got.Viewed)

	// Stays true.
	ok, err = s.store.MarkViewed(s.ctx, story.ID, "alice")
	s.Require().NoError(err)
	s.True(ok)
}

func (s *StoryStoreSuite) TestMarkViewed_OtherUserAltersNothing() {
	story := s.create(s.newStory("alice", s.now))

	ok, err := s.store.MarkViewed(s.ctx, story.ID, "mallory")
	s.Require().NoError(err)
	s.False(ok)

	got, err := s.store.Get(s.ctx, story.ID)
	s.Require().NoError(err)
	s.False(got.Viewed)
}

func (s *StoryStoreSuite) TestMarkViewed_Missing() {
	ok, err := s.store.MarkViewed(s.ctx, uuid.NewString(), "alice")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *StoryStoreSuite) TestRecordViewAndViewedBy() {
	a := s.create(s.newStory("alice", s.now))
	b := s.create(s.newStory("alice", s.now))

	s.Require().NoError(s.store.RecordView(s.ctx, a.ID, "bob", s.now))
	s.Require().NoError(s.store.RecordView(s.ctx, a.ID, "bob", s.now.Add(time.Minute)))

	seen, err := s.store.ViewedBy(s.ctx, "bob", []string{a.ID, b.ID})
	s.Require().NoError(err)
	s.True(seen[a.ID])
	s.False(seen[b.ID])

	seen, err = s.store.ViewedBy(s.ctx, "carol", []string{a.ID, b.ID})
	s.Require().NoError(err)
	s.Empty(seen)

	seen, err = s.store.ViewedBy(s.ctx, "bob", nil)
	s.Require().NoError(err)
	s.Empty(seen)
}

func (s *StoryStoreSuite) TestUpdateMedia() {
	story := s.create(s.newStory("alice", s.now))

	s.Require().NoError(s.store.UpdateMedia(s.ctx, story.ID, "/uploads/processed/processed_x.mp4"))

	got, err := s.store.Get(s.ctx, story.ID)
	s.Require().NoError(err)
	s.Equal("/uploads/processed/processed_x.mp4", got.MediaURL)

	err = s.store.UpdateMedia(s.ctx, uuid.NewString(), "/x")
	s.ErrorIs(err, domain.ErrStoryNotFound)
}

func (s *StoryStoreSuite) TestDelete() {
	story := s.create(s.newStory("alice", s.now))
	s.Require().NoError(s.store.RecordView(s.ctx, story.ID, "bob", s.now))

	s.Require().NoError(s.store.Delete(s.ctx, story.ID))

	_, err := s.store.Get(s.ctx, story.ID)
	s.ErrorIs(err, domain.ErrStoryNotFound)

	seen, err := s.store.ViewedBy(s.ctx, "bob", []string{story.ID})
	s.Require().NoError(err)
	s.Empty(seen)

	s.NoError(s.store.Delete(s.ctx, story.ID), "delete is idempotent")
}

func (s *StoryStoreSuite) TestDeleteExpired() {
	live := s.create(s.newStory("alice", s.now))
	old1 := s.create(s.newStory("alice", s.now.Add(-30*time.Hour)))
	old2 := s.create(s.newStory("bob", s.now.Add(-48*time.Hour)))

	removed, err := s.store.DeleteExpired(s.ctx, s.now)
	s.Require().NoError(err)
	s.Len(removed, 2)

	ids := map[string]bool{}
	for _, r := range removed {
		ids[r.ID] = true
		s.NotEmpty(r.MediaURL)
	}
	s.True(ids[old1.ID])
	s.True(ids[old2.ID])

	_, err = s.store.Get(s.ctx, live.ID)
	s.NoError(err)
	_, err = s.store.Get(s.ctx, old1.ID)
	s.ErrorIs(err, domain.ErrStoryNotFound)

	again, err := s.store.DeleteExpired(s.ctx, s.now)
	s.Require().NoError(err)
	s.Empty(again)
}
