package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"vicharcha/internal/domain"
	"vicharcha/internal/service"
	"vicharcha/internal/storage/storetest"
)

func TestStoryStore(t *testing.T) {
	suite.Run(t, &storetest.StoryStoreSuite{
		NewStore: func() service.StoryStore { return NewStoryStore() },
	})
}

func TestStoryStore_ListNewestFirst(t *testing.T) {
	store := NewStoryStore()
	ctx := context.Background()
	now := time.Now()

	for i := 0; i < 3; i++ {
		created := now.Add(time.Duration(-i) * time.Minute)
		require.NoError(t, store.Create(ctx, &domain.Story{
			ID:        uuid.NewString(),
			UserID:    "alice",
			CreatedAt: created,
			ExpiresAt: domain.NewExpiry(created),
		}))
	}

	stories, err := store.List(ctx, domain.StoryFilter{Now: now})
	require.NoError(t, err)
	require.Len(t, stories, 3)
	for i := 1; i < len(stories); i++ {
		assert.True(t, stories[i-1].CreatedAt.After(stories[i].CreatedAt))
	}
}

func TestStoryStore_ReturnsCopies(t *testing.T) {
	store := NewStoryStore()
	ctx := context.Background()
	now := time.Now()

	story := &domain.Story{
		ID:        "s1",
		UserID:    "alice",
		CreatedAt: now,
		ExpiresAt: domain.NewExpiry(now),
		Items:     []domain.OverlayItem{{ID: "i1", Type: domain.OverlayText, Content: "a"}},
	}
	require.NoError(t, store.Create(ctx, story))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	got.Items[0].Content = "changed"
	got.MediaURL = "changed"

	again, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "a", again.Items[0].Content)
	assert.Empty(t, again.MediaURL)
}
