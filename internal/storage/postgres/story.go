package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"vicharcha/internal/domain"
)

type StoryStore struct {
	tx *TransactionManager
}

func NewStoryStore(tx *TransactionManager) *StoryStore {
	return &StoryStore{tx: tx}
}

const storyColumns = `id, user_id, username, user_image, media_url, type, duration, viewed,
	is_premium, downloadable, is_adult, category, items, created_at, expires_at`

type storyRow struct {
	ID           string    `db:"id"`
	UserID       string    `db:"user_id"`
	Username     string    `db:"username"`
	UserImage    string    `db:"user_image"`
	MediaURL     string    `db:"media_url"`
	Type         string    `db:"type"`
	Duration     int       `db:"duration"`
	Viewed       bool      `db:"viewed"`
	Premium      bool      `db:"is_premium"`
	Downloadable bool      `db:"downloadable"`
	Adult        bool      `db:"is_adult"`
	Category     string    `db:"category"`
	Items        []byte    `db:"items"`
	CreatedAt    time.Time `db:"created_at"`
	ExpiresAt    time.Time `db:"expires_at"`
}

func (r *storyRow) toDomain() (domain.Story, error) {
	story := domain.Story{
		ID:           r.ID,
		UserID:       r.UserID,
		Username:     r.Username,
		UserImage:    r.UserImage,
		MediaURL:     r.MediaURL,
		Type:         domain.MediaType(r.Type),
		Duration:     r.Duration,
		Viewed:       r.Viewed,
		Premium:      r.Premium,
		Downloadable: r.Downloadable,
		Adult:        r.Adult,
		Category:     r.Category,
		CreatedAt:    r.CreatedAt,
		ExpiresAt:    r.ExpiresAt,
	}
	if len(r.Items) > 0 {
		if err := json.Unmarshal(r.Items, &story.Items); err != nil {
			return story, fmt.Errorf("decode items of story %s: %w", r.ID, err)
		}
	}
	return story, nil
}

func toDomain(rows []storyRow) ([]domain.Story, error) {
	stories := make([]domain.Story, 0, len(rows))
	for i := range rows {
		story, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		stories = append(stories, story)
	}
	return stories, nil
}

func (s *StoryStore) Create(ctx context.Context, story *domain.Story) error {
	items, err := json.Marshal(story.Items)
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}
	if story.Items == nil {
		items = []byte("[]")
	}

	query := `
		INSERT INTO stories (` + storyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err = s.tx.Executor(ctx).ExecContext(ctx, query,
		story.ID,
		story.UserID,
		story.Username,
		story.UserImage,
		story.MediaURL,
		string(story.Type),
		story.Duration,
		story.Viewed,
		story.Premium,
		story.Downloadable,
		story.Adult,
		story.Category,
		items,
		story.CreatedAt,
		story.ExpiresAt,
	)
	return err
}

func (s *StoryStore) Get(ctx context.Context, id string) (*domain.Story, error) {
	var row storyRow
	query := `SELECT ` + storyColumns + ` FROM stories WHERE id = $1`

	err := s.tx.Executor(ctx).GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrStoryNotFound
	}
	if err != nil {
		return nil, err
	}

	story, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	return &story, nil
}

func (s *StoryStore) List(ctx context.Context, filter domain.StoryFilter) ([]domain.Story, error) {
	query := `
		SELECT ` + storyColumns + `
		FROM stories
		WHERE expires_at > $1 AND ($2 = '' OR user_id = $2)
		ORDER BY created_at DESC`

	var rows []storyRow
	if err := s.tx.Executor(ctx).SelectContext(ctx, &rows, query, filter.Now, filter.UserID); err != nil {
		return nil, err
	}
	return toDomain(rows)
}

func (s *StoryStore) MarkViewed(ctx context.Context, id, userID string) (bool, error) {
	res, err := s.tx.Executor(ctx).ExecContext(ctx,
		"UPDATE stories SET viewed = TRUE WHERE id = $1 AND user_id = $2",
		id, userID,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *StoryStore) UpdateMedia(ctx context.Context, id, mediaURL string) error {
	res, err := s.tx.Executor(ctx).ExecContext(ctx,
		"UPDATE stories SET media_url = $2 WHERE id = $1",
		id, mediaURL,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrStoryNotFound
	}
	return nil
}

func (s *StoryStore) Delete(ctx context.Context, id string) error {
	return s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.deleteViews(txCtx, []string{id}); err != nil {
			return err
		}
		_, err := s.tx.Executor(txCtx).ExecContext(txCtx, "DELETE FROM stories WHERE id = $1", id)
		if err != nil {
			return fmt.Errorf("delete story: %w", err)
		}
		return nil
	})
}

func (s *StoryStore) DeleteExpired(ctx context.Context, now time.Time) ([]domain.Story, error) {
	var removed []domain.Story

	err := s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		query := `DELETE FROM stories WHERE expires_at <= $1 RETURNING ` + storyColumns

		var rows []storyRow
		if err := s.tx.Executor(txCtx).SelectContext(txCtx, &rows, query, now); err != nil {
			return fmt.Errorf("delete stories: %w", err)
		}

		stories, err := toDomain(rows)
		if err != nil {
			return err
		}

		ids := make([]string, len(stories))
		for i := range stories {
			ids[i] = stories[i].ID
		}
		if err := s.deleteViews(txCtx, ids); err != nil {
			return err
		}

		removed = stories
		return nil
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

func (s *StoryStore) deleteViews(ctx context.Context, storyIDs []string) error {
	if len(storyIDs) == 0 {
		return nil
	}
	_, err := s.tx.Executor(ctx).ExecContext(ctx,
		"DELETE FROM story_views WHERE story_id = ANY($1)",
		pq.Array(storyIDs),
	)
	if err != nil {
		return fmt.Errorf("delete views: %w", err)
	}
	return nil
}
