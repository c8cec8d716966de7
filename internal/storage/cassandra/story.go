package cassandra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/gocql/gocql"

	"vicharcha/internal/domain"
)

const (
	storyColumns = `id, user_id, username, user_image, media_url, type, duration, viewed,
		is_premium, downloadable, is_adult, category, items, created_at, expires_at`

	scanPageSize = 500
)

// StoryStore keeps stories in a table keyed by id, with a secondary index on
// user_id. Rows are written with a TTL of the story lifetime plus grace so
// the cluster drops them even if no sweep runs.
type StoryStore struct {
	session  *gocql.Session
	ttlGrace time.Duration
}

func NewStoryStore(session *gocql.Session, ttlGrace time.Duration) *StoryStore {
	return &StoryStore{session: session, ttlGrace: ttlGrace}
}

func (s *StoryStore) Create(ctx context.Context, story *domain.Story) error {
	items, err := encodeItems(story.Items)
	if err != nil {
		return err
	}

	query := `INSERT INTO stories (` + storyColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		USING TTL ?`

	return s.session.Query(query,
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
		ttlSeconds(story.ExpiresAt, s.ttlGrace),
	).WithContext(ctx).Exec()
}

func (s *StoryStore) Get(ctx context.Context, id string) (*domain.Story, error) {
	var row storyRow
	err := s.session.Query(`SELECT `+storyColumns+` FROM stories WHERE id = ?`, id).
		WithContext(ctx).
		Scan(row.dest()...)
	if errors.Is(err, gocql.ErrNotFound) {
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

// List reads candidates through the user_id index, or the whole table, and
// drops expired rows client side.
func (s *StoryStore) List(ctx context.Context, filter domain.StoryFilter) ([]domain.Story, error) {
	var q *gocql.Query
	if filter.UserID != "" {
		q = s.session.Query(`SELECT `+storyColumns+` FROM stories WHERE user_id = ?`, filter.UserID)
	} else {
		q = s.session.Query(`SELECT ` + storyColumns + ` FROM stories`)
	}

	var stories []domain.Story
	err := s.scan(ctx, q, func(story domain.Story) error {
		if !story.Expired(filter.Now) {
			stories = append(stories, story)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(stories, func(i, j int) bool {
		return stories[i].CreatedAt.After(stories[j].CreatedAt)
	})
	return stories, nil
}

// MarkViewed flips the row flag with a lightweight transaction conditioned
// on the owner, so a non-owner never alters the row.
func (s *StoryStore) MarkViewed(ctx context.Context, id, userID string) (bool, error) {
	expiresAt, err := s.expiry(ctx, id)
	if errors.Is(err, domain.ErrStoryNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	applied, err := s.session.Query(
		`UPDATE stories USING TTL ? SET viewed = true WHERE id = ? IF user_id = ?`,
		ttlSeconds(expiresAt, s.ttlGrace), id, userID,
	).WithContext(ctx).MapScanCAS(map[string]interface{}{})
	if err != nil {
		return false, fmt.Errorf("mark viewed: %w", err)
	}
	return applied, nil
}

func (s *StoryStore) UpdateMedia(ctx context.Context, id, mediaURL string) error {
	expiresAt, err := s.expiry(ctx, id)
	if err != nil {
		return err
	}

	applied, err := s.session.Query(
		`UPDATE stories USING TTL ? SET media_url = ? WHERE id = ? IF EXISTS`,
		ttlSeconds(expiresAt, s.ttlGrace), mediaURL, id,
	).WithContext(ctx).MapScanCAS(map[string]interface{}{})
	if err != nil {
		return fmt.Errorf("update media: %w", err)
	}
	if !applied {
		return domain.ErrStoryNotFound
	}
	return nil
}

func (s *StoryStore) RecordView(ctx context.Context, id, viewerID string, at time.Time) error {
	return s.session.Query(
		`INSERT INTO story_views (story_id, viewer_id, viewed_at) VALUES (?, ?, ?) USING TTL ?`,
		id, viewerID, at, ttlSeconds(at.Add(domain.StoryLifetime), s.ttlGrace),
	).WithContext(ctx).Exec()
}

func (s *StoryStore) ViewedBy(ctx context.Context, viewerID string, ids []string) (map[string]bool, error) {
	result := make(map[string]bool)
	if len(ids) == 0 {
		return result, nil
	}

	scanner := s.session.Query(
		`SELECT story_id FROM story_views WHERE story_id IN ? AND viewer_id = ?`,
		ids, viewerID,
	).WithContext(ctx).Iter().Scanner()

	for scanner.Next() {
		var id string
		if err := scanner.Scan(&id); err != nil {
			return nil, err
		}
		result[id] = true
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *StoryStore) Delete(ctx context.Context, id string) error {
	batch := s.session.NewBatch(gocql.LoggedBatch).WithContext(ctx)
	batch.Query(`DELETE FROM stories WHERE id = ?`, id)
	batch.Query(`DELETE FROM story_views WHERE story_id = ?`, id)
	return s.session.ExecuteBatch(batch)
}

// DeleteExpired pages through the table and removes expired rows one by one.
// Each delete is conditional, so concurrent sweeps report a story only once.
func (s *StoryStore) DeleteExpired(ctx context.Context, now time.Time) ([]domain.Story, error) {
	var expired []domain.Story
	err := s.scan(ctx, s.session.Query(`SELECT `+storyColumns+` FROM stories`), func(story domain.Story) error {
		if story.Expired(now) {
			expired = append(expired, story)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan stories: %w", err)
	}

	var removed []domain.Story
	for _, story := range expired {
		applied, err := s.session.Query(`DELETE FROM stories WHERE id = ? IF EXISTS`, story.ID).
			WithContext(ctx).
			MapScanCAS(map[string]interface{}{})
		if err != nil {
			return removed, fmt.Errorf("delete story %s: %w", story.ID, err)
		}
		if !applied {
			continue
		}
		if err := s.session.Query(`DELETE FROM story_views WHERE story_id = ?`, story.ID).WithContext(ctx).Exec(); err != nil {
			return removed, fmt.Errorf("delete views of %s: %w", story.ID, err)
		}
		removed = append(removed, story)
	}
	return removed, nil
}

func (s *StoryStore) expiry(ctx context.Context, id string) (time.Time, error) {
	var expiresAt time.Time
	err := s.session.Query(`SELECT expires_at FROM stories WHERE id = ?`, id).
		WithContext(ctx).
		Scan(&expiresAt)
	if errors.Is(err, gocql.ErrNotFound) {
		return time.Time{}, domain.ErrStoryNotFound
	}
	return expiresAt, err
}

func (s *StoryStore) scan(ctx context.Context, q *gocql.Query, fn func(domain.Story) error) error {
	scanner := q.WithContext(ctx).PageSize(scanPageSize).Iter().Scanner()
	for scanner.Next() {
		var row storyRow
		if err := scanner.Scan(row.dest()...); err != nil {
			return err
		}
		story, err := row.toDomain()
		if err != nil {
			return err
		}
		if err := fn(story); err != nil {
			return err
		}
	}
	return scanner.Err()
}

type storyRow struct {
	id, userID, username, userImage, mediaURL, mediaType string
	duration                                             int
	viewed, premium, downloadable, adult                 bool
	category, items                                      string
	createdAt, expiresAt                                 time.Time
}

func (r *storyRow) dest() []interface{} {
	return []interface{}{
		&r.id, &r.userID, &r.username, &r.userImage, &r.mediaURL, &r.mediaType,
		&r.duration, &r.viewed, &r.premium, &r.downloadable, &r.adult,
		&r.category, &r.items, &r.createdAt, &r.expiresAt,
	}
}

func (r *storyRow) toDomain() (domain.Story, error) {
	story := domain.Story{
		ID:           r.id,
		UserID:       r.userID,
		Username:     r.username,
		UserImage:    r.userImage,
		MediaURL:     r.mediaURL,
		Type:         domain.MediaType(r.mediaType),
		Duration:     r.duration,
		Viewed:       r.viewed,
		Premium:      r.premium,
		Downloadable: r.downloadable,
		Adult:        r.adult,
		Category:     r.category,
		CreatedAt:    r.createdAt,
		ExpiresAt:    r.expiresAt,
	}
	if r.items != "" {
		if err := json.Unmarshal([]byte(r.items), &story.Items); err != nil {
			return story, fmt.Errorf("decode items of story %s: %w", r.id, err)
		}
	}
	return story, nil
}

func encodeItems(items []domain.OverlayItem) (string, error) {
	if items == nil {
		return "[]", nil
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("encode items: %w", err)
	}
	return string(data), nil
}
