package postgres

import (
	"context"
	"time"

	"github.com/lib/pq"
)

// RecordView keeps the first time viewerID opened the story.
func (s *StoryStore) RecordView(ctx context.Context, id, viewerID string, at time.Time) error {
	_, err := s.tx.Executor(ctx).ExecContext(ctx, `
		INSERT INTO story_views (story_id, viewer_id, viewed_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (story_id, viewer_id) DO NOTHING`,
		id, viewerID, at,
	)
	return err
}

func (s *StoryStore) ViewedBy(ctx context.Context, viewerID string, ids []string) (map[string]bool, error) {
	result := make(map[string]bool)
	if len(ids) == 0 {
		return result, nil
	}

	rows, err := s.tx.Executor(ctx).QueryContext(ctx,
		"SELECT story_id FROM story_views WHERE viewer_id = $1 AND story_id = ANY($2)",
		viewerID, pq.Array(ids),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		result[id] = true
	}

	return result, rows.Err()
}
