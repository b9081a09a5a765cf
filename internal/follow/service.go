package follow

import (
	"context"

	"github.com/suranovab/hw05-final/internal/db"
	"github.com/suranovab/hw05-final/internal/shared/apperr"

	"github.com/jackc/pgx/v5"
)

type Service struct {
	db db.Querier
}

func NewService(q db.Querier) *Service {
	return &Service{db: q}
}

// Follow subscribes follower to the author. Self-follows and already
// existing edges are silent no-ops; the conflict-free insert keeps
// concurrent identical requests from producing duplicate edges.
func (s *Service) Follow(ctx context.Context, followerID, authorUsername string) error {
	authorID, err := s.authorID(ctx, authorUsername)
	if err != nil {
		return err
	}
	if authorID == followerID {
		return nil
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO user_follows (follower_id, author_id)
		VALUES ($1,$2)
		ON CONFLICT DO NOTHING
	`, followerID, authorID)
	return err
}

// Unfollow removes the edge. A missing edge is an error so the caller
// can tell a stale unfollow from a successful one.
func (s *Service) Unfollow(ctx context.Context, followerID, authorUsername string) error {
	authorID, err := s.authorID(ctx, authorUsername)
	if err != nil {
		return err
	}

	tag, err := s.db.Exec(ctx, `
		DELETE FROM user_follows WHERE follower_id=$1 AND author_id=$2
	`, followerID, authorID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFoundf("follow edge to %q", authorUsername)
	}
	return nil
}

func (s *Service) authorID(ctx context.Context, username string) (string, error) {
	var id string
	if err := s.db.QueryRow(ctx, `SELECT id FROM users WHERE username=$1`, username).Scan(&id); err != nil {
		if err == pgx.ErrNoRows {
			return "", apperr.NotFoundf("user %q", username)
		}
		return "", err
	}
	return id, nil
}
