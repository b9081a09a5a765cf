package posts

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/suranovab/hw05-final/internal/db"
	"github.com/suranovab/hw05-final/internal/groups"
	"github.com/suranovab/hw05-final/internal/shared/apperr"
	"github.com/suranovab/hw05-final/internal/shared/page"
	"github.com/suranovab/hw05-final/internal/stream"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const postColumns = `p.id, p.author_id, u.username, p.group_id,
		       COALESCE(g.title,''), COALESCE(g.slug,''), p.text, p.image_url, p.created_at`

type Service struct {
	db     db.Querier
	groups *groups.Service
	hub    *stream.Hub
}

func NewService(q db.Querier, groupSvc *groups.Service, hub *stream.Hub) *Service {
	return &Service{db: q, groups: groupSvc, hub: hub}
}

func (f PostForm) Validate() *apperr.ValidationError {
	if strings.TrimSpace(f.Text) == "" {
		ve := apperr.NewValidation()
		ve.Add("text", "text must not be empty")
		return ve
	}
	return nil
}

func (f CommentForm) Validate() *apperr.ValidationError {
	if strings.TrimSpace(f.Text) == "" {
		ve := apperr.NewValidation()
		ve.Add("text", "text must not be empty")
		return ve
	}
	return nil
}

// ListAll returns one page of all posts, newest first.
func (s *Service) ListAll(ctx context.Context, pageNum int) (PostPage, error) {
	total, err := s.count(ctx, `SELECT COUNT(*) FROM posts`)
	if err != nil {
		return PostPage{}, err
	}
	meta := page.Clamp(pageNum, total)
	list, err := s.list(ctx, `
		SELECT `+postColumns+`
		FROM posts p
		JOIN users u ON u.id = p.author_id
		LEFT JOIN groups g ON g.id = p.group_id
		ORDER BY p.created_at DESC
		LIMIT $1 OFFSET $2
	`, page.Size, meta.Offset())
	if err != nil {
		return PostPage{}, err
	}
	return PostPage{Posts: list, Meta: meta}, nil
}

// ListByGroup returns one page of the group's posts, newest first.
func (s *Service) ListByGroup(ctx context.Context, slug string, pageNum int) (groups.Group, PostPage, error) {
	group, err := s.groups.GetBySlug(ctx, slug)
	if err != nil {
		return groups.Group{}, PostPage{}, err
	}

	total, err := s.count(ctx, `SELECT COUNT(*) FROM posts WHERE group_id=$1`, group.ID)
	if err != nil {
		return groups.Group{}, PostPage{}, err
	}
	meta := page.Clamp(pageNum, total)
	list, err := s.list(ctx, `
		SELECT `+postColumns+`
		FROM posts p
		JOIN users u ON u.id = p.author_id
		LEFT JOIN groups g ON g.id = p.group_id
		WHERE p.group_id=$1
		ORDER BY p.created_at DESC
		LIMIT $2 OFFSET $3
	`, group.ID, page.Size, meta.Offset())
	if err != nil {
		return groups.Group{}, PostPage{}, err
	}
	return group, PostPage{Posts: list, Meta: meta}, nil
}

// ListByAuthor returns one page of the author's posts plus whether
// the viewer follows them. viewerID is "" for anonymous viewers.
func (s *Service) ListByAuthor(ctx context.Context, username, viewerID string, pageNum int) (ProfilePage, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, username, full_name FROM users WHERE username=$1
	`, username)
	var author Author
	if err := row.Scan(&author.ID, &author.Username, &author.FullName); err != nil {
		if err == pgx.ErrNoRows {
			return ProfilePage{}, apperr.NotFoundf("user %q", username)
		}
		return ProfilePage{}, err
	}

	following := false
	if viewerID != "" {
		err := s.db.QueryRow(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM user_follows WHERE follower_id=$1 AND author_id=$2
			)
		`, viewerID, author.ID).Scan(&following)
		if err != nil {
			return ProfilePage{}, err
		}
	}

	total, err := s.count(ctx, `SELECT COUNT(*) FROM posts WHERE author_id=$1`, author.ID)
	if err != nil {
		return ProfilePage{}, err
	}
	meta := page.Clamp(pageNum, total)
	list, err := s.list(ctx, `
		SELECT `+postColumns+`
		FROM posts p
		JOIN users u ON u.id = p.author_id
		LEFT JOIN groups g ON g.id = p.group_id
		WHERE p.author_id=$1
		ORDER BY p.created_at DESC
		LIMIT $2 OFFSET $3
	`, author.ID, page.Size, meta.Offset())
	if err != nil {
		return ProfilePage{}, err
	}
	return ProfilePage{
		Author:    author,
		Page:      PostPage{Posts: list, Meta: meta},
		Following: following,
	}, nil
}

// Feed returns one page of posts by the authors the viewer follows.
func (s *Service) Feed(ctx context.Context, viewerID string, pageNum int) (PostPage, error) {
	total, err := s.count(ctx, `
		SELECT COUNT(*) FROM posts p
		JOIN user_follows f ON f.author_id = p.author_id
		WHERE f.follower_id=$1
	`, viewerID)
	if err != nil {
		return PostPage{}, err
	}
	meta := page.Clamp(pageNum, total)
	list, err := s.list(ctx, `
		SELECT `+postColumns+`
		FROM posts p
		JOIN users u ON u.id = p.author_id
		LEFT JOIN groups g ON g.id = p.group_id
		JOIN user_follows f ON f.author_id = p.author_id
		WHERE f.follower_id=$1
		ORDER BY p.created_at DESC
		LIMIT $2 OFFSET $3
	`, viewerID, page.Size, meta.Offset())
	if err != nil {
		return PostPage{}, err
	}
	return PostPage{Posts: list, Meta: meta}, nil
}

// GetDetail returns the post with its comments, newest first.
func (s *Service) GetDetail(ctx context.Context, postID string) (Detail, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+postColumns+`
		FROM posts p
		JOIN users u ON u.id = p.author_id
		LEFT JOIN groups g ON g.id = p.group_id
		WHERE p.id=$1
	`, postID)
	var p Post
	if err := scanPost(row, &p); err != nil {
		if err == pgx.ErrNoRows {
			return Detail{}, apperr.NotFoundf("post %q", postID)
		}
		return Detail{}, err
	}

	rows, err := s.db.Query(ctx, `
		SELECT c.id, c.post_id, c.author_id, u.username, c.text, c.created_at
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.post_id=$1
		ORDER BY c.created_at DESC
	`, postID)
	if err != nil {
		return Detail{}, err
	}
	defer rows.Close()

	var comments []Comment
	for rows.Next() {
		var cm Comment
		if err := rows.Scan(&cm.ID, &cm.PostID, &cm.AuthorID, &cm.AuthorUsername, &cm.Text, &cm.CreatedAt); err != nil {
			return Detail{}, err
		}
		comments = append(comments, cm)
	}
	return Detail{Post: p, Comments: comments}, nil
}

// Create persists a new post and returns its id. The timestamp is
// assigned by the store.
func (s *Service) Create(ctx context.Context, authorID string, form PostForm) (string, error) {
	if ve := form.Validate(); ve != nil {
		return "", ve
	}
	groupID, err := s.resolveGroup(ctx, form.GroupID)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	row := s.db.QueryRow(ctx, `
		INSERT INTO posts (id, author_id, group_id, text, image_url)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at
	`, id, authorID, groupID, form.Text, nullable(form.ImageURL))
	var createdAt time.Time
	if err := row.Scan(&createdAt); err != nil {
		return "", err
	}
	return id, nil
}

// Update mutates text/group/image in place. Only the author may edit;
// the creation timestamp never changes.
func (s *Service) Update(ctx context.Context, requesterID, postID string, form PostForm) error {
	var authorID string
	if err := s.db.QueryRow(ctx, `SELECT author_id FROM posts WHERE id=$1`, postID).Scan(&authorID); err != nil {
		if err == pgx.ErrNoRows {
			return apperr.NotFoundf("post %q", postID)
		}
		return err
	}
	if authorID != requesterID {
		return apperr.ErrForbidden
	}
	if ve := form.Validate(); ve != nil {
		return ve
	}
	groupID, err := s.resolveGroup(ctx, form.GroupID)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(ctx, `
		UPDATE posts SET text=$2, group_id=$3, image_url=$4 WHERE id=$1
	`, postID, form.Text, groupID, nullable(form.ImageURL))
	return err
}

// AddComment persists a comment on the post and broadcasts it to live
// subscribers.
func (s *Service) AddComment(ctx context.Context, authorID, postID string, form CommentForm) (Comment, error) {
	// a missing post outranks invalid input
	var exists bool
	if err := s.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM posts WHERE id=$1)
	`, postID).Scan(&exists); err != nil {
		return Comment{}, err
	}
	if !exists {
		return Comment{}, apperr.NotFoundf("post %q", postID)
	}
	if ve := form.Validate(); ve != nil {
		return Comment{}, ve
	}

	comment := Comment{
		ID:       uuid.NewString(),
		PostID:   postID,
		AuthorID: authorID,
		Text:     form.Text,
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO comments (id, post_id, author_id, text)
		SELECT $1, p.id, $3, $4 FROM posts p WHERE p.id=$2
		RETURNING created_at
	`, comment.ID, postID, authorID, comment.Text)
	if err := row.Scan(&comment.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return Comment{}, apperr.NotFoundf("post %q", postID)
		}
		return Comment{}, err
	}

	if s.hub != nil {
		if payload, err := json.Marshal(comment); err == nil {
			s.hub.Broadcast(postID, payload)
		}
	}
	return comment, nil
}

// resolveGroup turns an optional form group id into a nullable column
// value, verifying the group exists when one is named.
func (s *Service) resolveGroup(ctx context.Context, groupID string) (*string, error) {
	if groupID == "" {
		return nil, nil
	}
	if _, err := s.groups.GetByID(ctx, groupID); err != nil {
		return nil, err
	}
	return &groupID, nil
}

func (s *Service) count(ctx context.Context, sql string, args ...any) (int, error) {
	var n int
	if err := s.db.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *Service) list(ctx context.Context, sql string, args ...any) ([]Post, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Post
	for rows.Next() {
		var p Post
		if err := scanPost(rows, &p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func scanPost(row pgx.Row, p *Post) error {
	return row.Scan(&p.ID, &p.AuthorID, &p.AuthorUsername, &p.GroupID,
		&p.GroupTitle, &p.GroupSlug, &p.Text, &p.ImageURL, &p.CreatedAt)
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
