package groups

import (
	"context"
	"strings"

	"github.com/suranovab/hw05-final/internal/db"
	"github.com/suranovab/hw05-final/internal/shared/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Service struct {
	db db.Querier
}

func NewService(q db.Querier) *Service {
	return &Service{db: q}
}

func (f GroupForm) Validate() *apperr.ValidationError {
	ve := apperr.NewValidation()
	if strings.TrimSpace(f.Title) == "" {
		ve.Add("title", "title is required")
	}
	if strings.TrimSpace(f.Slug) == "" {
		ve.Add("slug", "slug is required")
	}
	if ve.Empty() {
		return nil
	}
	return ve
}

func (s *Service) Create(ctx context.Context, form GroupForm) (Group, error) {
	if ve := form.Validate(); ve != nil {
		return Group{}, ve
	}

	group := Group{
		ID:          uuid.NewString(),
		Title:       form.Title,
		Slug:        form.Slug,
		Description: form.Description,
	}
	// a slug collision yields no row instead of a constraint error
	row := s.db.QueryRow(ctx, `
		INSERT INTO groups (id, title, slug, description)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (slug) DO NOTHING
		RETURNING created_at
	`, group.ID, group.Title, group.Slug, group.Description)
	if err := row.Scan(&group.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			ve := apperr.NewValidation()
			ve.Add("slug", "slug is already taken")
			return Group{}, ve
		}
		return Group{}, err
	}
	return group, nil
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (Group, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, title, slug, description, created_at
		FROM groups WHERE slug=$1
	`, slug)
	var g Group
	if err := row.Scan(&g.ID, &g.Title, &g.Slug, &g.Description, &g.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return Group{}, apperr.NotFoundf("group %q", slug)
		}
		return Group{}, err
	}
	return g, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Group, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, title, slug, description, created_at
		FROM groups WHERE id=$1
	`, id)
	var g Group
	if err := row.Scan(&g.ID, &g.Title, &g.Slug, &g.Description, &g.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return Group{}, apperr.NotFoundf("group %q", id)
		}
		return Group{}, err
	}
	return g, nil
}

func (s *Service) List(ctx context.Context) ([]Group, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, title, slug, description, created_at
		FROM groups ORDER BY title
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Group
	for rows.Next() {
		var g Group
		if err := rows.Scan(&g.ID, &g.Title, &g.Slug, &g.Description, &g.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}
