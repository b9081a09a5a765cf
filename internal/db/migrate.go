package db

import "context"

// Migrate applies the schema. Statements are idempotent so it runs on
// every startup.
//
// Deletion semantics follow the domain rules: removing a group detaches
// its posts (SET NULL), removing a post removes its comments (CASCADE),
// removing a user removes their posts, comments and follow edges.
func Migrate(ctx context.Context, q Querier) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            UUID PRIMARY KEY,
			email         TEXT NOT NULL UNIQUE,
			username      TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			full_name     TEXT NOT NULL DEFAULT '',
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS groups (
			id          UUID PRIMARY KEY,
			title       TEXT NOT NULL,
			slug        TEXT NOT NULL UNIQUE,
			description TEXT NOT NULL DEFAULT '',
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS posts (
			id         UUID PRIMARY KEY,
			author_id  UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			group_id   UUID REFERENCES groups(id) ON DELETE SET NULL,
			text       TEXT NOT NULL,
			image_url  TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS posts_created_at_idx ON posts (created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS comments (
			id         UUID PRIMARY KEY,
			post_id    UUID NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
			author_id  UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			text       TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS user_follows (
			follower_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			author_id   UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (follower_id, author_id)
		)`,
		`CREATE TABLE IF NOT EXISTS storage_objects (
			id         UUID PRIMARY KEY,
			user_id    UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			url        TEXT NOT NULL,
			kind       TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}

	for _, stmt := range statements {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
