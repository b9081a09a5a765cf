package posts

import (
	"time"

	"github.com/suranovab/hw05-final/internal/shared/page"
)

// Post carries the author username and group title/slug joined onto
// the row, since every listing page shows them.
type Post struct {
	ID             string    `json:"id"`
	AuthorID       string    `json:"author_id"`
	AuthorUsername string    `json:"author_username"`
	GroupID        *string   `json:"group_id,omitempty"`
	GroupTitle     string    `json:"group_title,omitempty"`
	GroupSlug      string    `json:"group_slug,omitempty"`
	Text           string    `json:"text"`
	ImageURL       *string   `json:"image_url,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type Comment struct {
	ID             string    `json:"id"`
	PostID         string    `json:"post_id"`
	AuthorID       string    `json:"author_id"`
	AuthorUsername string    `json:"author_username"`
	Text           string    `json:"text"`
	CreatedAt      time.Time `json:"created_at"`
}

type Author struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
}

// PostPage is one window of a post listing, newest first.
type PostPage struct {
	Posts []Post    `json:"posts"`
	Meta  page.Meta `json:"meta"`
}

// ProfilePage adds whether the current viewer follows the author.
type ProfilePage struct {
	Author    Author   `json:"author"`
	Page      PostPage `json:"page"`
	Following bool     `json:"following"`
}

type Detail struct {
	Post     Post      `json:"post"`
	Comments []Comment `json:"comments"`
}

type PostForm struct {
	Text     string `form:"text" json:"text"`
	GroupID  string `form:"group_id" json:"group_id"`
	ImageURL string `form:"image_url" json:"image_url"`
}

type CommentForm struct {
	Text string `form:"text" json:"text"`
}
