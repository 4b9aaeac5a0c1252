package entity

import "time"

// Post is the aggregate root for the content domain. A post carries text
// and/or an image URL; at least one of the two is present. Likes and
// comments live in their own tables but have no lifecycle outside their
// parent post.
type Post struct {
	ID        string
	UserID    string
	Text      string
	ImageURL  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Comment is an append-only child of a Post. Comments are never edited or
// deleted individually; they disappear with their post.
type Comment struct {
	ID        string
	PostID    string
	UserID    string
	Text      string
	CreatedAt time.Time
}

// CommentView is a comment with its author's public profile resolved.
type CommentView struct {
	ID        string    `json:"id"`
	Author    Profile   `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// PostView is the API shape of a post: author and commenter profiles
// resolved, like memberships as a plain id list.
type PostView struct {
	ID        string        `json:"id"`
	Author    Profile       `json:"author"`
	Text      string        `json:"text"`
	ImageURL  string        `json:"image_url"`
	Likes     []string      `json:"likes"`
	Comments  []CommentView `json:"comments"`
	CreatedAt time.Time     `json:"created_at"`
}
