package post

import (
	"time"

	"github.com/google/uuid"
)

// Post is a community feed entry.
type Post struct {
	ID             uuid.UUID `json:"id" db:"id"`
	UserID         uuid.UUID `json:"user_id" db:"user_id"`
	Username       string    `json:"username"`
	ProfilePicture string    `json:"profile_picture,omitempty"`
	Content        string    `json:"content" db:"content"`
	MediaURL       *string   `json:"media_url,omitempty" db:"media_url"`
	Likes          int       `json:"likes" db:"likes"`
	CommentCount   int       `json:"comment_count"`
	DatePosted     time.Time `json:"date_posted" db:"date_posted"`
}

type Comment struct {
	ID         uuid.UUID `json:"id" db:"id"`
	PostID     uuid.UUID `json:"post_id" db:"post_id"`
	UserID     uuid.UUID `json:"user_id" db:"user_id"`
	Username   string    `json:"username"`
	Content    string    `json:"content" db:"content"`
	DatePosted time.Time `json:"date_posted" db:"date_posted"`
}

type CreatePostRequest struct {
	Content  string  `json:"content" validate:"required"`
	MediaURL *string `json:"media_url,omitempty"`
}

type AddCommentRequest struct {
	PostID  uuid.UUID `json:"post_id" validate:"required"`
	Content string    `json:"content" validate:"required"`
}
