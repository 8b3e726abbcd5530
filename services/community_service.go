package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fitTrackAPI/internal/post"
)

var ErrPostNotFound = errors.New("post not found")

type CommunityService struct {
	db *pgxpool.Pool
}

func NewCommunityService(db *pgxpool.Pool) *CommunityService {
	return &CommunityService{db: db}
}

func (s *CommunityService) getUserID(ctx context.Context, clerkID string) (uuid.UUID, error) {
	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM users WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, ErrUserNotFound
		}
		return uuid.Nil, fmt.Errorf("failed to resolve user: %w", err)
	}
	return userID, nil
}

// GetPosts returns the feed newest-first with author details joined in.
func (s *CommunityService) GetPosts(ctx context.Context, limit int) ([]*post.Post, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}

	rows, err := s.db.Query(ctx, `
		SELECT p.id, p.user_id, u.username, COALESCE(u.profile_picture, ''),
		       p.content, p.media_url, p.likes, p.date_posted,
		       (SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id)
		FROM posts p
		JOIN users u ON u.id = p.user_id
		ORDER BY p.date_posted DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch posts: %w", err)
	}
	defer rows.Close()

	posts := []*post.Post{}
	for rows.Next() {
		p := &post.Post{}
		err := rows.Scan(&p.ID, &p.UserID, &p.Username, &p.ProfilePicture,
			&p.Content, &p.MediaURL, &p.Likes, &p.DatePosted, &p.CommentCount)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read posts: %w", err)
	}

	return posts, nil
}

func (s *CommunityService) CreatePost(ctx context.Context, clerkID string, req *post.CreatePostRequest) (*post.Post, error) {
	userID, err := s.getUserID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	p := &post.Post{ID: uuid.New(), UserID: userID, Content: req.Content, MediaURL: req.MediaURL}
	err = s.db.QueryRow(ctx, `
		INSERT INTO posts (id, user_id, content, media_url)
		VALUES ($1, $2, $3, $4)
		RETURNING likes, date_posted
	`, p.ID, p.UserID, p.Content, p.MediaURL).Scan(&p.Likes, &p.DatePosted)
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	err = s.db.QueryRow(ctx, `
		SELECT username, COALESCE(profile_picture, '') FROM users WHERE id = $1
	`, userID).Scan(&p.Username, &p.ProfilePicture)
	if err != nil {
		return nil, fmt.Errorf("failed to load post author: %w", err)
	}

	return p, nil
}

func (s *CommunityService) GetComments(ctx context.Context, postID uuid.UUID) ([]*post.Comment, error) {
	rows, err := s.db.Query(ctx, `
		SELECT c.id, c.post_id, c.user_id, u.username, c.content, c.date_posted
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.post_id = $1
		ORDER BY c.date_posted ASC
	`, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch comments: %w", err)
	}
	defer rows.Close()

	comments := []*post.Comment{}
	for rows.Next() {
		c := &post.Comment{}
		err := rows.Scan(&c.ID, &c.PostID, &c.UserID, &c.Username, &c.Content, &c.DatePosted)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read comments: %w", err)
	}

	return comments, nil
}

func (s *CommunityService) AddComment(ctx context.Context, clerkID string, req *post.AddCommentRequest) (*post.Comment, error) {
	userID, err := s.getUserID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	var exists bool
	err = s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM posts WHERE id = $1)`, req.PostID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check post: %w", err)
	}
	if !exists {
		return nil, ErrPostNotFound
	}

	c := &post.Comment{ID: uuid.New(), PostID: req.PostID, UserID: userID, Content: req.Content}
	err = s.db.QueryRow(ctx, `
		INSERT INTO comments (id, post_id, user_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING date_posted
	`, c.ID, c.PostID, c.UserID, c.Content).Scan(&c.DatePosted)
	if err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}

	err = s.db.QueryRow(ctx, `SELECT username FROM users WHERE id = $1`, userID).Scan(&c.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to load comment author: %w", err)
	}

	return c, nil
}

// LikePost bumps the like counter and returns the new total.
func (s *CommunityService) LikePost(ctx context.Context, postID uuid.UUID) (int, error) {
	var likes int
	err := s.db.QueryRow(ctx, `
		UPDATE posts SET likes = likes + 1 WHERE id = $1 RETURNING likes
	`, postID).Scan(&likes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrPostNotFound
		}
		return 0, fmt.Errorf("failed to like post: %w", err)
	}
	return likes, nil
}
