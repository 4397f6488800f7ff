package post

import (
	"context"

	"travelhub/internal/core/post"

	"github.com/gofrs/uuid"
)

type SortOrder string

const (
	SortLatest  SortOrder = "latest"
	SortPopular SortOrder = "popular"
	SortViews   SortOrder = "views"
)

// ListQuery filters the public post feed.
type ListQuery struct {
	Destination string
	Sort        SortOrder
	Limit       int
	Offset      int
}

// PostRepository persists posts, likes and the denormalised counters.
type PostRepository interface {
	CreatePost(ctx context.Context, p *post.TravelPost) (*post.TravelPost, error)
	FindPostByID(ctx context.Context, id uint) (*post.TravelPost, error)
	ListPosts(ctx context.Context, q ListQuery) ([]*post.TravelPost, error)
	UpdatePost(ctx context.Context, p *post.TravelPost) error
	DeletePost(ctx context.Context, id uint) error
	AddViews(ctx context.Context, deltas map[uint]int64) error
	Like(ctx context.Context, postID uint, userID uuid.UUID) (*post.PostLike, error)
	Unlike(ctx context.Context, postID uint, userID uuid.UUID) error
	HasLiked(ctx context.Context, postID uint, userID uuid.UUID) (bool, error)
}

// CommentRepository loads threads one level at a time.
type CommentRepository interface {
	Create(ctx context.Context, c *post.Comment) (*post.Comment, error)
	FindByID(ctx context.Context, id uint) (*post.Comment, error)
	ListTopLevel(ctx context.Context, postID uint) ([]*post.Comment, error)
	ListReplies(ctx context.Context, parentID uint) ([]*post.Comment, error)
	CountReplies(ctx context.Context, parentIDs []uint) (map[uint]int, error)
	SoftDelete(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
}

// ViewCounter buffers post views outside the database.
type ViewCounter interface {
	Incr(ctx context.Context, postID uint) error
	// Drain also reports how many dirty ids it popped, counting those whose
	// pending delta was already gone.
	Drain(ctx context.Context, limit int64) (deltas map[uint]int64, popped int, err error)
	Restore(ctx context.Context, deltas map[uint]int64) error
}

type PostDTO struct {
	ID          uint    `json:"id"`
	UserID      string  `json:"user_id"`
	PlanID      *uint   `json:"plan_id,omitempty"`
	Title       string  `json:"title"`
	Content     string  `json:"content"`
	Destination *string `json:"destination,omitempty"`
	IsPublic    bool    `json:"is_public"`
	ViewCount   int     `json:"view_count"`
	LikeCount   int     `json:"like_count"`
	CreatedAt   string  `json:"created_at"`
}

type CommentDTO struct {
	ID         uint    `json:"id"`
	PostID     uint    `json:"post_id"`
	UserID     *string `json:"user_id,omitempty"`
	ParentID   *uint   `json:"parent_comment_id,omitempty"`
	Content    string  `json:"content"`
	IsDeleted  bool    `json:"is_deleted"`
	ReplyCount int     `json:"reply_count"`
	CreatedAt  string  `json:"created_at"`
}
