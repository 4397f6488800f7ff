package postapp

import (
	"context"
	"fmt"
	"time"

	"travelhub/internal/core/integrity"
	postEntity "travelhub/internal/core/post"
	postPort "travelhub/internal/ports/post"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

type PostService struct {
	PostRepository    postPort.PostRepository
	CommentRepository postPort.CommentRepository
	ViewCounter       postPort.ViewCounter // nil: views go straight to the database
	Logger            *zap.Logger
}

func NewPostService(
	postRepo postPort.PostRepository,
	commentRepo postPort.CommentRepository,
	viewCounter postPort.ViewCounter,
	logger *zap.Logger,
) *PostService {
	return &PostService{
		PostRepository:    postRepo,
		CommentRepository: commentRepo,
		ViewCounter:       viewCounter,
		Logger:            logger,
	}
}

type CreatePostInput struct {
	UserID       string
	PlanID       *uint
	Title        string
	Content      string
	ThumbnailURL *string
	Destination  *string
	IsPublic     *bool
}

// CreatePost ایجاد یک پست جدید
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*postPort.PostDTO, error) {
	uid, err := uuid.FromString(in.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid userID: %w", err)
	}

	p, err := s.PostRepository.CreatePost(ctx, &postEntity.TravelPost{
		UserID:       uid,
		PlanID:       in.PlanID,
		Title:        in.Title,
		Content:      in.Content,
		ThumbnailURL: in.ThumbnailURL,
		Destination:  in.Destination,
		IsPublic:     in.IsPublic,
	})
	if err != nil {
		s.Logger.Warn("Failed to create post", zap.String("userID", in.UserID), zap.Error(err))
		return nil, err
	}

	s.Logger.Info("Post created", zap.Uint("postID", p.ID), zap.String("userID", in.UserID))
	return toPostDTO(p), nil
}

// ViewPost returns the post and counts the view. The counter lags the
// database until the flush worker runs.
func (s *PostService) ViewPost(ctx context.Context, postID uint) (*postPort.PostDTO, error) {
	p, err := s.PostRepository.FindPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if s.ViewCounter != nil {
		if err := s.ViewCounter.Incr(ctx, postID); err != nil {
			s.Logger.Warn("Could not buffer view", zap.Uint("postID", postID), zap.Error(err))
		}
	} else if err := s.PostRepository.AddViews(ctx, map[uint]int64{postID: 1}); err != nil {
		s.Logger.Warn("Could not record view", zap.Uint("postID", postID), zap.Error(err))
	} else {
		p.ViewCount++
	}
	return toPostDTO(p), nil
}

func (s *PostService) ListPosts(ctx context.Context, q postPort.ListQuery) ([]*postPort.PostDTO, error) {
	posts, err := s.PostRepository.ListPosts(ctx, q)
	if err != nil {
		return nil, err
	}
	out := make([]*postPort.PostDTO, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostDTO(p))
	}
	return out, nil
}

// LikePost fails with a duplicate error when the user already liked the post.
func (s *PostService) LikePost(ctx context.Context, postID uint, userID string) error {
	uid, err := uuid.FromString(userID)
	if err != nil {
		return fmt.Errorf("invalid userID: %w", err)
	}
	if _, err := s.PostRepository.Like(ctx, postID, uid); err != nil {
		return err
	}
	s.Logger.Info("Post liked", zap.Uint("postID", postID), zap.String("userID", userID))
	return nil
}

func (s *PostService) UnlikePost(ctx context.Context, postID uint, userID string) error {
	uid, err := uuid.FromString(userID)
	if err != nil {
		return fmt.Errorf("invalid userID: %w", err)
	}
	return s.PostRepository.Unlike(ctx, postID, uid)
}

// AddComment adds a top-level comment, or a reply when parentID is set.
func (s *PostService) AddComment(ctx context.Context, postID uint, userID string, parentID *uint, content string) (*postPort.CommentDTO, error) {
	uid, err := uuid.FromString(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid userID: %w", err)
	}

	c, err := s.CommentRepository.Create(ctx, &postEntity.Comment{
		PostID:          postID,
		UserID:          &uid,
		ParentCommentID: parentID,
		Content:         content,
	})
	if err != nil {
		return nil, err
	}
	return toCommentDTO(c, 0), nil
}

// ListThread returns the top-level comments of a post, or the direct
// replies of parentID when it is set, each with its reply count.
func (s *PostService) ListThread(ctx context.Context, postID uint, parentID *uint) ([]*postPort.CommentDTO, error) {
	var (
		comments []*postEntity.Comment
		err      error
	)
	if parentID == nil {
		comments, err = s.CommentRepository.ListTopLevel(ctx, postID)
	} else {
		comments, err = s.CommentRepository.ListReplies(ctx, *parentID)
	}
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.ID)
	}
	counts, err := s.CommentRepository.CountReplies(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]*postPort.CommentDTO, 0, len(comments))
	for _, c := range comments {
		out = append(out, toCommentDTO(c, counts[c.ID]))
	}
	return out, nil
}

// DeleteComment soft-deletes so replies keep their parent. Only the author
// may delete; anyone else gets ErrNotFound.
func (s *PostService) DeleteComment(ctx context.Context, commentID uint, userID string) error {
	uid, err := uuid.FromString(userID)
	if err != nil {
		return fmt.Errorf("invalid userID: %w", err)
	}
	c, err := s.CommentRepository.FindByID(ctx, commentID)
	if err != nil {
		return err
	}
	if c.UserID == nil || *c.UserID != uid {
		return fmt.Errorf("comment %d of another user: %w", commentID, integrity.ErrNotFound)
	}
	return s.CommentRepository.SoftDelete(ctx, commentID)
}

func toPostDTO(p *postEntity.TravelPost) *postPort.PostDTO {
	return &postPort.PostDTO{
		ID:          p.ID,
		UserID:      p.UserID.String(),
		PlanID:      p.PlanID,
		Title:       p.Title,
		Content:     p.Content,
		Destination: p.Destination,
		IsPublic:    p.Public(),
		ViewCount:   p.ViewCount,
		LikeCount:   p.LikeCount,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
	}
}

func toCommentDTO(c *postEntity.Comment, replies int) *postPort.CommentDTO {
	dto := &postPort.CommentDTO{
		ID:         c.ID,
		PostID:     c.PostID,
		ParentID:   c.ParentCommentID,
		Content:    c.Content,
		IsDeleted:  c.IsDeleted,
		ReplyCount: replies,
		CreatedAt:  c.CreatedAt.Format(time.RFC3339),
	}
	if c.UserID != nil {
		uid := c.UserID.String()
		dto.UserID = &uid
	}
	if c.IsDeleted {
		dto.Content = ""
	}
	return dto
}
