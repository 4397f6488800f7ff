package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"travelhub/internal/core/integrity"
	"travelhub/internal/core/post"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommentRepositoryDatabase implements CommentRepository. Threads are an
// adjacency list: replies are always fetched by parent id, one level at a
// time.
type CommentRepositoryDatabase struct {
	db *gorm.DB
}

func NewCommentRepositoryDatabase(db *gorm.DB) *CommentRepositoryDatabase {
	return &CommentRepositoryDatabase{db: db}
}

// Create inserts the comment. A reply's parent must live on the same post.
func (repo *CommentRepositoryDatabase) Create(ctx context.Context, c *post.Comment) (*post.Comment, error) {
	db := repo.db.WithContext(ctx)
	if c.ParentCommentID != nil {
		var parent post.Comment
		err := db.Select("id", "post_id").First(&parent, *c.ParentCommentID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("create comment: parent %d: %w", *c.ParentCommentID, integrity.ErrReference)
		}
		if err != nil {
			return nil, Translate(err, "create comment")
		}
		if parent.PostID != c.PostID {
			return nil, integrity.Invalid("Comment", "parent_comment_id", "same_post")
		}
	}
	if err := db.Omit(clause.Associations).Create(c).Error; err != nil {
		return nil, Translate(err, "create comment")
	}
	return c, nil
}

func (repo *CommentRepositoryDatabase) FindByID(ctx context.Context, id uint) (*post.Comment, error) {
	var c post.Comment
	if err := repo.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, Translate(err, "find comment")
	}
	return &c, nil
}

func (repo *CommentRepositoryDatabase) ListTopLevel(ctx context.Context, postID uint) ([]*post.Comment, error) {
	var comments []*post.Comment
	err := repo.db.WithContext(ctx).
		Where("post_id = ? AND parent_comment_id IS NULL", postID).
		Order(post.Comment{}.DefaultOrder()).
		Find(&comments).Error
	if err != nil {
		return nil, Translate(err, "list comments")
	}
	return comments, nil
}

func (repo *CommentRepositoryDatabase) ListReplies(ctx context.Context, parentID uint) ([]*post.Comment, error) {
	var replies []*post.Comment
	err := repo.db.WithContext(ctx).
		Where("parent_comment_id = ?", parentID).
		Order(post.Comment{}.DefaultOrder()).
		Find(&replies).Error
	if err != nil {
		return nil, Translate(err, "list replies")
	}
	return replies, nil
}

// CountReplies returns the number of direct replies per parent id.
func (repo *CommentRepositoryDatabase) CountReplies(ctx context.Context, parentIDs []uint) (map[uint]int, error) {
	counts := make(map[uint]int, len(parentIDs))
	if len(parentIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		ParentCommentID uint
		N               int
	}
	err := repo.db.WithContext(ctx).Model(&post.Comment{}).
		Select("parent_comment_id, COUNT(*) AS n").
		Where("parent_comment_id IN ?", parentIDs).
		Group("parent_comment_id").
		Scan(&rows).Error
	if err != nil {
		return nil, Translate(err, "count replies")
	}
	for _, r := range rows {
		counts[r.ParentCommentID] = r.N
	}
	return counts, nil
}

// SoftDelete flags the comment as removed. The row, its content and its
// replies stay; deleting an already deleted comment keeps the first
// deleted_at.
func (repo *CommentRepositoryDatabase) SoftDelete(ctx context.Context, id uint) error {
	c, err := repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if c.IsDeleted {
		return nil
	}
	now := time.Now().UTC()
	res := repo.db.WithContext(ctx).Model(&post.Comment{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_deleted": true, "deleted_at": now})
	return mustAffect(res, "soft delete comment")
}

// Delete physically removes the comment and, by cascade, its replies.
func (repo *CommentRepositoryDatabase) Delete(ctx context.Context, id uint) error {
	return mustAffect(repo.db.WithContext(ctx).Delete(&post.Comment{}, id), "delete comment")
}
