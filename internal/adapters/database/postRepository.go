package database

import (
	"context"
	"fmt"

	"travelhub/internal/core/integrity"
	"travelhub/internal/core/post"
	postPort "travelhub/internal/ports/post"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// PostRepositoryDatabase implements PostRepository on gorm.
type PostRepositoryDatabase struct {
	db *gorm.DB
}

func NewPostRepositoryDatabase(db *gorm.DB) *PostRepositoryDatabase {
	return &PostRepositoryDatabase{db: db}
}

func (repo *PostRepositoryDatabase) CreatePost(ctx context.Context, p *post.TravelPost) (*post.TravelPost, error) {
	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error; err != nil {
		return nil, Translate(err, "create post")
	}
	return p, nil
}

func (repo *PostRepositoryDatabase) FindPostByID(ctx context.Context, id uint) (*post.TravelPost, error) {
	var p post.TravelPost
	if err := repo.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, Translate(err, "find post")
	}
	return &p, nil
}

// ListPosts returns public posts; each sort order is backed by an index.
func (repo *PostRepositoryDatabase) ListPosts(ctx context.Context, q postPort.ListQuery) ([]*post.TravelPost, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	tx := repo.db.WithContext(ctx).Where("is_public = ?", true)
	if q.Destination != "" {
		tx = tx.Where("destination = ?", q.Destination)
	}
	switch q.Sort {
	case postPort.SortPopular:
		tx = tx.Order("like_count DESC, created_at DESC")
	case postPort.SortViews:
		tx = tx.Order("view_count DESC")
	default:
		tx = tx.Order(post.TravelPost{}.DefaultOrder())
	}

	var posts []*post.TravelPost
	if err := tx.Order("id DESC").Limit(limit).Offset(q.Offset).Find(&posts).Error; err != nil {
		return nil, Translate(err, "list posts")
	}
	return posts, nil
}

// UpdatePost rewrites the editable columns. Counters are only moved by
// AddViews / Like / Unlike; a nil IsPublic keeps the stored flag.
func (repo *PostRepositoryDatabase) UpdatePost(ctx context.Context, p *post.TravelPost) error {
	if err := p.Validate(); err != nil {
		return err
	}
	omit := []string{"ID", "UserID", "CreatedAt", "ViewCount", "LikeCount", "User", "Plan"}
	if p.IsPublic == nil {
		omit = append(omit, "IsPublic")
	}
	res := repo.db.WithContext(ctx).Model(p).
		Select("*").
		Omit(omit...).
		Updates(p)
	return mustAffect(res, "update post")
}

// DeletePost removes the post together with its likes and comments.
func (repo *PostRepositoryDatabase) DeletePost(ctx context.Context, id uint) error {
	return mustAffect(repo.db.WithContext(ctx).Delete(&post.TravelPost{}, id), "delete post")
}

// AddViews applies buffered view deltas. Posts deleted in the meantime are
// skipped.
func (repo *PostRepositoryDatabase) AddViews(ctx context.Context, deltas map[uint]int64) error {
	if len(deltas) == 0 {
		return nil
	}
	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for id, n := range deltas {
			if n <= 0 {
				continue
			}
			if err := tx.Model(&post.TravelPost{}).
				Where("id = ?", id).
				UpdateColumn("view_count", gorm.Expr("view_count + ?", n)).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return Translate(err, "add views")
}

// Like records the like and bumps like_count atomically. A second like for
// the same pair fails with integrity.ErrDuplicate.
func (repo *PostRepositoryDatabase) Like(ctx context.Context, postID uint, userID uuid.UUID) (*post.PostLike, error) {
	like := &post.PostLike{PostID: postID, UserID: userID}
	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(like).Error; err != nil {
			return err
		}
		return tx.Model(&post.TravelPost{}).
			Where("id = ?", postID).
			UpdateColumn("like_count", gorm.Expr("like_count + ?", 1)).Error
	})
	if err != nil {
		return nil, Translate(err, fmt.Sprintf("like post %d", postID))
	}
	return like, nil
}

func (repo *PostRepositoryDatabase) Unlike(ctx context.Context, postID uint, userID uuid.UUID) error {
	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&post.PostLike{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return integrity.ErrNotFound
		}
		return tx.Model(&post.TravelPost{}).
			Where("id = ?", postID).
			UpdateColumn("like_count", gorm.Expr("CASE WHEN like_count > 0 THEN like_count - 1 ELSE 0 END")).Error
	})
	if err == integrity.ErrNotFound {
		return fmt.Errorf("unlike post %d: %w", postID, err)
	}
	return Translate(err, fmt.Sprintf("unlike post %d", postID))
}

func (repo *PostRepositoryDatabase) HasLiked(ctx context.Context, postID uint, userID uuid.UUID) (bool, error) {
	var count int64
	err := repo.db.WithContext(ctx).Model(&post.PostLike{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error
	if err != nil {
		return false, Translate(err, "check like")
	}
	return count > 0, nil
}
