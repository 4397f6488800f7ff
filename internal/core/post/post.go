package post

import (
	"time"

	"travelhub/internal/core/integrity"
	"travelhub/internal/core/plan"
	"travelhub/internal/core/user"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// TravelPost is a published trip write-up, optionally built from a plan.
type TravelPost struct {
	ID           uint             `gorm:"primaryKey" json:"id"`
	UserID       uuid.UUID        `gorm:"type:char(36);not null;index" json:"user_id"`
	User         user.User        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-" validate:"-"`
	PlanID       *uint            `gorm:"index" json:"plan_id,omitempty"`
	Plan         *plan.TravelPlan `gorm:"foreignKey:PlanID;constraint:OnDelete:SET NULL" json:"-" validate:"-"`
	Title        string           `gorm:"type:varchar(255);not null" json:"title" validate:"required,max=255"`
	Content      string           `gorm:"type:text;not null" json:"content" validate:"required"`
	ThumbnailURL *string          `gorm:"type:varchar(500)" json:"thumbnail_url,omitempty" validate:"omitempty,max=500"`
	Destination  *string          `gorm:"type:varchar(100);index" json:"destination,omitempty" validate:"omitempty,max=100"`
	// nil means "use the column default" (public)
	IsPublic  *bool     `gorm:"not null;default:true" json:"is_public,omitempty"`
	ViewCount int       `gorm:"not null;default:0;index:idx_travel_posts_view_count_desc,sort:desc" json:"view_count"`
	LikeCount int       `gorm:"not null;default:0;index;index:idx_travel_posts_popular,priority:1,sort:desc" json:"like_count"`
	CreatedAt time.Time `gorm:"autoCreateTime;index;index:idx_travel_posts_popular,priority:2,sort:desc" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (TravelPost) TableName() string { return "travel_posts" }

func (TravelPost) DefaultOrder() string { return "created_at DESC" }

func (p *TravelPost) Validate() error { return integrity.Check(p) }

func (p *TravelPost) BeforeCreate(tx *gorm.DB) error {
	if p.IsPublic == nil {
		public := true
		p.IsPublic = &public
	}
	return p.Validate()
}

// Public reports the visibility flag, treating an unset flag as public.
func (p *TravelPost) Public() bool { return p.IsPublic == nil || *p.IsPublic }

// PostLike is one user's like; (post_id, user_id) is unique.
type PostLike struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	PostID    uint        `gorm:"not null;index;uniqueIndex:uniq_post_likes_post_user,priority:1" json:"post_id" validate:"required"`
	Post      *TravelPost `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-" validate:"-"`
	UserID    uuid.UUID   `gorm:"type:char(36);not null;index;uniqueIndex:uniq_post_likes_post_user,priority:2" json:"user_id"`
	User      *user.User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-" validate:"-"`
	CreatedAt time.Time   `gorm:"autoCreateTime;index" json:"created_at"`
}

func (PostLike) TableName() string { return "post_likes" }

func (l *PostLike) Validate() error {
	if err := integrity.Check(l); err != nil {
		return err
	}
	if l.UserID == uuid.Nil {
		return integrity.Invalid("PostLike", "user_id", "required")
	}
	return nil
}

func (l *PostLike) BeforeCreate(tx *gorm.DB) error { return l.Validate() }

// Comment is a possibly threaded comment. IsDeleted is moderation; a nil
// UserID means the author's account was removed. The two are independent.
type Comment struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	PostID          uint        `gorm:"not null;index" json:"post_id" validate:"required"`
	Post            *TravelPost `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-" validate:"-"`
	UserID          *uuid.UUID  `gorm:"type:char(36);index" json:"user_id,omitempty"`
	User            *user.User  `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"-" validate:"-"`
	ParentCommentID *uint       `gorm:"index" json:"parent_comment_id,omitempty"`
	ParentComment   *Comment    `gorm:"foreignKey:ParentCommentID;constraint:OnDelete:CASCADE" json:"-" validate:"-"`
	Content         string      `gorm:"type:text;not null" json:"content" validate:"required"`
	IsDeleted       bool        `gorm:"not null;default:false" json:"is_deleted"`
	DeletedAt       *time.Time  `json:"deleted_at,omitempty"`
	CreatedAt       time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Comment) TableName() string { return "comments" }

func (Comment) DefaultOrder() string { return "created_at ASC, id ASC" }

func (c *Comment) Validate() error { return integrity.Check(c) }

func (c *Comment) BeforeCreate(tx *gorm.DB) error { return c.Validate() }
