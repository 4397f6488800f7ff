package database

import (
	"context"

	"travelhub/internal/core/user"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// UserRepositoryDatabase implements UserRepository on gorm.
type UserRepositoryDatabase struct {
	db *gorm.DB
}

func NewUserRepositoryDatabase(db *gorm.DB) *UserRepositoryDatabase {
	return &UserRepositoryDatabase{db: db}
}

func (repo *UserRepositoryDatabase) Create(ctx context.Context, u *user.User) (*user.User, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}
	if err := repo.db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, Translate(err, "create user")
	}
	return u, nil
}

func (repo *UserRepositoryDatabase) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	var u user.User
	if err := repo.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, Translate(err, "find user")
	}
	return &u, nil
}

func (repo *UserRepositoryDatabase) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	var u user.User
	if err := repo.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, Translate(err, "find user")
	}
	return &u, nil
}

// Delete removes the account; dependent rows follow their own FK rules.
func (repo *UserRepositoryDatabase) Delete(ctx context.Context, id uuid.UUID) error {
	return mustAffect(repo.db.WithContext(ctx).Delete(&user.User{}, "id = ?", id), "delete user")
}
