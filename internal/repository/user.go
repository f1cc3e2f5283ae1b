package repository

import (
	"context"
	"errors"

	"github.com/monocle-dev/house/internal/models"
	"github.com/monocle-dev/house/internal/query"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return wrap("create user", r.db.WithContext(ctx).Omit("Properties", "ReviewsWritten", "ReviewsReceived").Create(user).Error)
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User

	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, wrap("get user", err)
	}

	return &user, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User

	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, wrap("get user by username", err)
	}

	return &user, nil
}

func (r *UserRepository) List(ctx context.Context, p query.Pagination) ([]models.User, int64, query.Pagination, error) {
	items, count, p, err := paginate[models.User](r.db.WithContext(ctx).Model(&models.User{}), p, func(tx *gorm.DB) *gorm.DB {
		return tx.Order("id")
	})
	if err != nil && !errors.Is(err, query.ErrInvalidPage) {
		err = wrap("list users", err)
	}

	return items, count, p, err
}

// Update writes the profile columns of user.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).
		Model(user).
		Select("username", "first_name", "email", "phone_number", "password_hash", "role").
		Updates(user).Error

	return wrap("update user", err)
}

// UsernameTaken reports whether another user than excludeID holds username.
func (r *UserRepository) UsernameTaken(ctx context.Context, username string, excludeID uint) (bool, error) {
	return r.taken(ctx, "username = ?", username, excludeID)
}

// PhoneTaken reports whether another user than excludeID holds phone.
func (r *UserRepository) PhoneTaken(ctx context.Context, phone string, excludeID uint) (bool, error) {
	return r.taken(ctx, "phone_number = ?", phone, excludeID)
}

func (r *UserRepository) taken(ctx context.Context, cond string, value string, excludeID uint) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where(cond, value).
		Where("id <> ?", excludeID).
		Count(&count).Error
	if err != nil {
		return false, wrap("check user uniqueness", err)
	}

	return count > 0, nil
}
