package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/forgo/jobboard/internal/database"
	"github.com/forgo/jobboard/internal/model"
)

// GormUserRepository stores user accounts in a relational database
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new user repository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Create inserts a user. A taken username yields database.ErrDuplicate.
func (r *GormUserRepository) Create(ctx context.Context, user *model.User) error {
	row := &userRow{
		Username: user.Username,
		Hash:     user.Hash,
		Name:     user.Name,
		Contacts: user.Contacts,
		Role:     string(user.Role),
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return database.TranslateGormError(err)
	}

	user.ID = row.ID
	user.CreatedOn = row.CreatedOn
	user.UpdatedOn = row.UpdatedOn
	return nil
}

// GetByID retrieves a user by ID
func (r *GormUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var row userRow
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, database.TranslateGormError(err)
	}
	return row.toModel(), nil
}

// GetByUsername retrieves a user by username
func (r *GormUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var row userRow
	err := r.db.WithContext(ctx).Where("username = ?", username).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, database.TranslateGormError(err)
	}
	return row.toModel(), nil
}
