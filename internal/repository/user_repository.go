package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/project-tracker/internal/database"
	"github.com/yukikurage/project-tracker/internal/models"
	"github.com/yukikurage/project-tracker/internal/utils"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create inserts the user inside a transaction that first checks the
// username and email are free. A unique index violation from a concurrent
// registration is reported the same way.
func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if taken, err := exists(tx, &models.User{}, "username = ?", user.Username); err != nil {
			return err
		} else if taken {
			return ErrUsernameExists
		}

		if taken, err := exists(tx, &models.User{}, "email = ?", user.Email); err != nil {
			return err
		} else if taken {
			return ErrEmailExists
		}

		return tx.Create(user).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return r.duplicateError(ctx, user, err)
	}
	return err
}

// duplicateError works out which unique column a lost insert race hit.
func (r *GormUserRepository) duplicateError(ctx context.Context, user *models.User, cause error) error {
	taken, err := exists(r.db.WithContext(ctx), &models.User{}, "username = ?", user.Username)
	if err == nil && taken {
		return fmt.Errorf("%w: %v", ErrUsernameExists, cause)
	}
	return fmt.Errorf("%w: %v", ErrEmailExists, cause)
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername finds a user by username
func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns a page of users ordered by ID
func (r *GormUserRepository) List(ctx context.Context, params utils.PaginationParams) ([]models.User, error) {
	users := []models.User{}
	if err := r.db.WithContext(ctx).Scopes(database.Paginate(params)).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Delete refuses to remove the creator of any project or task. Otherwise it
// clears the user's task assignments and deletes the user in one transaction.
func (r *GormUserRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&models.User{}, id).Error; err != nil {
			return err
		}

		if owns, err := exists(tx, &models.Project{}, "created_by = ?", id); err != nil {
			return err
		} else if owns {
			return ErrUserOwnsResources
		}

		if owns, err := exists(tx, &models.Task{}, "created_by = ?", id); err != nil {
			return err
		} else if owns {
			return ErrUserOwnsResources
		}

		if err := tx.Model(&models.Task{}).
			Where("assigned_to = ?", id).
			Update("assigned_to", nil).Error; err != nil {
			return fmt.Errorf("failed to clear assignments: %w", err)
		}

		return tx.Delete(&models.User{}, id).Error
	})
}

// exists reports whether any row of model matches the condition.
func exists(tx *gorm.DB, model interface{}, query string, args ...interface{}) (bool, error) {
	var count int64
	if err := tx.Model(model).Where(query, args...).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
