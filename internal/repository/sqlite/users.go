package sqlite

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"kanban/internal/domain"
)

// userStore implements repository.UserRepository
type userStore struct {
	db *gorm.DB
}

// Create inserts a user unless the email is already taken
func (s *userStore) Create(ctx context.Context, in domain.UserCreate) (domain.Result, int, error) {
	result, id := domain.ResultCreated, domain.NoID

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := exists(tx, &userModel{}, "email = ?", in.Email)
		if err != nil {
			return fmt.Errorf("failed to check email: %w", err)
		}
		if taken {
			result = domain.ResultConflict
			return nil
		}

		row := userModel{Name: in.Name, Email: in.Email}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		id = row.ID
		return nil
	})
	if err != nil {
		return 0, domain.NoID, err
	}
	return result, id, nil
}

// Read returns all users ordered by id
func (s *userStore) Read(ctx context.Context) ([]domain.User, error) {
	var rows []userModel
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}

	users := make([]domain.User, 0, len(rows))
	for i := range rows {
		users = append(users, toUser(&rows[i]))
	}
	return users, nil
}

// Find returns a single user or domain.ErrNotFound
func (s *userStore) Find(ctx context.Context, id int) (*domain.User, error) {
	var row userModel
	err := s.db.WithContext(ctx).First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	user := toUser(&row)
	return &user, nil
}

// Update overwrites name and email. An email held by another user is a
// conflict even when the target user does not exist.
func (s *userStore) Update(ctx context.Context, in domain.UserUpdate) (domain.Result, error) {
	result := domain.ResultUpdated

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := exists(tx, &userModel{}, "email = ? AND id <> ?", in.Email, in.ID)
		if err != nil {
			return fmt.Errorf("failed to check email: %w", err)
		}
		if taken {
			result = domain.ResultConflict
			return nil
		}

		row, err := first[userModel](tx, "id = ?", in.ID)
		if err != nil {
			return fmt.Errorf("failed to query user: %w", err)
		}
		if row == nil {
			result = domain.ResultNotFound
			return nil
		}

		if err := tx.Model(row).Updates(map[string]any{
			"name":  in.Name,
			"email": in.Email,
		}).Error; err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return result, nil
}

// Delete removes a user. Users with assigned work items are only removed
// when force is set, in which case those items become unassigned.
func (s *userStore) Delete(ctx context.Context, id int, force bool) (domain.Result, error) {
	result := domain.ResultDeleted

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := first[userModel](tx, "id = ?", id)
		if err != nil {
			return fmt.Errorf("failed to query user: %w", err)
		}
		if row == nil {
			result = domain.ResultNotFound
			return nil
		}

		assigned, err := exists(tx, &workItemModel{}, "assigned_to_id = ?", id)
		if err != nil {
			return fmt.Errorf("failed to count assigned work items: %w", err)
		}
		if assigned && !force {
			result = domain.ResultConflict
			return nil
		}

		if assigned {
			if err := tx.Model(&workItemModel{}).
				Where("assigned_to_id = ?", id).
				Update("assigned_to_id", nil).Error; err != nil {
				return fmt.Errorf("failed to unassign work items: %w", err)
			}
		}

		if err := tx.Delete(row).Error; err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return result, nil
}
