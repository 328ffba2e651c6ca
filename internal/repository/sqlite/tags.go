package sqlite

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"kanban/internal/domain"
)

// tagStore implements repository.TagRepository
type tagStore struct {
	db *gorm.DB
}

// Create inserts a tag, or reports the id of the tag already using the name
func (s *tagStore) Create(ctx context.Context, in domain.TagCreate) (domain.Result, int, error) {
	result, id := domain.ResultCreated, domain.NoID

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := first[tagModel](tx, "name = ?", in.Name)
		if err != nil {
			return fmt.Errorf("failed to query tag: %w", err)
		}
		if existing != nil {
			result, id = domain.ResultConflict, existing.ID
			return nil
		}

		row := tagModel{Name: in.Name}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("failed to create tag: %w", err)
		}
		id = row.ID
		return nil
	})
	if err != nil {
		return 0, domain.NoID, err
	}
	return result, id, nil
}

// Read returns all tags ordered by id
func (s *tagStore) Read(ctx context.Context) ([]domain.Tag, error) {
	var rows []tagModel
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}

	tags := make([]domain.Tag, 0, len(rows))
	for i := range rows {
		tags = append(tags, toTag(&rows[i]))
	}
	return tags, nil
}

// Find returns a single tag or domain.ErrNotFound
func (s *tagStore) Find(ctx context.Context, id int) (*domain.Tag, error) {
	var row tagModel
	err := s.db.WithContext(ctx).First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("tag %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query tag: %w", err)
	}

	tag := toTag(&row)
	return &tag, nil
}

// Update renames a tag
func (s *tagStore) Update(ctx context.Context, in domain.TagUpdate) (domain.Result, error) {
	result := domain.ResultUpdated

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := first[tagModel](tx, "id = ?", in.ID)
		if err != nil {
			return fmt.Errorf("failed to query tag: %w", err)
		}
		if row == nil {
			result = domain.ResultNotFound
			return nil
		}

		taken, err := exists(tx, &tagModel{}, "name = ? AND id <> ?", in.Name, in.ID)
		if err != nil {
			return fmt.Errorf("failed to check tag name: %w", err)
		}
		if taken {
			result = domain.ResultConflict
			return nil
		}

		if err := tx.Model(row).Update("name", in.Name).Error; err != nil {
			return fmt.Errorf("failed to update tag: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return result, nil
}

// Delete removes a tag. Tags attached to work items are only removed when
// force is set, in which case they are detached first.
func (s *tagStore) Delete(ctx context.Context, id int, force bool) (domain.Result, error) {
	result := domain.ResultDeleted

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := first[tagModel](tx, "id = ?", id)
		if err != nil {
			return fmt.Errorf("failed to query tag: %w", err)
		}
		if row == nil {
			result = domain.ResultNotFound
			return nil
		}

		items := tx.Model(row).Association("WorkItems")
		inUse := items.Count()
		if items.Error != nil {
			return fmt.Errorf("failed to count tagged work items: %w", items.Error)
		}
		if inUse > 0 && !force {
			result = domain.ResultConflict
			return nil
		}

		if inUse > 0 {
			if err := tx.Model(row).Association("WorkItems").Clear(); err != nil {
				return fmt.Errorf("failed to detach tag: %w", err)
			}
		}

		if err := tx.Delete(row).Error; err != nil {
			return fmt.Errorf("failed to delete tag: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return result, nil
}
