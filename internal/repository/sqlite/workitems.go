package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"kanban/internal/domain"
)

// workItemStore implements repository.WorkItemRepository
type workItemStore struct {
	db  *gorm.DB
	now func() time.Time
}

// Create inserts a work item in state New with its assignee and the
// catalogue tags matching the given names
func (s *workItemStore) Create(ctx context.Context, in domain.WorkItemCreate) (domain.Result, int, error) {
	result, id := domain.ResultCreated, domain.NoID

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := first[workItemModel](tx, "title = ?", in.Title)
		if err != nil {
			return fmt.Errorf("failed to query work item: %w", err)
		}
		if existing != nil {
			result, id = domain.ResultConflict, existing.ID
			return nil
		}

		if in.AssignedToID != nil {
			found, err := exists(tx, &userModel{}, "id = ?", *in.AssignedToID)
			if err != nil {
				return fmt.Errorf("failed to query assignee: %w", err)
			}
			if !found {
				result = domain.ResultBadRequest
				return nil
			}
		}

		tags, err := resolveTags(tx, in.Tags)
		if err != nil {
			return err
		}

		item := domain.NewWorkItem(in.Title, in.Description, s.now())
		item.Assign(in.AssignedToID)

		row := newWorkItemModel(item, tags)
		if err := tx.Omit("Tags.*").Create(&row).Error; err != nil {
			return fmt.Errorf("failed to create work item: %w", err)
		}
		id = row.ID
		return nil
	})
	if err != nil {
		return 0, domain.NoID, err
	}
	return result, id, nil
}

// Find returns the full view of a work item or domain.ErrNotFound
func (s *workItemStore) Find(ctx context.Context, id int) (*domain.WorkItemDetails, error) {
	var row workItemModel
	err := s.db.WithContext(ctx).
		Preload("AssignedTo").
		Preload("Tags").
		First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("work item %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query work item: %w", err)
	}

	details := toDetails(&row)
	return &details, nil
}

// Read returns all work items
func (s *workItemStore) Read(ctx context.Context) ([]domain.WorkItemSummary, error) {
	return s.list(ctx)
}

// ReadByState returns the work items in the given state
func (s *workItemStore) ReadByState(ctx context.Context, state domain.State) ([]domain.WorkItemSummary, error) {
	return s.list(ctx, inState(state))
}

// ReadByTag returns the work items carrying a tag with the given name
func (s *workItemStore) ReadByTag(ctx context.Context, tag string) ([]domain.WorkItemSummary, error) {
	return s.list(ctx, taggedWith(tag))
}

// ReadByUser returns the work items assigned to the user
func (s *workItemStore) ReadByUser(ctx context.Context, userID int) ([]domain.WorkItemSummary, error) {
	return s.list(ctx, assignedTo(userID))
}

// ReadRemoved returns the work items retired to StateRemoved
func (s *workItemStore) ReadRemoved(ctx context.Context) ([]domain.WorkItemSummary, error) {
	return s.list(ctx, inState(domain.StateRemoved))
}

func (s *workItemStore) list(ctx context.Context, scopes ...func(*gorm.DB) *gorm.DB) ([]domain.WorkItemSummary, error) {
	var rows []workItemModel
	err := s.db.WithContext(ctx).
		Scopes(scopes...).
		Preload("AssignedTo").
		Preload("Tags").
		Order("work_items.id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query work items: %w", err)
	}

	items := make([]domain.WorkItemSummary, 0, len(rows))
	for i := range rows {
		items = append(items, toSummary(&rows[i]))
	}
	return items, nil
}

func inState(state domain.State) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("work_items.state = ?", string(state))
	}
}

func assignedTo(userID int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("work_items.assigned_to_id = ?", userID)
	}
}

func taggedWith(name string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		tagged := db.Session(&gorm.Session{NewDB: true}).
			Table("work_item_tags").
			Select("work_item_tags.work_item_id").
			Joins("JOIN tags ON tags.id = work_item_tags.tag_id").
			Where("tags.name = ?", name)
		return db.Where("work_items.id IN (?)", tagged)
	}
}

// Update applies a WorkItemUpdate. Every check runs before the first write,
// so a rejected update leaves the item untouched.
func (s *workItemStore) Update(ctx context.Context, in domain.WorkItemUpdate) (domain.Result, error) {
	result := domain.ResultUpdated

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row workItemModel
		err := tx.Preload("Tags").First(&row, in.ID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			result = domain.ResultNotFound
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to query work item: %w", err)
		}

		taken, err := exists(tx, &workItemModel{}, "title = ? AND id <> ?", in.Title, in.ID)
		if err != nil {
			return fmt.Errorf("failed to check title: %w", err)
		}
		if taken {
			result = domain.ResultConflict
			return nil
		}

		if in.AssignedToID != nil {
			found, err := exists(tx, &userModel{}, "id = ?", *in.AssignedToID)
			if err != nil {
				return fmt.Errorf("failed to query assignee: %w", err)
			}
			if !found {
				result = domain.ResultBadRequest
				return nil
			}
		}

		if !in.State.Valid() {
			result = domain.ResultBadRequest
			return nil
		}

		item := toWorkItem(&row)
		item.Title = in.Title
		item.Assign(in.AssignedToID)
		if in.Description != nil {
			item.Description = *in.Description
		}
		item.SetState(in.State, s.now())

		if in.Tags != nil {
			if err := replaceTags(tx, &row, in.Tags); err != nil {
				return err
			}
		}

		if err := tx.Model(&workItemModel{ID: row.ID}).Updates(workItemColumns(item)).Error; err != nil {
			return fmt.Errorf("failed to update work item: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return result, nil
}

// replaceTags swaps the item's tag set for the catalogue tags matching names
func replaceTags(tx *gorm.DB, row *workItemModel, names []string) error {
	tags, err := resolveTags(tx, names)
	if err != nil {
		return err
	}

	assoc := tx.Model(row).Omit("Tags.*").Association("Tags")
	if len(tags) == 0 {
		err = assoc.Clear()
	} else {
		err = assoc.Replace(tags)
	}
	if err != nil {
		return fmt.Errorf("failed to replace tags: %w", err)
	}
	return nil
}

// Delete applies the lifecycle rules: New items are removed, Active items
// are retired to Removed, anything else is refused.
func (s *workItemStore) Delete(ctx context.Context, id int) (domain.Result, error) {
	var result domain.Result

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row workItemModel
		err := tx.Preload("Tags").First(&row, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			result = domain.ResultNotFound
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to query work item: %w", err)
		}

		item := toWorkItem(&row)
		switch item.State.DeleteOutcome() {
		case domain.DeleteHard:
			if err := tx.Model(&row).Association("Tags").Clear(); err != nil {
				return fmt.Errorf("failed to detach tags: %w", err)
			}
			if err := tx.Delete(&row).Error; err != nil {
				return fmt.Errorf("failed to delete work item: %w", err)
			}
			result = domain.ResultDeleted

		case domain.DeleteSoft:
			item.SetState(domain.StateRemoved, s.now())
			if err := tx.Model(&workItemModel{ID: row.ID}).Updates(workItemColumns(item)).Error; err != nil {
				return fmt.Errorf("failed to remove work item: %w", err)
			}
			result = domain.ResultUpdated

		case domain.DeleteRefused:
			result = domain.ResultConflict
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return result, nil
}
