package sqlite

import (
	"errors"
	"fmt"
	"slices"

	"gorm.io/gorm"

	"kanban/internal/domain"
)

// ============================================================================
// Lookup Helpers
// ============================================================================

// first loads the first row matching the condition.
// Returns nil without error when nothing matches.
func first[T any](tx *gorm.DB, query any, args ...any) (*T, error) {
	var row T
	err := tx.Where(query, args...).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// exists reports whether any row of model matches the condition
func exists(tx *gorm.DB, model any, query any, args ...any) (bool, error) {
	var n int64
	if err := tx.Model(model).Where(query, args...).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// resolveTags looks up catalogue tags by name. Unknown names are skipped.
func resolveTags(tx *gorm.DB, names []string) ([]tagModel, error) {
	tags := make([]tagModel, 0, len(names))
	if len(names) == 0 {
		return tags, nil
	}
	if err := tx.Where("name IN ?", names).Order("id").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve tags: %w", err)
	}
	return tags, nil
}

// ============================================================================
// Model Conversion Helpers
// ============================================================================

func toUser(m *userModel) domain.User {
	return domain.User{ID: m.ID, Name: m.Name, Email: m.Email}
}

func toTag(m *tagModel) domain.Tag {
	return domain.Tag{ID: m.ID, Name: m.Name}
}

// toWorkItem converts a row (with Tags loaded) to the domain entity
func toWorkItem(m *workItemModel) *domain.WorkItem {
	item := &domain.WorkItem{
		ID:           m.ID,
		Title:        m.Title,
		Description:  m.Description,
		Created:      m.Created,
		State:        domain.State(m.State),
		StateUpdated: m.StateUpdated,
	}
	item.Assign(m.AssignedToID)

	ids := make([]int, 0, len(m.Tags))
	for _, t := range m.Tags {
		ids = append(ids, t.ID)
	}
	item.SetTags(ids)
	return item
}

// newWorkItemModel builds a row for a new entity; tags are attached separately
func newWorkItemModel(item *domain.WorkItem, tags []tagModel) workItemModel {
	return workItemModel{
		Title:        item.Title,
		Description:  item.Description,
		Created:      item.Created,
		State:        string(item.State),
		StateUpdated: item.StateUpdated,
		AssignedToID: item.AssignedToID,
		Tags:         tags,
	}
}

// workItemColumns lists the scalar columns written on update.
// Created is only written on insert.
func workItemColumns(item *domain.WorkItem) map[string]any {
	return map[string]any{
		"title":          item.Title,
		"description":    item.Description,
		"state":          string(item.State),
		"state_updated":  item.StateUpdated,
		"assigned_to_id": item.AssignedToID,
	}
}

func toSummary(m *workItemModel) domain.WorkItemSummary {
	return domain.WorkItemSummary{
		ID:             m.ID,
		Title:          m.Title,
		AssignedToName: assigneeName(m),
		Tags:           tagNames(m.Tags),
		State:          domain.State(m.State),
	}
}

func toDetails(m *workItemModel) domain.WorkItemDetails {
	return domain.WorkItemDetails{
		ID:             m.ID,
		Title:          m.Title,
		Description:    m.Description,
		Created:        m.Created,
		AssignedToName: assigneeName(m),
		Tags:           tagNames(m.Tags),
		State:          domain.State(m.State),
		StateUpdated:   m.StateUpdated,
	}
}

func assigneeName(m *workItemModel) string {
	if m.AssignedTo == nil {
		return ""
	}
	return m.AssignedTo.Name
}

// tagNames returns sorted tag names, never nil
func tagNames(tags []tagModel) []string {
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	slices.Sort(names)
	return names
}
