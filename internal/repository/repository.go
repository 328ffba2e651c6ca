package repository

import (
	"context"

	"kanban/internal/domain"
)

// UserRepository defines data access for users
type UserRepository interface {
	Create(ctx context.Context, user domain.UserCreate) (domain.Result, int, error)
	Read(ctx context.Context) ([]domain.User, error)
	Find(ctx context.Context, id int) (*domain.User, error)
	Update(ctx context.Context, user domain.UserUpdate) (domain.Result, error)
	Delete(ctx context.Context, id int, force bool) (domain.Result, error)
}

// TagRepository defines data access for tags
type TagRepository interface {
	Create(ctx context.Context, tag domain.TagCreate) (domain.Result, int, error)
	Read(ctx context.Context) ([]domain.Tag, error)
	Find(ctx context.Context, id int) (*domain.Tag, error)
	Update(ctx context.Context, tag domain.TagUpdate) (domain.Result, error)
	Delete(ctx context.Context, id int, force bool) (domain.Result, error)
}

// WorkItemRepository defines data access for work items
type WorkItemRepository interface {
	Create(ctx context.Context, item domain.WorkItemCreate) (domain.Result, int, error)
	Find(ctx context.Context, id int) (*domain.WorkItemDetails, error)

	// Read operations
	Read(ctx context.Context) ([]domain.WorkItemSummary, error)
	ReadByState(ctx context.Context, state domain.State) ([]domain.WorkItemSummary, error)
	ReadByTag(ctx context.Context, tag string) ([]domain.WorkItemSummary, error)
	ReadByUser(ctx context.Context, userID int) ([]domain.WorkItemSummary, error)
	ReadRemoved(ctx context.Context) ([]domain.WorkItemSummary, error)

	Update(ctx context.Context, item domain.WorkItemUpdate) (domain.Result, error)
	Delete(ctx context.Context, id int) (domain.Result, error)
}

// Store groups the repositories sharing one persistence context
type Store interface {
	Users() UserRepository
	Tags() TagRepository
	WorkItems() WorkItemRepository

	// Close releases resources
	Close() error
}
