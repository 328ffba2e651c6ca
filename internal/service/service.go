package service

import (
	"context"
	"log/slog"

	"kanban/internal/domain"
	"kanban/internal/repository"
)

// BoardService provides the board operations on top of a repository.Store
type BoardService struct {
	store    repository.Store
	eventBus *EventBus
	log      *slog.Logger
}

// NewBoardService creates a new board service. A nil logger uses slog.Default.
func NewBoardService(store repository.Store, eventBus *EventBus, log *slog.Logger) *BoardService {
	if log == nil {
		log = slog.Default()
	}
	return &BoardService{
		store:    store,
		eventBus: eventBus,
		log:      log.With("component", "board"),
	}
}

// record logs rejected operations and publishes events for successful ones
func (s *BoardService) record(ctx context.Context, entity, op string, id int, result domain.Result) {
	if !result.Succeeded() {
		s.log.InfoContext(ctx, "operation rejected",
			"entity", entity, "op", op, "id", id, "result", result.String())
		return
	}

	eventType, ok := eventFor(entity, result)
	if !ok || s.eventBus == nil {
		return
	}
	s.eventBus.Publish(Event{Type: eventType, Payload: EntityPayload{ID: id}})
}

// ============================================================================
// Users
// ============================================================================

// CreateUser creates a user
func (s *BoardService) CreateUser(ctx context.Context, in domain.UserCreate) (domain.Result, int, error) {
	result, id, err := s.store.Users().Create(ctx, in)
	if err != nil {
		return 0, domain.NoID, err
	}
	s.record(ctx, entityUser, "create", id, result)
	return result, id, nil
}

// ListUsers returns all users
func (s *BoardService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.store.Users().Read(ctx)
}

// GetUser retrieves a single user
func (s *BoardService) GetUser(ctx context.Context, id int) (*domain.User, error) {
	return s.store.Users().Find(ctx, id)
}

// UpdateUser changes a user's name and email
func (s *BoardService) UpdateUser(ctx context.Context, in domain.UserUpdate) (domain.Result, error) {
	result, err := s.store.Users().Update(ctx, in)
	if err != nil {
		return 0, err
	}
	s.record(ctx, entityUser, "update", in.ID, result)
	return result, nil
}

// DeleteUser removes a user, unassigning their work items when forced
func (s *BoardService) DeleteUser(ctx context.Context, id int, force bool) (domain.Result, error) {
	result, err := s.store.Users().Delete(ctx, id, force)
	if err != nil {
		return 0, err
	}
	s.record(ctx, entityUser, "delete", id, result)
	return result, nil
}

// ============================================================================
// Tags
// ============================================================================

// CreateTag creates a tag
func (s *BoardService) CreateTag(ctx context.Context, in domain.TagCreate) (domain.Result, int, error) {
	result, id, err := s.store.Tags().Create(ctx, in)
	if err != nil {
		return 0, domain.NoID, err
	}
	s.record(ctx, entityTag, "create", id, result)
	return result, id, nil
}

// ListTags returns all tags
func (s *BoardService) ListTags(ctx context.Context) ([]domain.Tag, error) {
	return s.store.Tags().Read(ctx)
}

// GetTag retrieves a single tag
func (s *BoardService) GetTag(ctx context.Context, id int) (*domain.Tag, error) {
	return s.store.Tags().Find(ctx, id)
}

// UpdateTag renames a tag
func (s *BoardService) UpdateTag(ctx context.Context, in domain.TagUpdate) (domain.Result, error) {
	result, err := s.store.Tags().Update(ctx, in)
	if err != nil {
		return 0, err
	}
	s.record(ctx, entityTag, "update", in.ID, result)
	return result, nil
}

// DeleteTag removes a tag, detaching it from work items when forced
func (s *BoardService) DeleteTag(ctx context.Context, id int, force bool) (domain.Result, error) {
	result, err := s.store.Tags().Delete(ctx, id, force)
	if err != nil {
		return 0, err
	}
	s.record(ctx, entityTag, "delete", id, result)
	return result, nil
}

// ============================================================================
// Work Items
// ============================================================================

// WorkItemFilter narrows a work item listing. At most one field is honoured,
// in the order Removed, State, Tag, UserID.
type WorkItemFilter struct {
	State   domain.State
	Tag     string
	UserID  *int
	Removed bool
}

// CreateWorkItem creates a work item in state New
func (s *BoardService) CreateWorkItem(ctx context.Context, in domain.WorkItemCreate) (domain.Result, int, error) {
	result, id, err := s.store.WorkItems().Create(ctx, in)
	if err != nil {
		return 0, domain.NoID, err
	}
	s.record(ctx, entityWorkItem, "create", id, result)
	return result, id, nil
}

// GetWorkItem retrieves the full view of a work item
func (s *BoardService) GetWorkItem(ctx context.Context, id int) (*domain.WorkItemDetails, error) {
	return s.store.WorkItems().Find(ctx, id)
}

// ListWorkItems returns work item summaries matching the filter
func (s *BoardService) ListWorkItems(ctx context.Context, filter WorkItemFilter) ([]domain.WorkItemSummary, error) {
	items := s.store.WorkItems()
	switch {
	case filter.Removed:
		return items.ReadRemoved(ctx)
	case filter.State != "":
		return items.ReadByState(ctx, filter.State)
	case filter.Tag != "":
		return items.ReadByTag(ctx, filter.Tag)
	case filter.UserID != nil:
		return items.ReadByUser(ctx, *filter.UserID)
	default:
		return items.Read(ctx)
	}
}

// UpdateWorkItem applies changes to a work item
func (s *BoardService) UpdateWorkItem(ctx context.Context, in domain.WorkItemUpdate) (domain.Result, error) {
	result, err := s.store.WorkItems().Update(ctx, in)
	if err != nil {
		return 0, err
	}
	s.record(ctx, entityWorkItem, "update", in.ID, result)
	return result, nil
}

// DeleteWorkItem deletes or retires a work item according to its state
func (s *BoardService) DeleteWorkItem(ctx context.Context, id int) (domain.Result, error) {
	result, err := s.store.WorkItems().Delete(ctx, id)
	if err != nil {
		return 0, err
	}
	s.record(ctx, entityWorkItem, "delete", id, result)
	return result, nil
}
