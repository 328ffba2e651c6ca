package domain

import (
	"slices"
	"time"
)

// WorkItem is a card on the board
type WorkItem struct {
	ID           int       `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Created      time.Time `json:"created"`
	State        State     `json:"state"`
	StateUpdated time.Time `json:"state_updated"`
	AssignedToID *int      `json:"assigned_to_id,omitempty"`
	TagIDs       []int     `json:"tag_ids,omitempty"`
}

// NewWorkItem creates a work item in StateNew, stamped with now
func NewWorkItem(title, description string, now time.Time) *WorkItem {
	item := &WorkItem{
		Title:       title,
		Description: description,
		Created:     now,
	}
	item.SetState(StateNew, now)
	return item
}

// SetState assigns the lifecycle state and records when it happened
func (w *WorkItem) SetState(state State, now time.Time) {
	w.State = state
	w.StateUpdated = now
}

// Assign sets the assignee. A nil id leaves the current assignee in place.
func (w *WorkItem) Assign(userID *int) {
	if userID == nil {
		return
	}
	id := *userID
	w.AssignedToID = &id
}

// SetTags replaces the tag set, dropping duplicate ids
func (w *WorkItem) SetTags(ids []int) {
	set := make([]int, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(set, id) {
			set = append(set, id)
		}
	}
	slices.Sort(set)
	w.TagIDs = set
}

// HasTag reports whether the tag id is in the item's tag set
func (w *WorkItem) HasTag(id int) bool {
	return slices.Contains(w.TagIDs, id)
}

// WorkItemCreate holds the fields of a new work item
type WorkItemCreate struct {
	Title        string   `json:"title"`
	AssignedToID *int     `json:"assigned_to_id,omitempty"`
	Description  string   `json:"description,omitempty"`
	Tags         []string `json:"tags,omitempty"`
}

// WorkItemUpdate describes changes to an existing work item.
//
// Title and State are always written. A nil AssignedToID or Description
// leaves the stored value alone. A nil Tags leaves the tag set alone, while
// an empty non-nil slice clears it.
type WorkItemUpdate struct {
	ID           int      `json:"id"`
	Title        string   `json:"title"`
	AssignedToID *int     `json:"assigned_to_id,omitempty"`
	Description  *string  `json:"description,omitempty"`
	Tags         []string `json:"tags"`
	State        State    `json:"state"`
}

// WorkItemSummary is the list view of a work item
type WorkItemSummary struct {
	ID             int      `json:"id"`
	Title          string   `json:"title"`
	AssignedToName string   `json:"assigned_to_name,omitempty"`
	Tags           []string `json:"tags"`
	State          State    `json:"state"`
}

// WorkItemDetails is the full view of a single work item
type WorkItemDetails struct {
	ID             int       `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	Created        time.Time `json:"created"`
	AssignedToName string    `json:"assigned_to_name,omitempty"`
	Tags           []string  `json:"tags"`
	State          State     `json:"state"`
	StateUpdated   time.Time `json:"state_updated"`
}
