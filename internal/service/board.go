package service

import (
	"context"
	"fmt"

	"kanban/internal/codec"
	"kanban/internal/domain"
)

// ImportReport summarises an ImportBoard run
type ImportReport struct {
	UsersCreated     int      `json:"users_created" yaml:"users_created"`
	UsersSkipped     int      `json:"users_skipped" yaml:"users_skipped"`
	TagsCreated      int      `json:"tags_created" yaml:"tags_created"`
	TagsSkipped      int      `json:"tags_skipped" yaml:"tags_skipped"`
	WorkItemsCreated int      `json:"work_items_created" yaml:"work_items_created"`
	WorkItemsSkipped int      `json:"work_items_skipped" yaml:"work_items_skipped"`
	Rejected         []string `json:"rejected,omitempty" yaml:"rejected,omitempty"`
}

// ImportBoard loads a snapshot into the store. Records that already exist
// (same email, tag name or title) are skipped and left untouched. Work items
// are created in state New and then moved to their snapshot state.
func (s *BoardService) ImportBoard(ctx context.Context, board *codec.Board) (ImportReport, error) {
	var report ImportReport

	for _, u := range board.Users {
		result, _, err := s.CreateUser(ctx, domain.UserCreate{Name: u.Name, Email: u.Email})
		if err != nil {
			return report, fmt.Errorf("import user %q: %w", u.Email, err)
		}
		if result == domain.ResultCreated {
			report.UsersCreated++
		} else {
			report.UsersSkipped++
		}
	}

	for _, name := range board.Tags {
		result, _, err := s.CreateTag(ctx, domain.TagCreate{Name: name})
		if err != nil {
			return report, fmt.Errorf("import tag %q: %w", name, err)
		}
		if result == domain.ResultCreated {
			report.TagsCreated++
		} else {
			report.TagsSkipped++
		}
	}

	userIDs, err := s.userIDsByEmail(ctx)
	if err != nil {
		return report, err
	}

	for _, item := range board.WorkItems {
		var assignee *int
		if item.Assignee != "" {
			id, ok := userIDs[item.Assignee]
			if !ok {
				report.Rejected = append(report.Rejected,
					fmt.Sprintf("work item %q: unknown assignee %q", item.Title, item.Assignee))
				continue
			}
			assignee = &id
		}

		result, id, err := s.CreateWorkItem(ctx, domain.WorkItemCreate{
			Title:        item.Title,
			Description:  item.Description,
			AssignedToID: assignee,
			Tags:         item.Tags,
		})
		if err != nil {
			return report, fmt.Errorf("import work item %q: %w", item.Title, err)
		}
		if result != domain.ResultCreated {
			report.WorkItemsSkipped++
			continue
		}
		report.WorkItemsCreated++

		if item.State == "" || item.State == domain.StateNew {
			continue
		}
		result, err = s.UpdateWorkItem(ctx, domain.WorkItemUpdate{ID: id, Title: item.Title, State: item.State})
		if err != nil {
			return report, fmt.Errorf("import work item %q: %w", item.Title, err)
		}
		if result != domain.ResultUpdated {
			report.Rejected = append(report.Rejected,
				fmt.Sprintf("work item %q: state %s: %s", item.Title, item.State, result))
		}
	}

	s.log.InfoContext(ctx, "board imported",
		"users", report.UsersCreated, "tags", report.TagsCreated,
		"work_items", report.WorkItemsCreated, "rejected", len(report.Rejected))
	if s.eventBus != nil {
		s.eventBus.Publish(Event{Type: EventBoardImported, Payload: report})
	}

	return report, nil
}

// ExportBoard snapshots every user, tag and work item in id order
func (s *BoardService) ExportBoard(ctx context.Context) (*codec.Board, error) {
	users, err := s.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	tags, err := s.ListTags(ctx)
	if err != nil {
		return nil, err
	}

	board := &codec.Board{
		Users:     make([]codec.BoardUser, 0, len(users)),
		Tags:      make([]string, 0, len(tags)),
		WorkItems: []codec.BoardWorkItem{},
	}

	// Summaries only carry the assignee's name, so map items to emails
	assignees := make(map[int]string)
	for _, u := range users {
		board.Users = append(board.Users, codec.BoardUser{Name: u.Name, Email: u.Email})

		owned, err := s.store.WorkItems().ReadByUser(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		for _, item := range owned {
			assignees[item.ID] = u.Email
		}
	}
	for _, t := range tags {
		board.Tags = append(board.Tags, t.Name)
	}

	items, err := s.ListWorkItems(ctx, WorkItemFilter{})
	if err != nil {
		return nil, err
	}
	for _, summary := range items {
		details, err := s.GetWorkItem(ctx, summary.ID)
		if err != nil {
			return nil, err
		}
		created := details.Created
		board.WorkItems = append(board.WorkItems, codec.BoardWorkItem{
			Title:       details.Title,
			Description: details.Description,
			State:       details.State,
			Assignee:    assignees[details.ID],
			Tags:        details.Tags,
			Created:     &created,
		})
	}

	return board, nil
}

func (s *BoardService) userIDsByEmail(ctx context.Context) (map[string]int, error) {
	users, err := s.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]int, len(users))
	for _, u := range users {
		ids[u.Email] = u.ID
	}
	return ids, nil
}
