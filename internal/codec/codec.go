// Package codec reads and writes board snapshots.
//
// A Board is portable: users are referenced by email and tags by name, so
// a snapshot taken from one database can be loaded into another without
// any id mapping.
package codec

import (
	"fmt"
	"io"
	"strings"
	"time"

	"kanban/internal/domain"
)

// Board is a snapshot of every user, tag and work item
type Board struct {
	Users     []BoardUser     `yaml:"users" json:"users"`
	Tags      []string        `yaml:"tags" json:"tags"`
	WorkItems []BoardWorkItem `yaml:"work_items" json:"work_items"`
}

// BoardUser is a user as it appears in a snapshot
type BoardUser struct {
	Name  string `yaml:"name" json:"name"`
	Email string `yaml:"email" json:"email"`
}

// BoardWorkItem is a work item as it appears in a snapshot
type BoardWorkItem struct {
	Title       string       `yaml:"title" json:"title"`
	Description string       `yaml:"description,omitempty" json:"description,omitempty"`
	State       domain.State `yaml:"state" json:"state"`
	Assignee    string       `yaml:"assignee,omitempty" json:"assignee,omitempty"` // user email
	Tags        []string     `yaml:"tags,omitempty" json:"tags,omitempty"`
	Created     *time.Time   `yaml:"created,omitempty" json:"created,omitempty"`
}

// Validate checks that every record carries its identifying field and
// that work item states are known. A missing state is read as New.
func (b *Board) Validate() error {
	for i, u := range b.Users {
		if strings.TrimSpace(u.Email) == "" {
			return fmt.Errorf("user %d: email is required", i)
		}
	}
	for i, name := range b.Tags {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("tag %d: name is required", i)
		}
	}
	for i := range b.WorkItems {
		item := &b.WorkItems[i]
		if strings.TrimSpace(item.Title) == "" {
			return fmt.Errorf("work item %d: title is required", i)
		}
		if item.State == "" {
			item.State = domain.StateNew
			continue
		}
		state, err := domain.ParseState(string(item.State))
		if err != nil {
			return fmt.Errorf("work item %q: %w", item.Title, err)
		}
		item.State = state
	}
	return nil
}

// Importer interface for reading boards from various formats
type Importer interface {
	Parse(r io.Reader) (*Board, error)
	Format() string
}

// Exporter interface for writing boards to various formats
type Exporter interface {
	Export(board *Board, w io.Writer) error
	Format() string
}

// Codec both reads and writes one format
type Codec interface {
	Importer
	Exporter
}

// Formats lists the supported format names
func Formats() []string {
	return []string{"yaml", "json"}
}

// ForFormat returns the codec for a format name. "yml" is accepted for YAML.
func ForFormat(name string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	case "json":
		return NewJSONCodec(), nil
	default:
		return nil, fmt.Errorf("unsupported format %q (want one of %s)", name, strings.Join(Formats(), ", "))
	}
}
