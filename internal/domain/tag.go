package domain

// Tag is a label attached to work items
type Tag struct {
	ID   int    `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// TagCreate holds the name of a new tag
type TagCreate struct {
	Name string `json:"name"`
}

// TagUpdate renames an existing tag
type TagUpdate struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
