package domain

// User is a person work items can be assigned to
type User struct {
	ID    int    `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
}

// UserCreate holds the fields of a new user
type UserCreate struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserUpdate replaces the name and email of an existing user
type UserUpdate struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
