package sqlite

import "time"

// userModel is the users table row
type userModel struct {
	ID    int    `gorm:"primaryKey"`
	Name  string `gorm:"not null"`
	Email string `gorm:"not null;uniqueIndex"`
}

func (userModel) TableName() string { return "users" }

// tagModel is the tags table row
type tagModel struct {
	ID        int             `gorm:"primaryKey"`
	Name      string          `gorm:"not null;uniqueIndex"`
	WorkItems []workItemModel `gorm:"many2many:work_item_tags;joinForeignKey:TagID;joinReferences:WorkItemID"`
}

func (tagModel) TableName() string { return "tags" }

// workItemModel is the work_items table row. Tags live in the
// work_item_tags join table; the assignee is a nullable foreign key.
type workItemModel struct {
	ID           int        `gorm:"primaryKey"`
	Title        string     `gorm:"not null;uniqueIndex"`
	Description  string     `gorm:"not null;default:''"`
	Created      time.Time  `gorm:"not null"`
	State        string     `gorm:"not null;index"`
	StateUpdated time.Time  `gorm:"not null"`
	AssignedToID *int       `gorm:"index"`
	AssignedTo   *userModel `gorm:"foreignKey:AssignedToID"`
	Tags         []tagModel `gorm:"many2many:work_item_tags;joinForeignKey:WorkItemID;joinReferences:TagID"`
}

func (workItemModel) TableName() string { return "work_items" }
