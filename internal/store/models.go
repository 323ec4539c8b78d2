package store

import (
	"time"

	"github.com/MrEthical07/muhasabah"
	"github.com/MrEthical07/muhasabah/todo"
)

// User is the users table. Schema is owned by the SQL migrations; the tags
// describe the columns for gorm only.
type User struct {
	ID           uint      `gorm:"primaryKey"`
	Email        string    `gorm:"size:254;not null"`
	Username     *string   `gorm:"size:150"`
	PasswordHash string    `gorm:"size:255;not null"`
	Role         string    `gorm:"size:32;not null"`
	Location     string    `gorm:"size:32;not null"`
	WhatsApp     *string   `gorm:"column:whatsapp;size:14"`
	IsActive     bool      `gorm:"not null"` // no gorm default: false must reach the insert
	IsStaff      bool      `gorm:"not null"`
	IsSuperuser  bool      `gorm:"not null"`
	DateJoined   time.Time `gorm:"autoCreateTime"`

	PersonalTodos []PersonalTodo `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE;"`
}

func (User) TableName() string { return "users" }

// DefaultTodo is the default_todos table.
type DefaultTodo struct {
	ID              uint   `gorm:"primaryKey"`
	Name            string `gorm:"size:64;not null;uniqueIndex"`
	TodoType        string `gorm:"size:16;not null;default:'checkbox'"`
	Description     string `gorm:"not null;default:''"`
	ExtraFieldLabel string `gorm:"size:64;not null;default:''"`
	SortOrder       int    `gorm:"not null;default:0"`
}

func (DefaultTodo) TableName() string { return "default_todos" }

// PersonalTodo is the personal_todos table.
type PersonalTodo struct {
	ID          uint      `gorm:"primaryKey"`
	OwnerID     uint      `gorm:"not null;index"`
	Category    string    `gorm:"size:16;not null"`
	Title       string    `gorm:"size:255;not null"`
	Description string    `gorm:"not null;default:''"`
	Completed   bool      `gorm:"not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (PersonalTodo) TableName() string { return "personal_todos" }

func (u User) record() muhasabah.UserRecord {
	return muhasabah.UserRecord{
		ID:           u.ID,
		Email:        u.Email,
		Username:     deref(u.Username),
		PasswordHash: u.PasswordHash,
		Role:         muhasabah.Role(u.Role),
		Location:     u.Location,
		WhatsApp:     deref(u.WhatsApp),
		IsActive:     u.IsActive,
		IsStaff:      u.IsStaff,
		IsSuperuser:  u.IsSuperuser,
		DateJoined:   u.DateJoined,
	}
}

func (d DefaultTodo) domain() todo.DefaultTodo {
	return todo.DefaultTodo{
		ID:              d.ID,
		Name:            d.Name,
		Type:            todo.Type(d.TodoType),
		Description:     d.Description,
		ExtraFieldLabel: d.ExtraFieldLabel,
		SortOrder:       d.SortOrder,
	}
}

func (p PersonalTodo) domain() todo.PersonalTodo {
	return todo.PersonalTodo{
		ID:          p.ID,
		OwnerID:     p.OwnerID,
		Category:    todo.Category(p.Category),
		Title:       p.Title,
		Description: p.Description,
		Completed:   p.Completed,
		CreatedAt:   p.CreatedAt,
	}
}

// empty strings are stored as NULL so unique indexes ignore them
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
