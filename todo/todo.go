package todo

import (
	"context"
	"errors"
	"time"
)

// Type is how a default todo is answered.
type Type string

const (
	TypeCheckbox Type = "checkbox"
	TypeNumber   Type = "number"
	TypeText     Type = "text"
)

// Category groups personal todos by SWOT quadrant.
type Category string

const (
	CategoryStrength    Category = "strength"
	CategoryWeakness    Category = "weakness"
	CategoryOpportunity Category = "opportunity"
	CategoryThreat      Category = "threat"
)

// Categories lists every accepted category.
var Categories = []Category{CategoryStrength, CategoryWeakness, CategoryOpportunity, CategoryThreat}

// Types lists every accepted default todo type.
var Types = []Type{TypeCheckbox, TypeNumber, TypeText}

const (
	MaxNameLen  = 64
	MaxTitleLen = 255
)

// ErrNotFound is returned for todos that do not exist or belong to someone else.
var ErrNotFound = errors.New("todo not found")

// DefaultTodo is an entry of the shared catalog.
type DefaultTodo struct {
	ID              uint
	Name            string
	Type            Type
	Description     string
	ExtraFieldLabel string
	SortOrder       int
}

// PersonalTodo is owned by exactly one user.
type PersonalTodo struct {
	ID          uint
	OwnerID     uint
	Category    Category
	Title       string
	Description string
	Completed   bool
	CreatedAt   time.Time
}

// Repository persists todos. Every personal todo method is scoped to owner;
// a row of another owner is reported as ErrNotFound.
type Repository interface {
	ListDefaults(ctx context.Context) ([]DefaultTodo, error)
	// GetOrCreateDefault inserts d unless a default with the same name exists.
	GetOrCreateDefault(ctx context.Context, d DefaultTodo) (DefaultTodo, bool, error)

	ListPersonal(ctx context.Context, owner uint) ([]PersonalTodo, error)
	GetPersonal(ctx context.Context, owner, id uint) (PersonalTodo, error)
	CreatePersonal(ctx context.Context, t PersonalTodo) (PersonalTodo, error)
	UpdatePersonal(ctx context.Context, t PersonalTodo) (PersonalTodo, error)
	DeletePersonal(ctx context.Context, owner, id uint) error
}

func isCategory(c Category) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

func isType(t Type) bool {
	for _, v := range Types {
		if v == t {
			return true
		}
	}
	return false
}
