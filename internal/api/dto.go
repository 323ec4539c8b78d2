package api

import (
	"time"

	"github.com/MrEthical07/muhasabah"
	"github.com/MrEthical07/muhasabah/todo"
)

type userJSON struct {
	ID         uint      `json:"id"`
	Email      string    `json:"email"`
	Username   *string   `json:"username"`
	Role       string    `json:"role"`
	Location   string    `json:"location"`
	WhatsApp   *string   `json:"whatsapp"`
	DateJoined time.Time `json:"date_joined"`
}

func toUserJSON(u muhasabah.UserRecord) userJSON {
	return userJSON{
		ID:         u.ID,
		Email:      u.Email,
		Username:   nullString(u.Username),
		Role:       string(u.Role),
		Location:   u.Location,
		WhatsApp:   nullString(u.WhatsApp),
		DateJoined: u.DateJoined,
	}
}

type tokensJSON struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

type authResponse struct {
	User   userJSON   `json:"user"`
	Tokens tokensJSON `json:"tokens"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Location string `json:"location"`
	WhatsApp string `json:"whatsapp"`
}

// loginRequest accepts identifier, or username / email as fallbacks.
type loginRequest struct {
	Identifier string `json:"identifier"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
}

func (r loginRequest) identifier() string {
	switch {
	case r.Identifier != "":
		return r.Identifier
	case r.Username != "":
		return r.Username
	default:
		return r.Email
	}
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type defaultTodoJSON struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	TodoType        string `json:"todo_type"`
	Description     string `json:"description"`
	ExtraFieldLabel string `json:"extra_field_label"`
}

func toDefaultTodoJSON(d todo.DefaultTodo) defaultTodoJSON {
	return defaultTodoJSON{
		ID:              d.ID,
		Name:            d.Name,
		TodoType:        string(d.Type),
		Description:     d.Description,
		ExtraFieldLabel: d.ExtraFieldLabel,
	}
}

type personalTodoJSON struct {
	ID          uint      `json:"id"`
	Category    string    `json:"category"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
}

func toPersonalTodoJSON(t todo.PersonalTodo) personalTodoJSON {
	return personalTodoJSON{
		ID:          t.ID,
		Category:    string(t.Category),
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
	}
}

// personalTodoRequest keeps absent fields nil; id and created_at are ignored.
type personalTodoRequest struct {
	Category    *string `json:"category"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

func (r personalTodoRequest) input() todo.PersonalInput {
	return todo.PersonalInput{
		Category:    r.Category,
		Title:       r.Title,
		Description: r.Description,
		Completed:   r.Completed,
	}
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
