package todo

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/MrEthical07/muhasabah"
)

// PersonalInput carries the writable fields of a personal todo. Nil fields
// are absent from the request.
type PersonalInput struct {
	Category    *string
	Title       *string
	Description *string
	Completed   *bool
}

// Service applies ownership and validation rules on top of a Repository.
type Service struct {
	repo Repository
}

// NewService returns a Service over repo.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Defaults returns the catalog ordered by sort order.
func (s *Service) Defaults(ctx context.Context) ([]DefaultTodo, error) {
	return s.repo.ListDefaults(ctx)
}

// List returns owner's todos, incomplete first, then newest first.
func (s *Service) List(ctx context.Context, owner uint) ([]PersonalTodo, error) {
	return s.repo.ListPersonal(ctx, owner)
}

// Get returns one of owner's todos.
func (s *Service) Get(ctx context.Context, owner, id uint) (PersonalTodo, error) {
	return s.repo.GetPersonal(ctx, owner, id)
}

// Create validates in and stores a new todo for owner. Category and title are required.
func (s *Service) Create(ctx context.Context, owner uint, in PersonalInput) (PersonalTodo, error) {
	t := PersonalTodo{OwnerID: owner}
	if err := apply(&t, in, false); err != nil {
		return PersonalTodo{}, err
	}
	return s.repo.CreatePersonal(ctx, t)
}

// Update replaces (partial=false) or patches (partial=true) one of owner's
// todos. A replace requires category and title; omitted optional fields keep
// their stored values in both modes.
func (s *Service) Update(ctx context.Context, owner, id uint, in PersonalInput, partial bool) (PersonalTodo, error) {
	t, err := s.repo.GetPersonal(ctx, owner, id)
	if err != nil {
		return PersonalTodo{}, err
	}
	if err := apply(&t, in, partial); err != nil {
		return PersonalTodo{}, err
	}
	return s.repo.UpdatePersonal(ctx, t)
}

// Delete removes one of owner's todos.
func (s *Service) Delete(ctx context.Context, owner, id uint) error {
	return s.repo.DeletePersonal(ctx, owner, id)
}

// SeedDefaults get-or-creates every catalog entry by name, with the entry's
// index as its sort order. Existing entries are left untouched.
func (s *Service) SeedDefaults(ctx context.Context, catalog []DefaultTodo) (int, error) {
	created := 0
	for i, d := range catalog {
		if d.Type == "" {
			d.Type = TypeCheckbox
		}
		if !isType(d.Type) {
			return created, fmt.Errorf("catalog entry %q: unknown type %q", d.Name, d.Type)
		}
		if d.Name == "" || utf8.RuneCountInString(d.Name) > MaxNameLen {
			return created, fmt.Errorf("catalog entry %d: invalid name %q", i, d.Name)
		}
		d.SortOrder = i

		_, ok, err := s.repo.GetOrCreateDefault(ctx, d)
		if err != nil {
			return created, fmt.Errorf("seed %q: %w", d.Name, err)
		}
		if ok {
			created++
		}
	}
	return created, nil
}

// apply copies in onto t. Missing required fields are errors unless partial.
func apply(t *PersonalTodo, in PersonalInput, partial bool) error {
	errs := muhasabah.FieldErrors{}

	switch {
	case in.Category != nil:
		c := Category(strings.TrimSpace(*in.Category))
		if c == "" {
			errs.Add("category", "This field is required.")
		} else if !isCategory(c) {
			errs.Add("category", fmt.Sprintf("%q is not a valid choice.", *in.Category))
		} else {
			t.Category = c
		}
	case !partial:
		errs.Add("category", "This field is required.")
	}

	switch {
	case in.Title != nil:
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			errs.Add("title", "This field may not be blank.")
		} else if utf8.RuneCountInString(title) > MaxTitleLen {
			errs.Add("title", fmt.Sprintf("Ensure this field has no more than %d characters.", MaxTitleLen))
		} else {
			t.Title = title
		}
	case !partial:
		errs.Add("title", "This field is required.")
	}

	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Completed != nil {
		t.Completed = *in.Completed
	}

	return errs.Err()
}
