package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrEthical07/muhasabah/todo"
	"gorm.io/gorm"
)

const personalOrder = "completed ASC, created_at DESC, id DESC"

// TodoRepository implements todo.Repository on gorm.
type TodoRepository struct {
	db *gorm.DB
}

func NewTodoRepository(db *gorm.DB) *TodoRepository {
	return &TodoRepository{db: db}
}

var _ todo.Repository = (*TodoRepository)(nil)

func (r *TodoRepository) ListDefaults(ctx context.Context) ([]todo.DefaultTodo, error) {
	var rows []DefaultTodo
	if err := r.db.WithContext(ctx).Order("sort_order ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list default todos: %w", err)
	}
	out := make([]todo.DefaultTodo, 0, len(rows))
	for _, d := range rows {
		out = append(out, d.domain())
	}
	return out, nil
}

func (r *TodoRepository) GetOrCreateDefault(ctx context.Context, d todo.DefaultTodo) (todo.DefaultTodo, bool, error) {
	row := DefaultTodo{
		Name:            d.Name,
		TodoType:        string(d.Type),
		Description:     d.Description,
		ExtraFieldLabel: d.ExtraFieldLabel,
		SortOrder:       d.SortOrder,
	}
	res := r.db.WithContext(ctx).Where(DefaultTodo{Name: d.Name}).Attrs(row).FirstOrCreate(&row)
	if res.Error != nil {
		return todo.DefaultTodo{}, false, fmt.Errorf("get or create default todo: %w", res.Error)
	}
	// FirstOrCreate reports one affected row only when it inserted
	return row.domain(), res.RowsAffected > 0, nil
}

func (r *TodoRepository) ListPersonal(ctx context.Context, owner uint) ([]todo.PersonalTodo, error) {
	var rows []PersonalTodo
	err := r.db.WithContext(ctx).Where("owner_id = ?", owner).Order(personalOrder).Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list personal todos: %w", err)
	}
	out := make([]todo.PersonalTodo, 0, len(rows))
	for _, p := range rows {
		out = append(out, p.domain())
	}
	return out, nil
}

func (r *TodoRepository) GetPersonal(ctx context.Context, owner, id uint) (todo.PersonalTodo, error) {
	var p PersonalTodo
	err := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, owner).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return todo.PersonalTodo{}, todo.ErrNotFound
	}
	if err != nil {
		return todo.PersonalTodo{}, fmt.Errorf("get personal todo: %w", err)
	}
	return p.domain(), nil
}

func (r *TodoRepository) CreatePersonal(ctx context.Context, t todo.PersonalTodo) (todo.PersonalTodo, error) {
	p := PersonalTodo{
		OwnerID:     t.OwnerID,
		Category:    string(t.Category),
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
	}
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return todo.PersonalTodo{}, fmt.Errorf("create personal todo: %w", err)
	}
	return p.domain(), nil
}

func (r *TodoRepository) UpdatePersonal(ctx context.Context, t todo.PersonalTodo) (todo.PersonalTodo, error) {
	res := r.db.WithContext(ctx).Model(&PersonalTodo{}).
		Where("id = ? AND owner_id = ?", t.ID, t.OwnerID).
		Updates(map[string]interface{}{
			"category":    string(t.Category),
			"title":       t.Title,
			"description": t.Description,
			"completed":   t.Completed,
		})
	if res.Error != nil {
		return todo.PersonalTodo{}, fmt.Errorf("update personal todo: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return todo.PersonalTodo{}, todo.ErrNotFound
	}
	return r.GetPersonal(ctx, t.OwnerID, t.ID)
}

func (r *TodoRepository) DeletePersonal(ctx context.Context, owner, id uint) error {
	res := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, owner).Delete(&PersonalTodo{})
	if res.Error != nil {
		return fmt.Errorf("delete personal todo: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return todo.ErrNotFound
	}
	return nil
}
