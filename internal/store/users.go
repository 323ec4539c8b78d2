package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrEthical07/muhasabah"
	"gorm.io/gorm"
)

// UserRepository implements muhasabah.UserStore on gorm.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a UserRepository. db must be opened with
// TranslateError so unique violations surface as gorm.ErrDuplicatedKey.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

var _ muhasabah.UserStore = (*UserRepository)(nil)

func (r *UserRepository) FindByID(ctx context.Context, id uint) (muhasabah.UserRecord, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (muhasabah.UserRecord, error) {
	if username == "" {
		return muhasabah.UserRecord{}, muhasabah.ErrUserNotFound
	}
	return r.first(ctx, "username = ?", username)
}

func (r *UserRepository) FindByEmailFold(ctx context.Context, email string) (muhasabah.UserRecord, error) {
	if email == "" {
		return muhasabah.UserRecord{}, muhasabah.ErrUserNotFound
	}
	return r.first(ctx, "LOWER(email) = LOWER(?)", email)
}

func (r *UserRepository) first(ctx context.Context, query string, args ...interface{}) (muhasabah.UserRecord, error) {
	var u User
	err := r.db.WithContext(ctx).Where(query, args...).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return muhasabah.UserRecord{}, muhasabah.ErrUserNotFound
	}
	if err != nil {
		return muhasabah.UserRecord{}, fmt.Errorf("find user: %w", err)
	}
	return u.record(), nil
}

func (r *UserRepository) Create(ctx context.Context, in muhasabah.CreateUserInput) (muhasabah.UserRecord, error) {
	u := User{
		Email:        in.Email,
		Username:     nullable(in.Username),
		PasswordHash: in.PasswordHash,
		Role:         string(in.Role),
		Location:     in.Location,
		WhatsApp:     nullable(in.WhatsApp),
		IsActive:     in.IsActive,
		IsStaff:      in.IsStaff,
		IsSuperuser:  in.IsSuperuser,
	}

	if err := r.db.WithContext(ctx).Create(&u).Error; err != nil {
		return muhasabah.UserRecord{}, translate(err, "create user")
	}
	return u.record(), nil
}

func (r *UserRepository) SetPasswordHash(ctx context.Context, id uint, hash string) error {
	res := r.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Update("password_hash", hash)
	if res.Error != nil {
		return fmt.Errorf("set password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return muhasabah.ErrUserNotFound
	}
	return nil
}

// Delete removes the user's todos and the user in one transaction. The
// foreign key cascades as well; the explicit delete covers sqlite
// connections opened without foreign key enforcement.
func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("owner_id = ?", id).Delete(&PersonalTodo{}).Error; err != nil {
			return fmt.Errorf("delete todos: %w", err)
		}
		res := tx.Delete(&User{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete user: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return muhasabah.ErrUserNotFound
		}
		return nil
	})
}

func translate(err error, op string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return muhasabah.ErrAccountExists
	}
	return fmt.Errorf("%s: %w", op, err)
}
