package store

import (
	"context"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/MrEthical07/muhasabah"
	"github.com/MrEthical07/muhasabah/internal/database"
	"github.com/MrEthical07/muhasabah/todo"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(database.DriverSQLite, filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	log, _ := logrustest.NewNullLogger()
	require.NoError(t, database.RunMigrations(db, database.DriverSQLite, log))
	return db
}

func newUser(email, username string) muhasabah.CreateUserInput {
	return muhasabah.CreateUserInput{
		Email:        email,
		Username:     username,
		PasswordHash: "$argon2id$v=19$m=8192,t=1,p=1$c2FsdA$aGFzaA",
		Role:         muhasabah.RoleSittingMember,
		Location:     "Lagos",
		IsActive:     true,
	}
}

func TestUserRepositoryCreateAndFind(t *testing.T) {
	ctx := context.Background()
	users := NewUserRepository(openTestDB(t))

	in := newUser("Alice@example.com", "alice")
	in.WhatsApp = "+2348012345678"
	created, err := users.Create(ctx, in)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.False(t, created.DateJoined.IsZero())

	byEmail, err := users.FindByEmailFold(ctx, "ALICE@EXAMPLE.COM")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)
	assert.Equal(t, "+2348012345678", byEmail.WhatsApp)

	byName, err := users.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	_, err = users.FindByUsername(ctx, "bob")
	assert.ErrorIs(t, err, muhasabah.ErrUserNotFound)
	_, err = users.FindByID(ctx, created.ID+100)
	assert.ErrorIs(t, err, muhasabah.ErrUserNotFound)
}

func TestUserRepositoryUniqueness(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	users := NewUserRepository(db)

	_, err := users.Create(ctx, newUser("alice@example.com", "alice"))
	require.NoError(t, err)

	_, err = users.Create(ctx, newUser("ALICE@example.com", "alice2"))
	assert.ErrorIs(t, err, muhasabah.ErrAccountExists)

	_, err = users.Create(ctx, newUser("other@example.com", "alice"))
	assert.ErrorIs(t, err, muhasabah.ErrAccountExists)

	var count int64
	require.NoError(t, db.Model(&User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// usernames are optional; several empty ones must coexist
	_, err = users.Create(ctx, newUser("x@example.com", ""))
	require.NoError(t, err)
	_, err = users.Create(ctx, newUser("y@example.com", ""))
	require.NoError(t, err)
}

func TestUserRepositoryPersistsInactive(t *testing.T) {
	ctx := context.Background()
	users := NewUserRepository(openTestDB(t))

	in := newUser("off@example.com", "off")
	in.IsActive = false
	created, err := users.Create(ctx, in)
	require.NoError(t, err)

	got, err := users.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestUserRepositorySetPasswordHash(t *testing.T) {
	ctx := context.Background()
	users := NewUserRepository(openTestDB(t))

	created, err := users.Create(ctx, newUser("alice@example.com", "alice"))
	require.NoError(t, err)

	require.NoError(t, users.SetPasswordHash(ctx, created.ID, "!unusable"))
	got, err := users.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "!unusable", got.PasswordHash)

	assert.ErrorIs(t, users.SetPasswordHash(ctx, created.ID+1, "x"), muhasabah.ErrUserNotFound)
}

func TestUserDeleteCascadesTodos(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	users := NewUserRepository(db)
	todos := NewTodoRepository(db)

	alice, err := users.Create(ctx, newUser("alice@example.com", "alice"))
	require.NoError(t, err)
	bob, err := users.Create(ctx, newUser("bob@example.com", "bob"))
	require.NoError(t, err)

	for _, owner := range []uint{alice.ID, alice.ID, bob.ID} {
		_, err := todos.CreatePersonal(ctx, todo.PersonalTodo{OwnerID: owner, Category: todo.CategoryStrength, Title: "t"})
		require.NoError(t, err)
	}

	require.NoError(t, users.Delete(ctx, alice.ID))
	assert.ErrorIs(t, users.Delete(ctx, alice.ID), muhasabah.ErrUserNotFound)

	var remaining []PersonalTodo
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, bob.ID, remaining[0].OwnerID)
}

func TestForeignKeyCascadeOnRawDelete(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	users := NewUserRepository(db)
	todos := NewTodoRepository(db)

	alice, err := users.Create(ctx, newUser("alice@example.com", "alice"))
	require.NoError(t, err)
	_, err = todos.CreatePersonal(ctx, todo.PersonalTodo{OwnerID: alice.ID, Category: todo.CategoryThreat, Title: "t"})
	require.NoError(t, err)

	require.NoError(t, db.Exec("DELETE FROM users WHERE id = ?", alice.ID).Error)

	var count int64
	require.NoError(t, db.Model(&PersonalTodo{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestTodoRepositoryOwnershipAndOrder(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	users := NewUserRepository(db)
	todos := NewTodoRepository(db)

	alice, err := users.Create(ctx, newUser("alice@example.com", "alice"))
	require.NoError(t, err)
	bob, err := users.Create(ctx, newUser("bob@example.com", "bob"))
	require.NoError(t, err)

	first, err := todos.CreatePersonal(ctx, todo.PersonalTodo{OwnerID: alice.ID, Category: todo.CategoryStrength, Title: "first"})
	require.NoError(t, err)
	second, err := todos.CreatePersonal(ctx, todo.PersonalTodo{OwnerID: alice.ID, Category: todo.CategoryWeakness, Title: "second"})
	require.NoError(t, err)
	done, err := todos.CreatePersonal(ctx, todo.PersonalTodo{OwnerID: alice.ID, Category: todo.CategoryThreat, Title: "done", Completed: true})
	require.NoError(t, err)

	list, err := todos.ListPersonal(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []uint{second.ID, first.ID, done.ID}, []uint{list[0].ID, list[1].ID, list[2].ID})

	_, err = todos.GetPersonal(ctx, bob.ID, first.ID)
	assert.ErrorIs(t, err, todo.ErrNotFound)

	hijack := first
	hijack.OwnerID = bob.ID
	hijack.Title = "mine now"
	_, err = todos.UpdatePersonal(ctx, hijack)
	assert.ErrorIs(t, err, todo.ErrNotFound)

	assert.ErrorIs(t, todos.DeletePersonal(ctx, bob.ID, first.ID), todo.ErrNotFound)

	first.Completed = true
	first.Description = "updated"
	updated, err := todos.UpdatePersonal(ctx, first)
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Equal(t, "updated", updated.Description)
	assert.Equal(t, "first", updated.Title)

	require.NoError(t, todos.DeletePersonal(ctx, alice.ID, first.ID))
	_, err = todos.GetPersonal(ctx, alice.ID, first.ID)
	assert.ErrorIs(t, err, todo.ErrNotFound)
}

func TestSeedDefaultTodosTwice(t *testing.T) {
	ctx := context.Background()
	svc := todo.NewService(NewTodoRepository(openTestDB(t)))

	n, err := svc.SeedDefaults(ctx, todo.DefaultCatalog())
	require.NoError(t, err)
	assert.Equal(t, 10, n)

	n, err = svc.SeedDefaults(ctx, todo.DefaultCatalog())
	require.NoError(t, err)
	assert.Zero(t, n)

	defaults, err := svc.Defaults(ctx)
	require.NoError(t, err)
	require.Len(t, defaults, 10)
	assert.Equal(t, "Subhi in Jama", defaults[0].Name)
	assert.Equal(t, todo.TypeNumber, defaults[7].Type)
	assert.Equal(t, "How many prayed", defaults[7].ExtraFieldLabel)
}

func TestPostgresUniqueViolationTranslates(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 logger.Discard,
		TranslateError:         true,
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "users"`)).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_lower_key"})

	_, err = NewUserRepository(db).Create(context.Background(), newUser("alice@example.com", "alice"))
	assert.ErrorIs(t, err, muhasabah.ErrAccountExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
