package muhasabah

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/MrEthical07/muhasabah/password"
)

const testPassword = "correct-password-123"

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.JWT.PrivateKey = []byte("0123456789abcdef0123456789abcdef")
	cfg.Password.Memory = 8 * 1024
	cfg.Password.Time = 1
	cfg.Password.Parallelism = 1
	return cfg
}

// memUserStore is an in-memory UserStore with the same uniqueness rules as
// the database: case-insensitive email, exact username.
type memUserStore struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]UserRecord

	findByIDCalls int
	setHashCalls  int
	// createGate, when set, is waited on inside Create after uniqueness was
	// checked, so tests can line up concurrent inserts.
	createGate chan struct{}
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: map[uint]UserRecord{}}
}

func (s *memUserStore) FindByID(_ context.Context, id uint) (UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.findByIDCalls++
	u, ok := s.users[id]
	if !ok {
		return UserRecord{}, ErrUserNotFound
	}
	return u, nil
}

func (s *memUserStore) FindByUsername(_ context.Context, username string) (UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return UserRecord{}, ErrUserNotFound
}

func (s *memUserStore) FindByEmailFold(_ context.Context, email string) (UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return UserRecord{}, ErrUserNotFound
}

func (s *memUserStore) Create(_ context.Context, in CreateUserInput) (UserRecord, error) {
	if s.createGate != nil {
		<-s.createGate
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, in.Email) || u.Username == in.Username {
			return UserRecord{}, ErrAccountExists
		}
	}
	s.nextID++
	u := UserRecord{
		ID:           s.nextID,
		Email:        in.Email,
		Username:     in.Username,
		PasswordHash: in.PasswordHash,
		Role:         in.Role,
		Location:     in.Location,
		WhatsApp:     in.WhatsApp,
		IsActive:     in.IsActive,
		IsStaff:      in.IsStaff,
		IsSuperuser:  in.IsSuperuser,
		DateJoined:   time.Now().UTC(),
	}
	s.users[u.ID] = u
	return u, nil
}

func (s *memUserStore) SetPasswordHash(_ context.Context, id uint, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setHashCalls++
	u, ok := s.users[id]
	if !ok {
		return ErrUserNotFound
	}
	u.PasswordHash = hash
	s.users[id] = u
	return nil
}

func (s *memUserStore) Delete(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *memUserStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

func (s *memUserStore) setActive(id uint, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.users[id]
	u.IsActive = active
	s.users[id] = u
}

func (s *memUserStore) get(id uint) UserRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[id]
}

func newTestEngine(t testing.TB, cfg Config, store UserStore) *Engine {
	t.Helper()
	engine, err := New().WithConfig(cfg).WithUserStore(store).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine
}

func validRegistration() RegisterRequest {
	return RegisterRequest{
		Email:    "alice@example.com",
		Username: "alice",
		Password: testPassword,
		Role:     string(RoleSittingMember),
		Location: "Lagos",
		WhatsApp: "+2348012345678",
	}
}

// seedUser registers alice and returns her record.
func seedUser(t testing.TB, engine *Engine) UserRecord {
	t.Helper()
	res, err := engine.Register(context.Background(), validRegistration())
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	return res.User
}

func newTestHasher(t testing.TB) *password.Argon2 {
	t.Helper()
	h, err := password.NewArgon2(password.Config{
		Memory:      8 * 1024,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	})
	if err != nil {
		t.Fatalf("NewArgon2 failed: %v", err)
	}
	return h
}
