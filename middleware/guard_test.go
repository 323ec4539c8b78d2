package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrEthical07/muhasabah"
	"github.com/MrEthical07/muhasabah/internal/database"
	"github.com/MrEthical07/muhasabah/internal/store"
	"github.com/MrEthical07/muhasabah/middleware"
)

func init() { gin.SetMode(gin.TestMode) }

func newEngine(t *testing.T) (*muhasabah.Engine, *store.UserRepository) {
	t.Helper()
	db, err := database.Open(database.DriverSQLite, filepath.Join(t.TempDir(), "guard.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	log, _ := logrustest.NewNullLogger()
	require.NoError(t, database.RunMigrations(db, database.DriverSQLite, log))

	cfg := muhasabah.DefaultConfig()
	cfg.JWT.PrivateKey = []byte("0123456789abcdef0123456789abcdef")
	cfg.Password.Memory = 8 * 1024
	cfg.Password.Time = 1
	cfg.Password.Parallelism = 1

	users := store.NewUserRepository(db)
	engine, err := muhasabah.New().WithConfig(cfg).WithUserStore(users).WithLogger(log).Build()
	require.NoError(t, err)
	t.Cleanup(engine.Close)
	return engine, users
}

func register(t *testing.T, engine *muhasabah.Engine) *muhasabah.LoginResult {
	t.Helper()
	res, err := engine.Register(context.Background(), muhasabah.RegisterRequest{
		Email:    "alice@example.com",
		Username: "alice",
		Password: "correct-password-123",
		Role:     "sitting-member",
		Location: "Lagos",
		WhatsApp: "+2348012345678",
	})
	require.NoError(t, err)
	return res
}

func protected(guard gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.GET("/me", guard, func(c *gin.Context) {
		res, ok := middleware.AuthResult(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		fromCtx, ok := middleware.AuthResultFromContext(c.Request.Context())
		if !ok || fromCtx.UserID != res.UserID {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": res.UserID})
	})
	return r
}

func do(r http.Handler, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func detail(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["detail"]
}

func TestRequireAuthAcceptsAccessToken(t *testing.T) {
	engine, _ := newEngine(t)
	res := register(t, engine)

	w := do(protected(middleware.RequireAuth(engine)), "Bearer "+res.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1}`, w.Body.String())
}

func TestRequireAuthRejects(t *testing.T) {
	engine, _ := newEngine(t)
	res := register(t, engine)
	r := protected(middleware.RequireAuth(engine))

	w := do(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Authentication credentials were not provided.", detail(t, w))
	assert.NotEmpty(t, w.Header().Get("WWW-Authenticate"))

	w = do(r, "Bearer "+res.RefreshToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Given token not valid for any token type", detail(t, w))

	w = do(r, "Token "+res.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireActiveUserRejectsDeletedUser(t *testing.T) {
	engine, users := newEngine(t)
	res := register(t, engine)
	r := protected(middleware.RequireActiveUser(engine))

	require.Equal(t, http.StatusOK, do(r, "Bearer "+res.AccessToken).Code)

	// stateless mode keeps trusting the token after the account is gone
	stateless := protected(middleware.RequireAuth(engine))
	require.NoError(t, users.Delete(context.Background(), res.User.ID))

	w := do(r, "Bearer "+res.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "User not found", detail(t, w))
	assert.Equal(t, http.StatusOK, do(stateless, "Bearer "+res.AccessToken).Code)
}

func TestGuardNilEngine(t *testing.T) {
	w := do(protected(middleware.RequireAuth(nil)), "Bearer x")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBearerToken(t *testing.T) {
	tok, ok := middleware.BearerToken("bearer abc")
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)

	_, ok = middleware.BearerToken("Bearer ")
	assert.False(t, ok)
	_, ok = middleware.BearerToken("Basic abc")
	assert.False(t, ok)
}
