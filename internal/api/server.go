package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/MrEthical07/muhasabah"
	"github.com/MrEthical07/muhasabah/middleware"
	"github.com/MrEthical07/muhasabah/todo"
)

// Options wires the HTTP layer to its collaborators.
type Options struct {
	Engine *muhasabah.Engine
	Todos  *todo.Service
	Logger logrus.FieldLogger
	// Health reports dependency health for /healthz. Nil means always healthy.
	Health func(ctx context.Context) error
	// Metrics, when set, is served on /metrics.
	Metrics http.Handler
	// TrustedProxies is handed to gin for client IP resolution.
	TrustedProxies []string
}

// Server holds the handlers' dependencies.
type Server struct {
	engine *muhasabah.Engine
	todos  *todo.Service
	logger logrus.FieldLogger
	health func(ctx context.Context) error
}

// NewRouter builds the gin engine serving the muhasabah API.
func NewRouter(opts Options) (*gin.Engine, error) {
	logger := opts.Logger
	if logger == nil {
		logger = opts.Engine.Logger()
	}
	s := &Server{
		engine: opts.Engine,
		todos:  opts.Todos,
		logger: logger,
		health: opts.Health,
	}

	r := gin.New()
	if err := r.SetTrustedProxies(opts.TrustedProxies); err != nil {
		return nil, err
	}
	r.Use(requestLogger(logger), recovery(logger), clientContext())

	r.GET("/healthz", s.healthz)
	if opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(opts.Metrics))
	}

	api := r.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register/", s.register)
	auth.POST("/login/", s.login)
	auth.POST("/token/", s.login)
	auth.POST("/token/refresh/", s.refresh)
	auth.POST("/logout/", middleware.RequireAuth(s.engine), s.logout)

	todos := api.Group("/todos", middleware.RequireActiveUser(s.engine))
	todos.GET("/defaults/", s.listDefaults)
	todos.GET("/personal/", s.listPersonal)
	todos.POST("/personal/", s.createPersonal)
	todos.GET("/personal/:id/", s.getPersonal)
	todos.PUT("/personal/:id/", s.updatePersonal)
	todos.PATCH("/personal/:id/", s.updatePersonal)
	todos.DELETE("/personal/:id/", s.deletePersonal)

	return r, nil
}

func (s *Server) healthz(c *gin.Context) {
	if s.health != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := s.health(ctx); err != nil {
			s.logger.WithError(err).Warn("health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
