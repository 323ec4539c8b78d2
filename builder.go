package muhasabah

import (
	"errors"
	"io"
	"time"

	"github.com/MrEthical07/muhasabah/internal/audit"
	"github.com/MrEthical07/muhasabah/internal/rate"
	"github.com/MrEthical07/muhasabah/jwt"
	"github.com/MrEthical07/muhasabah/password"
	"github.com/MrEthical07/muhasabah/session"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ThrottleStore is the fixed-window counter backing the login throttle.
type ThrottleStore = rate.Store

// NewMemoryThrottleStore returns an in-process store holding at most size
// counters. window bounds how long an idle counter is retained.
func NewMemoryThrottleStore(size int, window time.Duration) ThrottleStore {
	return rate.NewMemoryStore(size, window)
}

// NewRedisThrottleStore returns a store shared by every process using client.
func NewRedisThrottleStore(client redis.UniversalClient, prefix string) ThrottleStore {
	return rate.NewRedisStore(client, prefix)
}

// Builder assembles an [Engine]. A Builder can be used for one Build only.
type Builder struct {
	config Config

	userStore     UserStore
	throttleStore ThrottleStore
	auditSink     AuditSink
	logger        logrus.FieldLogger

	built bool
}

// New returns a Builder seeded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the whole configuration. cfg is copied.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithUserStore sets the credential store. Required.
func (b *Builder) WithUserStore(store UserStore) *Builder {
	b.userStore = store
	return b
}

// WithThrottleStore overrides the in-process login throttle store.
func (b *Builder) WithThrottleStore(store ThrottleStore) *Builder {
	b.throttleStore = store
	return b
}

// WithAuditSink sets where audit events go when Config.Audit.Enabled is true.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithLogger sets the engine logger. Without one the engine logs nothing.
func (b *Builder) WithLogger(logger logrus.FieldLogger) *Builder {
	b.logger = logger
	return b
}

// WithMetricsEnabled toggles in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the login and validate latency histograms.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and returns a ready Engine.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.userStore == nil {
		return nil, errors.New("user store required")
	}

	logger := b.logger
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}

	throttleStore := b.throttleStore
	if throttleStore == nil {
		throttleStore = rate.NewMemoryStore(cfg.Security.ThrottleStoreSize, cfg.Security.LoginCooldownDuration)
	}

	engine := &Engine{
		config:    cloneConfig(cfg),
		userStore: b.userStore,
		logger:    logger,
	}

	engine.rateLimiter = rate.New(throttleStore, rate.Config{
		EnableIPThrottle:      cfg.Security.EnableIPThrottle,
		MaxLoginAttempts:      cfg.Security.MaxLoginAttempts,
		LoginCooldownDuration: cfg.Security.LoginCooldownDuration,
	})
	engine.audit = audit.NewDispatcher(audit.Config{
		Enabled:    cfg.Audit.Enabled,
		BufferSize: cfg.Audit.BufferSize,
		DropIfFull: cfg.Audit.DropIfFull,
	}, b.auditSink)
	engine.metrics = NewMetrics(cfg.Metrics)

	ph, err := password.NewArgon2(password.Config{
		Memory:      cfg.Password.Memory,
		Time:        cfg.Password.Time,
		Parallelism: cfg.Password.Parallelism,
		SaltLength:  cfg.Password.SaltLength,
		KeyLength:   cfg.Password.KeyLength,
	})
	if err != nil {
		return nil, err
	}
	engine.passwordHash = ph

	jm, err := jwt.NewManager(jwt.Config{
		AccessTTL:     cfg.JWT.AccessTTL,
		RefreshTTL:    cfg.JWT.RefreshTTL,
		SigningMethod: jwt.SigningMethod(cfg.JWT.SigningMethod),
		PrivateKey:    cloneBytes(cfg.JWT.PrivateKey),
		PublicKey:     cloneBytes(cfg.JWT.PublicKey),
		Issuer:        cfg.JWT.Issuer,
		Audience:      cfg.JWT.Audience,
		Leeway:        cfg.JWT.Leeway,
		RequireIAT:    true,
		KeyID:         cfg.JWT.KeyID,
	})
	if err != nil {
		return nil, err
	}
	engine.jwtManager = jm

	tr, err := session.NewTransport(session.Config{
		CookieName: cfg.Cookie.Name,
		Path:       cfg.Cookie.Path,
		Domain:     cfg.Cookie.Domain,
		Secure:     cfg.Cookie.Secure,
		SameSite:   cfg.Cookie.SameSite,
		MaxAge:     cfg.JWT.RefreshTTL,
	})
	if err != nil {
		return nil, err
	}
	engine.transport = tr

	b.built = true

	return engine, nil
}
