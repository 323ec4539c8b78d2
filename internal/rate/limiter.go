package rate

import (
	"context"
	"strings"
	"time"
)

// Config holds rate limiter tuning parameters.
type Config struct {
	EnableIPThrottle      bool
	MaxLoginAttempts      int
	LoginCooldownDuration time.Duration
}

// Store is a keyed fixed-window counter.
//
// Incr starts a new window of the given length when the key is absent or expired.
type Store interface {
	Get(ctx context.Context, key string) (int64, error)
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
	Del(ctx context.Context, keys ...string) error
}

// Limiter enforces per-identifier and per-IP login budgets.
type Limiter struct {
	store  Store
	config Config
}

// New creates a rate [Limiter] over the given counter store.
func New(store Store, cfg Config) *Limiter {
	return &Limiter{
		store:  store,
		config: cfg,
	}
}

// CheckLogin returns ErrRateLimited once the identifier (or the IP, when
// enabled) has used up its failure budget in the current window.
// It never increments.
func (l *Limiter) CheckLogin(ctx context.Context, identifier, ip string) error {
	if err := l.checkCounter(ctx, loginUserKey(identifier)); err != nil {
		return err
	}

	if l.config.EnableIPThrottle && ip != "" {
		if err := l.checkCounter(ctx, loginIPKey(ip)); err != nil {
			return err
		}
	}

	return nil
}

// IncrementLogin records a failed login attempt for the identifier+IP pair.
// It returns ErrRateLimited when this failure exhausted the budget.
func (l *Limiter) IncrementLogin(ctx context.Context, identifier, ip string) error {
	count, err := l.store.Incr(ctx, loginUserKey(identifier), l.config.LoginCooldownDuration)
	if err != nil {
		return err
	}
	limited := count >= int64(l.config.MaxLoginAttempts)

	if l.config.EnableIPThrottle && ip != "" {
		count, err = l.store.Incr(ctx, loginIPKey(ip), l.config.LoginCooldownDuration)
		if err != nil {
			return err
		}
		limited = limited || count >= int64(l.config.MaxLoginAttempts)
	}

	if limited {
		return ErrRateLimited
	}
	return nil
}

// ResetLogin clears the failed-login counter of identifier after a
// successful login. The per-IP window is left to expire so one account's
// success cannot refill the budget of a client spraying other identifiers.
func (l *Limiter) ResetLogin(ctx context.Context, identifier string) error {
	return l.store.Del(ctx, loginUserKey(identifier))
}

// GetLoginAttempts returns the current failure count for an identifier.
// Missing keys return zero and do not reveal account existence.
func (l *Limiter) GetLoginAttempts(ctx context.Context, identifier string) (int, error) {
	count, err := l.store.Get(ctx, loginUserKey(identifier))
	if err != nil {
		return 0, err
	}
	if count < 0 {
		return 0, nil
	}
	return int(count), nil
}

func (l *Limiter) checkCounter(ctx context.Context, key string) error {
	count, err := l.store.Get(ctx, key)
	if err != nil {
		return err
	}

	if count >= int64(l.config.MaxLoginAttempts) {
		return ErrRateLimited
	}

	return nil
}

func loginUserKey(identifier string) string {
	return "al:" + strings.ToLower(strings.TrimSpace(identifier))
}

func loginIPKey(ip string) string {
	return "ali:" + ip
}
