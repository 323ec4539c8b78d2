package muhasabah

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MrEthical07/muhasabah/internal/rate"
)

// Login authenticates identifier (a username, or an email matched
// case-insensitively) with plaintext and issues a token pair.
//
// The throttle is consulted before any lookup, so a spent budget rejects
// even the correct password with ErrLoginRateLimited. Unknown accounts and
// wrong passwords both fail with ErrInvalidCredentials; ErrAccountDisabled is
// only reported after the password matched.
func (e *Engine) Login(ctx context.Context, identifier, plaintext string) (*LoginResult, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}

	start := time.Now()
	defer func() {
		e.metrics.Observe(MetricLoginLatency, time.Since(start))
	}()

	identifier = strings.TrimSpace(identifier)
	ip := clientIPFromContext(ctx)

	if err := e.rateLimiter.CheckLogin(ctx, identifier, ip); err != nil {
		return nil, e.throttleError(ctx, err)
	}

	errs := FieldErrors{}
	if identifier == "" {
		errs.Add("identifier", msgRequired)
	}
	if plaintext == "" {
		errs.Add("password", msgRequired)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	user, err := e.lookupIdentifier(ctx, identifier)
	if errors.Is(err, ErrUserNotFound) {
		return nil, e.loginFailed(ctx, identifier, ip, 0, ErrInvalidCredentials)
	}
	if err != nil {
		return nil, fmt.Errorf("login lookup: %w", err)
	}

	ok, err := e.passwordHash.Verify(plaintext, user.PasswordHash)
	if err != nil {
		e.logger.WithError(err).WithField("user_id", user.ID).Warn("password verification failed")
	}
	if !ok {
		return nil, e.loginFailed(ctx, identifier, ip, user.ID, ErrInvalidCredentials)
	}

	if !user.IsActive {
		e.metricInc(MetricLoginAccountDisabled)
		return nil, e.loginFailed(ctx, identifier, ip, user.ID, ErrAccountDisabled)
	}

	if e.config.Password.UpgradeOnLogin {
		e.upgradeHash(ctx, user, plaintext)
	}

	access, refresh, err := e.issuePair(user)
	if err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}

	if err := e.rateLimiter.ResetLogin(ctx, identifier); err != nil {
		e.logger.WithError(err).Warn("login throttle reset failed")
	}

	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, auditEventLoginSuccess, true, user.ID, nil, nil)

	return &LoginResult{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

func (e *Engine) lookupIdentifier(ctx context.Context, identifier string) (UserRecord, error) {
	user, err := e.userStore.FindByUsername(ctx, identifier)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return UserRecord{}, err
	}
	return e.userStore.FindByEmailFold(ctx, identifier)
}

// loginFailed spends one unit of the throttle budget and returns cause.
func (e *Engine) loginFailed(ctx context.Context, identifier, ip string, userID uint, cause error) error {
	e.metricInc(MetricLoginFailure)
	e.emitAudit(ctx, auditEventLoginFailure, false, userID, cause, nil)

	if err := e.rateLimiter.IncrementLogin(ctx, identifier, ip); err != nil && !errors.Is(err, rate.ErrRateLimited) {
		e.logger.WithError(err).Warn("login throttle increment failed")
	}
	return cause
}

func (e *Engine) throttleError(ctx context.Context, err error) error {
	if errors.Is(err, rate.ErrRateLimited) {
		e.metricInc(MetricLoginRateLimited)
		e.emitAudit(ctx, auditEventLoginRateLimited, false, 0, ErrLoginRateLimited, nil)
		return ErrLoginRateLimited
	}
	e.logger.WithError(err).Error("login throttle unavailable")
	return fmt.Errorf("%w: %v", ErrThrottleUnavailable, err)
}

// upgradeHash re-hashes plaintext when the stored hash uses weaker
// parameters. Failures are logged and never fail the login.
func (e *Engine) upgradeHash(ctx context.Context, user UserRecord, plaintext string) {
	needs, err := e.passwordHash.NeedsUpgrade(user.PasswordHash)
	if err != nil || !needs {
		return
	}
	hash, err := e.passwordHash.Hash(plaintext)
	if err != nil {
		e.logger.WithError(err).WithField("user_id", user.ID).Warn("password rehash failed")
		return
	}
	if err := e.userStore.SetPasswordHash(ctx, user.ID, hash); err != nil {
		e.logger.WithError(err).WithField("user_id", user.ID).Warn("password rehash not stored")
		return
	}
	e.metricInc(MetricPasswordUpgraded)
}
