package muhasabah

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/MrEthical07/muhasabah/internal/audit"
	"github.com/MrEthical07/muhasabah/internal/rate"
	"github.com/MrEthical07/muhasabah/jwt"
	"github.com/MrEthical07/muhasabah/password"
	"github.com/MrEthical07/muhasabah/session"
	"github.com/sirupsen/logrus"
)

// Engine runs registration, login, token refresh and access validation.
//
// An Engine is immutable after [Builder.Build] and safe for concurrent use.
type Engine struct {
	config       Config
	userStore    UserStore
	rateLimiter  *rate.Limiter
	audit        *audit.Dispatcher
	metrics      *Metrics
	passwordHash *password.Argon2
	jwtManager   *jwt.Manager
	transport    *session.Transport
	logger       logrus.FieldLogger
}

// Close drains pending audit events. The Engine must not be used afterwards.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped returns how many audit events were discarded because the buffer was full.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns the current counters. It is empty when metrics are disabled.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:      map[MetricID]uint64{},
			Histograms:    map[MetricID][]uint64{},
			HistogramSums: map[MetricID]time.Duration{},
		}
	}
	return e.metrics.Snapshot()
}

// Transport returns the refresh cookie transport matching the engine's
// refresh lifetime and cookie settings.
func (e *Engine) Transport() *session.Transport {
	if e == nil {
		return nil
	}
	return e.transport
}

// Logger returns the engine logger.
func (e *Engine) Logger() logrus.FieldLogger {
	return e.logger
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) ready() bool {
	return e != nil && e.userStore != nil && e.jwtManager != nil && e.passwordHash != nil && e.rateLimiter != nil
}

// ValidateAccess checks an access token and returns the identity it carries.
// Refresh tokens, expired tokens and forged tokens all fail with ErrUnauthorized.
func (e *Engine) ValidateAccess(ctx context.Context, tokenStr string) (*AuthResult, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}

	start := time.Now()
	defer func() {
		e.metrics.Observe(MetricValidateLatency, time.Since(start))
	}()

	if tokenStr == "" {
		e.metricInc(MetricValidateFailure)
		return nil, ErrUnauthorized
	}

	claims, err := e.jwtManager.ParseAccess(tokenStr)
	if err != nil {
		e.metricInc(MetricValidateFailure)
		return nil, ErrUnauthorized
	}

	uid, err := parseUserID(claims.UID)
	if err != nil {
		e.metricInc(MetricValidateFailure)
		return nil, ErrUnauthorized
	}

	result := &AuthResult{
		UserID:  uid,
		TokenID: claims.ID,
	}
	if claims.ExpiresAt != nil {
		result.ExpiresAt = claims.ExpiresAt.Time
	}
	return result, nil
}

// Logout records the logout of the caller behind accessToken. Tokens stay
// valid until they expire; clearing the refresh cookie is the transport's job.
func (e *Engine) Logout(ctx context.Context, accessToken string) error {
	res, err := e.ValidateAccess(ctx, accessToken)
	if err != nil {
		return err
	}

	e.metricInc(MetricLogout)
	e.emitAudit(ctx, auditEventLogout, true, res.UserID, nil, nil)
	return nil
}

// issuePair mints a fresh access and refresh token for user.
func (e *Engine) issuePair(user UserRecord) (string, string, error) {
	uid := formatUserID(user.ID)

	access, err := e.jwtManager.CreateAccess(uid)
	if err != nil {
		return "", "", err
	}
	refresh, err := e.jwtManager.CreateRefresh(uid)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func formatUserID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func parseUserID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, errors.New("zero user id")
	}
	return uint(id), nil
}
