package muhasabah

import (
	"context"
	"errors"
	"fmt"
)

// Refresh exchanges a refresh token for a new access token.
//
// The refresh token is not rotated and stays valid until it expires. It is
// rejected when malformed, expired, forged, of the access type, or when its
// user no longer exists or is disabled.
func (e *Engine) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if !e.ready() {
		return "", ErrEngineNotReady
	}
	if refreshToken == "" {
		return "", ErrRefreshMissing
	}

	claims, err := e.jwtManager.ParseRefresh(refreshToken)
	if err != nil {
		return "", e.refreshFailed(ctx, 0)
	}

	uid, err := parseUserID(claims.UID)
	if err != nil {
		return "", e.refreshFailed(ctx, 0)
	}

	user, err := e.userStore.FindByID(ctx, uid)
	if errors.Is(err, ErrUserNotFound) {
		return "", e.refreshFailed(ctx, uid)
	}
	if err != nil {
		return "", fmt.Errorf("refresh lookup: %w", err)
	}
	if !user.IsActive {
		return "", e.refreshFailed(ctx, uid)
	}

	access, err := e.jwtManager.CreateAccess(formatUserID(user.ID))
	if err != nil {
		return "", fmt.Errorf("issue access token: %w", err)
	}

	e.metricInc(MetricRefreshSuccess)
	e.emitAudit(ctx, auditEventRefreshSuccess, true, user.ID, nil, nil)
	return access, nil
}

func (e *Engine) refreshFailed(ctx context.Context, userID uint) error {
	e.metricInc(MetricRefreshFailure)
	e.emitAudit(ctx, auditEventRefreshInvalid, false, userID, ErrRefreshInvalid, nil)
	return ErrRefreshInvalid
}
