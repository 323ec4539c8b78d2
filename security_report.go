package muhasabah

import "time"

// SecurityReport summarizes the effective security posture of an Engine.
type SecurityReport struct {
	ProductionMode     bool
	SigningAlgorithm   string
	AccessTTL          time.Duration
	RefreshTTL         time.Duration
	Argon2             PasswordConfigReport
	HashUpgradeOnLogin bool
	RateLimitingActive bool
	IPThrottleActive   bool
	MaxLoginAttempts   int
	LoginCooldown      time.Duration
	SecureCookies      bool
	CookiePath         string
	AuditEnabled       bool
}

// PasswordConfigReport carries the argon2id cost parameters.
type PasswordConfigReport struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

func (e *Engine) SecurityReport() SecurityReport {
	if e == nil {
		return SecurityReport{}
	}

	rateLimiting := e.config.Security.MaxLoginAttempts > 0 &&
		e.config.Security.LoginCooldownDuration > 0

	return SecurityReport{
		ProductionMode:   e.config.Security.ProductionMode,
		SigningAlgorithm: e.config.JWT.SigningMethod,
		AccessTTL:        e.config.JWT.AccessTTL,
		RefreshTTL:       e.config.JWT.RefreshTTL,
		Argon2: PasswordConfigReport{
			Memory:      e.config.Password.Memory,
			Time:        e.config.Password.Time,
			Parallelism: e.config.Password.Parallelism,
			SaltLength:  e.config.Password.SaltLength,
			KeyLength:   e.config.Password.KeyLength,
		},
		HashUpgradeOnLogin: e.config.Password.UpgradeOnLogin,
		RateLimitingActive: rateLimiting,
		IPThrottleActive:   rateLimiting && e.config.Security.EnableIPThrottle,
		MaxLoginAttempts:   e.config.Security.MaxLoginAttempts,
		LoginCooldown:      e.config.Security.LoginCooldownDuration,
		SecureCookies:      e.config.Cookie.Secure,
		CookiePath:         e.config.Cookie.Path,
		AuditEnabled:       e.config.Audit.Enabled,
	}
}

// LogFields flattens the report for structured logging.
func (r SecurityReport) LogFields() map[string]interface{} {
	return map[string]interface{}{
		"production_mode":   r.ProductionMode,
		"signing_algorithm": r.SigningAlgorithm,
		"access_ttl":        r.AccessTTL.String(),
		"refresh_ttl":       r.RefreshTTL.String(),
		"argon2_memory_kb":  r.Argon2.Memory,
		"argon2_time":       r.Argon2.Time,
		"rate_limiting":     r.RateLimitingActive,
		"ip_throttle":       r.IPThrottleActive,
		"secure_cookies":    r.SecureCookies,
		"audit":             r.AuditEnabled,
	}
}
