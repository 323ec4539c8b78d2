package internaldefs

import (
	"github.com/MrEthical07/muhasabah"
)

// CounterDef names one engine counter for exporters.
type CounterDef struct {
	ID   muhasabah.MetricID
	Name string
	Help string
}

// HistogramDef names one engine latency histogram for exporters.
type HistogramDef struct {
	ID   muhasabah.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter in a stable order.
var CounterDefs = []CounterDef{
	{ID: muhasabah.MetricLoginSuccess, Name: "muhasabah_login_success_total", Help: "Successful logins."},
	{ID: muhasabah.MetricLoginFailure, Name: "muhasabah_login_failure_total", Help: "Logins rejected for unknown account or wrong password."},
	{ID: muhasabah.MetricLoginRateLimited, Name: "muhasabah_login_rate_limited_total", Help: "Logins rejected by the throttle."},
	{ID: muhasabah.MetricLoginAccountDisabled, Name: "muhasabah_login_account_disabled_total", Help: "Logins with a correct password on a disabled account."},
	{ID: muhasabah.MetricRefreshSuccess, Name: "muhasabah_refresh_success_total", Help: "Access tokens issued from a refresh token."},
	{ID: muhasabah.MetricRefreshFailure, Name: "muhasabah_refresh_failure_total", Help: "Rejected refresh tokens."},
	{ID: muhasabah.MetricRegisterSuccess, Name: "muhasabah_register_success_total", Help: "Created accounts."},
	{ID: muhasabah.MetricRegisterDuplicate, Name: "muhasabah_register_duplicate_total", Help: "Registrations rejected for a taken email or username."},
	{ID: muhasabah.MetricRegisterInvalid, Name: "muhasabah_register_invalid_total", Help: "Registrations rejected by validation."},
	{ID: muhasabah.MetricLogout, Name: "muhasabah_logout_total", Help: "Logouts."},
	{ID: muhasabah.MetricPasswordUpgraded, Name: "muhasabah_password_upgraded_total", Help: "Password hashes rehashed with current parameters at login."},
	{ID: muhasabah.MetricAccountDeleted, Name: "muhasabah_account_deleted_total", Help: "Deleted accounts."},
	{ID: muhasabah.MetricValidateFailure, Name: "muhasabah_validate_failure_total", Help: "Rejected access tokens."},
}

// HistogramDefs lists every exported latency histogram.
var HistogramDefs = []HistogramDef{
	{ID: muhasabah.MetricValidateLatency, Name: "muhasabah_validate_latency_seconds", Help: "Access token validation latency."},
	{ID: muhasabah.MetricLoginLatency, Name: "muhasabah_login_latency_seconds", Help: "Login latency, password hashing included."},
}

// AuditDroppedName is the counter of audit events lost to backpressure.
const (
	AuditDroppedName = "muhasabah_audit_dropped_total"
	AuditDroppedHelp = "Dropped audit events due to dispatcher backpressure."
)

// HistogramUpperBounds are the finite bucket bounds in seconds. The last
// engine bucket is unbounded.
var HistogramUpperBounds = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5}

// HistogramBoundSuffix names each bucket, +Inf included, for exporters that
// cannot label buckets.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets copies raw into a fixed array, zero-filling missing buckets.
func NormalizeBuckets(raw []uint64) [muhasabah.HistogramBucketCount]uint64 {
	var out [muhasabah.HistogramBucketCount]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets turns per-bucket counts into running totals.
func CumulativeBuckets(raw [muhasabah.HistogramBucketCount]uint64) [muhasabah.HistogramBucketCount]uint64 {
	var out [muhasabah.HistogramBucketCount]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
