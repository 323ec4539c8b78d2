// Package muhasabah is the account and token engine of the muhasabah backend:
// registration, login with a throttle, JWT access and refresh tokens, and
// administrative account management.
//
// The package is designed for concurrent server workloads: Engine methods are safe to call
// from multiple goroutines after initialization through [Builder.Build].
//
// # Architecture boundaries
//
// muhasabah is the public surface. It exposes [Engine], [Builder], [Config], the
// [UserStore] contract and value types (UserRecord, LoginResult, MetricsSnapshot).
// Persistence lives in internal/store, HTTP in internal/api; the engine never
// sees a database handle or an HTTP request.
//
// # What this package must NOT do
//
//   - Import gorm, gin or any other transport or persistence package.
//   - Perform I/O outside of Engine methods (construction via Builder is allocation-only
//     until Build).
//   - Import any sub-package that re-imports muhasabah (no import cycles).
//
// # Tokens
//
// Access and refresh tokens are signed JWTs distinguished by their "typ"
// claim. Nothing is stored server-side: refresh does not rotate, logout does
// not revoke, and both token kinds stay valid until they expire.
package muhasabah
