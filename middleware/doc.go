// Package middleware exposes gin guards that authenticate API requests with
// bearer access tokens issued by muhasabah.Engine.
//
// # Guards
//
//   - [Guard] with an explicit [Mode].
//   - [RequireAuth]: stateless access token check, no store call.
//   - [RequireActiveUser]: access token check plus a user lookup that rejects
//     deleted and disabled accounts.
//
// Each guard reads the Authorization header, calls Engine.ValidateAccess and
// stores the [muhasabah.AuthResult] in both the gin context and the request
// context.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT parse
// tokens or decide anything beyond pass/reject.
package middleware
