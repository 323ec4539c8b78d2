// Package session decides where each token travels between the server and the browser.
//
// The access token is returned in the JSON body only. The refresh token is placed in an
// HttpOnly cookie scoped to the refresh endpoint path, so the browser sends it nowhere
// else. Cookie flags come from an explicit [Config]; nothing is read from globals.
//
// # Architecture boundaries
//
// This package owns the cookie shape and the body-then-cookie lookup order. It does NOT
// parse or validate tokens; that belongs to the jwt package and the Engine.
//
// # What this package must NOT do
//
//   - Import muhasabah or jwt (no upward imports).
//   - Persist tokens server-side.
package session
