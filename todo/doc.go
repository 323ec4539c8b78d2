// Package todo holds the shared default todo catalog and per-user personal todos.
//
// Ownership is enforced by [Repository] implementations: every personal todo
// query is filtered by owner, so a todo of another user is indistinguishable
// from a missing one ([ErrNotFound]).
package todo
