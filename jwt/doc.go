// Package jwt mints and verifies access and refresh tokens using configured signing keys
// and strict validation semantics. Every token carries a type claim so one kind can never
// be used in place of the other.
package jwt
