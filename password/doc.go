// Package password implements password hashing and verification with Argon2id defaults.
//
// # Output format
//
// Hashes are encoded in PHC string format:
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>
//
// Accounts created without a password store an unusable sentinel (see [Unusable]);
// [Argon2.Verify] never matches it. [Argon2.NeedsUpgrade] reports hashes created
// with weaker parameters so the caller can re-hash on the next successful login.
//
// # Architecture boundaries
//
// This package owns hashing and verification only. Field-level password rules
// beyond the minimum length are enforced by the Engine.
//
// # What this package must NOT do
//
//   - Store or retrieve passwords; callers supply plaintext and receive hashes.
//   - Import any other muhasabah package.
//   - Log plaintext passwords or hash parameters at runtime.
package password
