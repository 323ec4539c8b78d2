// Package rate provides the login throttle: fixed-window failure counters keyed by
// identifier and client IP, checked before any credential work is done.
//
// # Window semantics
//
// A window starts on the first failure and lasts LoginCooldownDuration; later hits
// never extend it. Once MaxLoginAttempts failures are counted, every attempt in the
// window is rejected. Key prefixes:
//   - al:  login per-identifier (lower-cased)
//   - ali: login per-IP
//
// # Stores
//
//   - [MemoryStore]: bounded expiring LRU, single process (default).
//   - [RedisStore]: INCR + EXPIRE on first hit, shared across processes.
//
// # What this package must NOT do
//
//   - Look up accounts or verify passwords.
//   - Be imported outside the muhasabah module.
package rate
