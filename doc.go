// Package session implements the client-side session and authorization
// lifecycle for the marketplace portals (admin, provider, customer): decoding
// bearer tokens into advisory claims, restoring and maintaining a session from
// a persisted token slot, attaching credentials to outgoing requests, and
// gating protected routes by role.
//
// Token trust:
//   - Tokens are decoded WITHOUT signature verification. The backend issues
//     them and re-validates on every API call, so the decoded claims are
//     advisory only: they drive UI routing and redirect hints, never
//     authorization decisions.
//
// Session lifecycle:
//   - Manager owns the session state machine. A session starts uninitialized,
//     becomes initialized after the first restore attempt (success or failure)
//     and stays initialized for the life of the process. Login, Register, and
//     Logout move the session between the authenticated and unauthenticated
//     states. Every attempt claims a generation; completions of superseded
//     attempts are discarded so two racing logins cannot interleave state.
//
// Persisted token:
//   - TokenStore is the single source of truth for the raw credential. The
//     Manager reads through to it rather than caching a parallel copy, and
//     BearerTransport consults the same slot when authenticating requests.
package session
