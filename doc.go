// Package admin provides the administrative control layer for an
// authentication platform: banning and unbanning accounts, forcing
// password changes, and listing or revoking active sessions.
//
// Ban lifecycle:
//   - Accounts carry banned/ban_reason/ban_expires columns persisted via
//     Bun; this module owns those fields and nothing else on the users
//     table.
//   - BanStateMachine centralizes ban application, lifting, and lazy
//     expiry. Applying a ban always cascades into revocation of every
//     session the account holds. There is no background sweeper: an
//     expired ban is cleared the next time SessionGuard evaluates the
//     account during session establishment.
//
// Permission gate:
//   - Every admin operation consults a PermissionChecker before touching
//     state. The decision logic (RBAC, ownership, rate limits) belongs to
//     the embedding system; a denial maps to ErrForbiddenAction and the
//     operation is a no-op.
//
// Activity sinks:
//   - ActivitySink is a light-weight audit emitter used by the Admin
//     surface and the state machine to describe bans, unbans, password
//     changes, and session revocations. Sinks run best-effort (errors are
//     logged) so you can forward to a database or queue without blocking
//     admin calls.
package admin
