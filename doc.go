// Package enrollment provides the authentication core for the student and
// membership registration backend: password verification, stateless session
// tokens and the role gate consumed by the HTTP layer.
//
// Principals:
//   - Two principal kinds exist, Admin and Student, each stored in its own
//     table and looked up by exact email. Role is a closed enumeration and is
//     never re-derived from storage once a token has been issued.
//   - Students carry an IsActive flag. A deactivated student is rejected at
//     login even with the correct password.
//
// Sessions:
//   - TokenService signs HS256 tokens carrying subject id, email, role and
//     display name. Tokens are valid in [iat, iat+validity) and are never
//     revoked server side; logout is a client side discard.
//
// Registration:
//   - Student registration derives a human readable number from a count of
//     existing numbers sharing the year prefix. The count is read inside the
//     creating transaction but is not serialized; the unique constraint on the
//     column turns a concurrent collision into a creation failure.
//
// Activity sinks:
//   - ActivitySink receives login and registration events. Sinks run best
//     effort, errors are logged and never block authentication.
package enrollment
