// Package api provides the shared HTTP transport for the Rosarium API.
//
// # Overview
//
// Every other package talks to the server through one *Client. The client
// owns three cooperating pieces of state:
//
//   - credential attachment: the current access token (via TokenStore) is
//     sent as a Bearer header; a server-scoped csrftoken cookie is mirrored
//     into X-CSRFToken on mutating requests
//   - the in-flight request counter (Activity), incremented before dispatch
//     and decremented in a defer, with synchronous subscriber notification
//   - the session-refresh protocol, which turns a 401 into a single shared
//     token refresh followed by exactly one retry of the original request
//
// # Refresh Protocol
//
// When a request comes back 401 and the caller holds a refresh token:
//
//  1. If no refresh is in flight, the caller becomes the initiator: it posts
//     to /token/refresh/, stores the new pair, then retries its request once.
//  2. If a refresh is already in flight, the caller enqueues onto the waiter
//     queue and suspends. When the initiator settles, the queue drains in
//     enqueue order with a uniform outcome: all waiters see success (and
//     each retries once) or all see the refresh error. Never a mix.
//  3. Requests against the auth endpoints themselves (/token/, /register/,
//     /token/refresh/, /logout/) bypass the protocol and reject immediately,
//     as do requests issued with no refresh token held.
//
// When the refresh fails because the refresh token itself expired, the
// session is unrecoverable client-side and the registered session-expired
// handler fires so the application can return to the login screen.
//
// # Error Handling
//
// All failures surface as *Error with a Kind discriminator:
//
//   - KindNetwork: the request produced no response
//   - KindHTTP: the server answered with a non-2xx status; Message carries
//     the most specific detail the body offered, Fields any per-field
//     validation lists
//   - KindRefreshFailed: the 401 retry path was exhausted
//
// The ad-hoc server payload shapes are parsed once here; callers use
// MessageFrom and never inspect response bodies themselves.
package api
