// Package client contains client-side building blocks for GophForum.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) covering
//     accounts, communities, posts, comments and the liveness probe.
//  2. A concrete HTTP implementation (see APIClient) that attaches the access
//     token, transparently refreshes it once on a 401 and replays the
//     request, and clears stored tokens when the refresh itself is rejected.
//  3. Local persistence bootstrap utilities (InitDatabase, RunMigrations) for
//     the CLI, wiring an SQLite database and applying embedded goose
//     migrations, plus a TokenStore backed by it.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers can match with
// errors.Is: ErrUnavailable, ErrUnauthorized. Other non-2xx responses come
// back as *APIError.
package client
