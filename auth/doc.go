// Package auth holds the authentication contracts shared by the HTTP layer.
//
// Subpackages:
//
//   - auth/jwt       signs and parses the backend session and preview tokens
//   - auth/password  hashes and verifies backend user passwords
//   - auth/authctx   carries the authenticated BackendUser through a request
//
// The backend session is a signed token in the cookie named by
// Config.BackendCookie (or a Bearer header). The frontend preview state is
// a second token in Config.PreviewCookie.
package auth
