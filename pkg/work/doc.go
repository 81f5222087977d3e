// Package work is a small client for the Work document-management REST API.
//
// # Endpoints
//
// Authentication:
//   - PUT  /api/v1/session/login           (user id + password)
//   - PUT  /api/v1/session/network-login   (user id + domain + password)
//   - POST /auth/oauth2/token              (form-encoded OAuth2 token request)
//
// Documents:
//   - GET  /api/v1/documents/:database/reserve
//
// Folders:
//   - POST /api/v2/customers/:customer/libraries/:database/folders/:container/subfolders
//
// Authenticated calls carry the token in the X-Auth-Token header.
//
// # Error Handling
//
// Calls fail fast. Failures are typed: *TransportError, *ServerError,
// *ResponseShapeError, and *AuthError for anything that goes wrong during
// login. Retries with exponential backoff are off unless Config.MaxRetries
// is set, and even then only apply to transport errors and 5xx responses
// outside of login. Reserving a number is not idempotent, so a retried
// reservation may consume an extra number.
//
// # Security
//
// TLS certificates are verified unless Config.TLSVerify is explicitly set
// to false. Tokens are never logged.
package work
