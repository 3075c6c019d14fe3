// Package auth holds the authentication and authorization core of the notes API:
// bcrypt password hashing, HS256 bearer token issuance and verification, resolution
// of a token into a live identity, and the exact-match role policy that gates every
// data operation.
//
// Every credential failure (forged, expired or malformed token, unknown user, wrong
// password) surfaces as ErrInvalidCredential. Role mismatches surface as ErrForbidden.
package auth
