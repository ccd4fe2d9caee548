// Package auth recovers from expired access tokens.
//
// Coordinator runs at most one token refresh at a time. Every request that
// fails with 401 calls Refresh with the token it carried; concurrent callers
// share the in-flight refresh, and a caller whose token was already
// replaced gets the new token without a second network call. Each caller
// then retries its own request once.
//
// InspectToken decodes access token claims for display. It does not verify
// signatures; the backend remains the authority on validity.
package auth
