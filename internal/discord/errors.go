package discord

import "errors"

var (
	// ErrUnauthorized is returned when the platform rejects the credential
	// used for the call. Callers should invalidate the stored delegated
	// token and have the user re-authenticate.
	ErrUnauthorized       = errors.New("platform rejected the access token")
	ErrExchangeCodeFailed = errors.New("failed to exchange authorization code for token")
	ErrNotFound           = errors.New("resource not found on platform")
	ErrRequestFailed      = errors.New("platform API request failed")
)
