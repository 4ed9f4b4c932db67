package auth

import "errors"

// Authentication errors. Missing and invalid signatures both map to 401;
// the distinction matters for logs, not for the HTTP response.
var (
	ErrMissingSignature = errors.New("report signature required in " + SignatureHeader + " header")
	ErrInvalidSignature = errors.New("invalid report signature")
)
