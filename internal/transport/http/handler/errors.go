package handler

const (
	errInternalServer = "Internal server error"
	// One generic message for every invalid-token condition so callers
	// never learn which check failed.
	errLinkInvalid  = "Invalid or expired link"
	errEmailInvalid = "Invalid email format"
)
