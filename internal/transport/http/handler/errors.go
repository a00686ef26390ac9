package handler

const (
	errInternalServer  = "Internal server error"
	errUnauthorized    = "Unauthorized"
	errConflict        = "An account already exists for this e-mail"
	errTermsRequired   = "Must accept terms and conditions"
	errTokenInvalid    = "Invalid token provided"
	errTokenExpired    = "E-mail verification token is expired"
	errJenkinsUpstream = "CI server is unreachable"
)
