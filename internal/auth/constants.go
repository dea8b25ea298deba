package auth

const (
	ContextKeyClaims = "auth_claims"

	headerAuthorization = "Authorization"

	bearerScheme    = "bearer"
	authHeaderParts = 2

	jsonKeyError = "error"
)

const (
	msgMissingAuthorization    = "missing authorization token"
	msgInvalidOrExpiredToken   = "invalid or expired token"
	msgInsufficientRole        = "insufficient role"
	msgUserNotAuthenticated    = "user not authenticated"
	msgUnexpectedSigningMethod = "unexpected signing method: %v"
	msgTokenExpired            = "token expired"
	msgTokenInvalid            = "invalid token"
	msgUnknownRole             = "unknown role in token"
	msgSigningSecretMissing    = "signing secret unavailable"
	msgMissingEmail            = "federated identity has no email"
	msgInvalidClaimsCtx        = "invalid claims in context"
)
