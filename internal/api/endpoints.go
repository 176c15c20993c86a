package api

// Account service routes
const (
	// Account endpoints
	AccountSignUp      = "/v1/accounts/sign-up"
	AccountEmailVerify = "/v1/accounts/email-verify"

	// Authentication endpoints
	AuthLogin        = "/v1/accounts/login"
	AuthTokenRefresh = "/v1/accounts/token-refresh"
	AuthLogout       = "/v1/accounts/logout"
	AuthMe           = "/v1/accounts/me"
)

// PublicEndpoints defines routes that don't require authentication
var PublicEndpoints = map[string]bool{
	AccountSignUp:      true,
	AccountEmailVerify: true,
	AuthLogin:          true,
	AuthTokenRefresh:   true,
}
