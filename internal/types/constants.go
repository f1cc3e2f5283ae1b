package types

// ContextCallerKey is the gin context key holding the resolved *permissions.Caller.
const ContextCallerKey = "caller"

// Error codes carried in ErrorResponse.Code.
const (
	CodeProtected        = "protected"
	CodeTokenNotValid    = "token_not_valid"
	CodeTokenBlacklisted = "token_blacklisted"
	CodeNotAuthenticated = "not_authenticated"
	CodePermissionDenied = "permission_denied"
	CodeInvalid          = "invalid"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Detail string            `json:"detail"`
	Code   string            `json:"code,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

// Page is the paginated list envelope.
type Page[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}
