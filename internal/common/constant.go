package common

// Keys of the persistent local storage. The console treats the presence of
// UserDataKey as the only authentication signal.
const (
	UserDataKey     = "userData"
	TokenKey        = "token"
	RefreshTokenKey = "refreshToken"
)

// AuthKeys lists every storage key removed on logout.
var AuthKeys = []string{UserDataKey, TokenKey, RefreshTokenKey}

// Header names sent with every backend request.
const (
	AuthorizationHeaderName = "Authorization"
	RequestIDHeaderName     = "X-Request-ID"
)
