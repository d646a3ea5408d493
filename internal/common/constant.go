package common

// AuthTokenCookieName is the cookie used to carry the access token when the
// Authorization header is absent.
const AuthTokenCookieName = "auth_token"
