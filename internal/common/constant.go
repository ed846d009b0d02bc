package common

// AuthorizationHeaderName is the HTTP header and gRPC metadata key that
// carries the access token.
const AuthorizationHeaderName = "authorization"

// BearerPrefix precedes the token inside the authorization value.
const BearerPrefix = "Bearer "

// APIPrefix is the path prefix of every HTTP API route.
const APIPrefix = "/api"
