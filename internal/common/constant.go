package common

// AuthorizationHeaderName is the HTTP header and gRPC metadata key carrying
// the bearer token. gRPC metadata keys are lower-case.
const AuthorizationHeaderName = "authorization"

// BearerScheme is the authorization scheme expected in front of the token.
const BearerScheme = "Bearer"

// TokenTypeBearer is the fixed type tag returned alongside issued tokens.
const TokenTypeBearer = "bearer"
