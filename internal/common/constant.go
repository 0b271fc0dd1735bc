package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on inbound requests.
const AccessTokenHeaderName = "access_token"

// DefaultUploadURLPrefix is prepended to blob keys to form the public image
// reference stored on photos.
const DefaultUploadURLPrefix = "/uploads/"
