// Package common contains shared constants and sentinel errors used across
// linkshare components.
package common

// AuthorizationHeaderName is the HTTP header carrying the bearer access token.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the access token in the Authorization header.
const BearerPrefix = "Bearer "

// DownloadLinkSize is the number of random bytes behind a download link.
// The link itself is hex encoded, so it is twice as long.
const DownloadLinkSize = 32
