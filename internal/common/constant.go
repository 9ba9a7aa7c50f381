// Package common contains shared constants and sentinel errors used across
// the severity server, its gRPC API and the severityctl tool.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// session token on inbound requests.
const AccessTokenHeaderName = "access_token"

// SessionCookieName is the HTTP cookie holding the signed session token.
const SessionCookieName = "severity_session"

// FeatureCount is the number of input features A1..A10 the classifier consumes.
const FeatureCount = 10

// Severity classes produced by the classifier.
const (
	MinSeverity = 1
	MaxSeverity = 4
)
