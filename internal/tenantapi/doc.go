// Package tenantapi is the REST client for the upstream tenant API.
//
// Every method issues exactly one HTTP call and returns the decoded response
// envelope as a typed Result. A non-nil error from a method is always a
// *TransportError; application failures (non-zero envelope code) are carried
// by the Result and surfaced through Result.Err as a *CodeError.
package tenantapi
