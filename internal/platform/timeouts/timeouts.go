// Package timeouts defines shared timeout constants used across teamdesk.
package timeouts

import "time"

// APIRequest caps a single call to the tenant REST API when the operator does
// not configure one.
const APIRequest = 10 * time.Second

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// SessionTTL bounds how long a browser session stays valid after sign-in.
const SessionTTL = 7 * 24 * time.Hour

// FormToken bounds how long a rendered form can be submitted.
const FormToken = 30 * time.Minute
