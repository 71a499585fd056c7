// Package storage declares persistence interfaces for web-owned state.
//
// The web service stores browser sessions and consumed form submissions only.
// Team data always comes from the tenant API.
package storage
