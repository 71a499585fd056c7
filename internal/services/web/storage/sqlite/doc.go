// Package sqlite provides the web session and submission ledger adapter
// backed by SQLite.
package sqlite
