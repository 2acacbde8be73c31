// Package sqlite provides SQLite-backed save slot persistence.
package sqlite
