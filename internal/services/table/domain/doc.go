// Package domain holds the table session: character rosters, scenes, clocks,
// the Fear and Hope ledger, and the duality resolution engine.
//
// A Session is a plain value mutated by one method per table action. Methods
// either apply fully or return an error and leave the session untouched.
// Session is not safe for concurrent use; adapters serialize access.
package domain
