// Package cache stores routing results keyed by a hash of their inputs.
//
// Provider is the contract; Memory keeps entries in a map, SQLite persists
// them with modernc.org/sqlite and applies its schema from embedded
// golang-migrate migrations on open. Key builds namespaced sha256 keys from
// any JSON-encodable value.
//
// Both providers copy values in and out and are safe for concurrent use.
package cache
