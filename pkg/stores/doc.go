// Package stores provides a generic SQLite persistence primitive: pooled
// connection lifecycle, WAL-mode tuning, and migration application against a
// caller-supplied embed.FS. It carries no table schema of its own — station
// kinds such as pkg/stationfns/dbrow embed their own migrations and own
// their own queries against the *sql.DB a Store exposes.
package stores
