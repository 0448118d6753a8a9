// Package upload implements a station kind that drives a single file's
// presence on a remote host via SFTP to existence, idempotence driven by a
// local-vs-remote checksum comparison. Every upload station in a
// destination shares one Pool of lazily-connected SSH clients, keyed by
// host address, so stations targeting the same host reuse a connection
// while stations targeting distinct hosts never contend with each other —
// the same "one resource-map slot serves arbitrarily many instances" shape
// pkg/stationfns/dbrow uses for its shared database connection, adapted
// here for a keyed pool instead of a single handle.
package upload
