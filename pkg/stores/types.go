package stores

import (
	"context"
	"database/sql"
	"io/fs"
)

// Store defines the lifecycle every persistence backend a station kind
// opens must implement: connect, migrate against a caller-owned schema, run
// transactions, and report health. Table schema and queries are the
// concern of the station kind that owns the data (pkg/stationfns/dbrow),
// not of Store itself.
type Store interface {
	// Lifecycle
	Init(ctx context.Context) error
	Close() error

	// Migrate applies every migration found under dir in migrations,
	// idempotently (no-op if already at the latest version).
	Migrate(ctx context.Context, migrations fs.FS, dir string) error

	// Transaction support
	BeginTx(ctx context.Context) (*sql.Tx, error)
	CommitTx(tx *sql.Tx) error
	RollbackTx(tx *sql.Tx) error

	// DB exposes the underlying connection pool for caller-owned queries.
	DB() *sql.DB

	// Utility
	HealthCheck(ctx context.Context) error
}
