package stores_test

import (
	"context"
	"fmt"
	"log"
	"testing/fstest"
	"time"

	"github.com/railgraph/railgraph/pkg/stores"
)

// widgetsMigrations is a tiny schema used only to demonstrate Store's
// migration contract; real station kinds embed their own via go:embed
// (see pkg/stationfns/dbrow).
var widgetsMigrations = fstest.MapFS{
	"migrations/0001_widgets.up.sql": &fstest.MapFile{
		Data: []byte(`CREATE TABLE widgets (id TEXT PRIMARY KEY, name TEXT NOT NULL);`),
	},
	"migrations/0001_widgets.down.sql": &fstest.MapFile{
		Data: []byte(`DROP TABLE widgets;`),
	},
}

// ExampleNewSQLiteStore demonstrates creating, initializing, and migrating a
// new SQLite store against a caller-supplied migration filesystem.
func ExampleNewSQLiteStore() {
	store, err := stores.NewSQLiteStore(stores.Config{
		Path:            ":memory:",
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
	})
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	if err := store.Init(ctx); err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	if err := store.Migrate(ctx, widgetsMigrations, "migrations"); err != nil {
		log.Fatal(err)
	}

	fmt.Println("Store initialized successfully")
	// Output: Store initialized successfully
}

// ExampleSQLiteStore_BeginTx demonstrates using transactions against the
// raw *sql.DB a Store exposes.
func ExampleSQLiteStore_BeginTx() {
	store, _ := stores.NewSQLiteStore(stores.Config{Path: ":memory:"})
	ctx := context.Background()
	_ = store.Init(ctx)
	_ = store.Migrate(ctx, widgetsMigrations, "migrations")
	defer store.Close()

	tx, err := store.BeginTx(ctx)
	if err != nil {
		log.Fatal(err)
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO widgets (id, name) VALUES (?, ?)`, "w-1", "cog"); err != nil {
		_ = store.RollbackTx(tx)
		log.Fatal(err)
	}

	if err := store.CommitTx(tx); err != nil {
		log.Fatal(err)
	}

	var name string
	if err := store.DB().QueryRowContext(ctx, `SELECT name FROM widgets WHERE id = ?`, "w-1").Scan(&name); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Transaction committed: widget %s\n", name)
	// Output: Transaction committed: widget cog
}
