// Package hostinv is the host inventory a run's stations resolve their
// config.TargetSelector against. A Registry persists onboarded hosts (SSH
// address, user, key, labels) in a shared SQLite table and resolves a
// TargetSelector from CUE configuration into the concrete hosts a station
// should run against, the way pkg/stationfns/dbrow resolves a logical row
// against its own shared SQLiteStore.
//
// # Usage
//
//	store, _ := stores.NewSQLiteStore(stores.Config{Path: "hosts.sqlite3"})
//	store.Init(ctx)
//	reg, _ := hostinv.NewRegistry(ctx, store)
//
//	reg.AddHost(ctx, &hostinv.Host{
//	    Address: "db01.internal",
//	    Port:    22,
//	    User:    "deploy",
//	    Labels:  map[string]string{"env": "production", "role": "db"},
//	})
//
//	hosts, _ := reg.Resolve(ctx, config.TargetSelector{Selector: "env=production,role=db"})
//	for _, h := range hosts {
//	    cfg := h.SSHConfig()
//	    // wire cfg into upload.Config.SSH
//	}
//
// Resolve combines a TargetSelector's Hosts, Labels, and Selector fields
// with AND semantics: a host must match every non-empty field to be
// selected. All short-circuits every other field and returns the full
// inventory.
package hostinv
