// Package database provides the SQLite store for AeroSense Core.
//
// The climate repository, analytics, and the HTTP API all share this
// single connection. WAL mode keeps reads flowing while the ingest
// pipeline writes, and a one-connection pool sidesteps SQLite's
// single-writer lock.
//
// Usage:
//
//	db, err := database.Open(cfg.Database)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Migration Strategy:
//
// Schema changes are additive. New columns are nullable or carry a
// DEFAULT so that telemetry written by an older binary stays readable,
// and each migration file has both .up.sql and .down.sql halves. The
// migration files are embedded into the binary by the main package.
package database
