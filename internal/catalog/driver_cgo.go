//go:build cgo_sqlite

package catalog

import (
	// CGO SQLite driver, opt-in via -tags cgo_sqlite.
	_ "github.com/mattn/go-sqlite3"
)

const driverName = "sqlite3"
