//go:build !cgo_sqlite

package catalog

import (
	// Pure Go SQLite driver, the default build.
	_ "modernc.org/sqlite"
)

const driverName = "sqlite"
