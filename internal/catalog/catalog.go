// Package catalog maintains a SQLite index of table metadata across
// workbook packages.
//
// The driver is selected at build time: modernc.org/sqlite by default,
// mattn/go-sqlite3 with -tags cgo_sqlite.
package catalog

import (
	"database/sql"
	"sort"
	"strconv"
	"strings"

	"github.com/tidemill/sheetmap/core/errors"
	"github.com/tidemill/sheetmap/core/table"
	"github.com/tidemill/sheetmap/internal/opc"
)

const schema = `
CREATE TABLE IF NOT EXISTS tables (
	workbook     TEXT NOT NULL,
	part         TEXT NOT NULL,
	sheet        TEXT NOT NULL,
	name         TEXT,
	display_name TEXT,
	ref          TEXT,
	columns      INTEGER NOT NULL,
	bindings     INTEGER NOT NULL,
	common_xpath TEXT NOT NULL,
	map_ids      TEXT NOT NULL,
	PRIMARY KEY (workbook, part)
);
`

// Entry is one indexed table.
type Entry struct {
	Workbook    string
	Part        string
	Sheet       string
	Name        string
	DisplayName string
	Ref         string
	Columns     int
	Bindings    int
	CommonXPath string
	MapIDs      string
}

// Catalog wraps the index database.
type Catalog struct {
	db *sql.DB
}

// Open opens (and initializes) the catalog database at path.
func Open(path string) (*Catalog, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "initializing catalog schema")
	}
	return &Catalog{db: db}, nil
}

// Close releases the database handle.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Index records every table of the package under the workbook path,
// replacing any rows from a previous indexing of the same workbook.
func (c *Catalog) Index(workbook string, pkg *opc.Package) (int, error) {
	refs, err := pkg.TableParts()
	if err != nil {
		return 0, err
	}

	tx, err := c.db.Begin()
	if err != nil {
		return 0, errors.Wrap(err, "starting catalog transaction")
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM tables WHERE workbook = ?`, workbook); err != nil {
		return 0, errors.Wrap(err, "clearing stale rows")
	}

	stmt, err := tx.Prepare(`INSERT INTO tables
		(workbook, part, sheet, name, display_name, ref, columns, bindings, common_xpath, map_ids)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, errors.Wrap(err, "preparing insert")
	}
	defer stmt.Close()

	for _, ref := range refs {
		name, _ := ref.Table.Name()
		displayName, _ := ref.Table.DisplayName()
		rangeRef, _ := ref.Table.RangeRef()
		if _, err := stmt.Exec(
			workbook, ref.PartName, ref.Sheet,
			name, displayName, rangeRef,
			ref.Table.ColumnCount(), len(ref.Table.Bindings()),
			ref.Table.CommonXPath(), mapIDs(ref.Table.Bindings()),
		); err != nil {
			return 0, errors.Wrapf(err, "indexing %s", ref.PartName)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "committing catalog transaction")
	}
	return len(refs), nil
}

// List returns indexed tables, optionally filtered by workbook, sorted by
// workbook then part.
func (c *Catalog) List(workbook string) ([]Entry, error) {
	query := `SELECT workbook, part, sheet, name, display_name, ref, columns, bindings, common_xpath, map_ids
		FROM tables`
	var args []any
	if workbook != "" {
		query += ` WHERE workbook = ?`
		args = append(args, workbook)
	}
	query += ` ORDER BY workbook, part`

	rows, err := c.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "querying catalog")
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Workbook, &e.Part, &e.Sheet, &e.Name, &e.DisplayName,
			&e.Ref, &e.Columns, &e.Bindings, &e.CommonXPath, &e.MapIDs); err != nil {
			return nil, errors.Wrap(err, "scanning catalog row")
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// mapIDs renders the distinct map ids of a table's bindings as a sorted,
// comma-separated list.
func mapIDs(bindings []table.ColumnBinding) string {
	seen := make(map[int]bool)
	var ids []int
	for _, b := range bindings {
		if !seen[b.MapID] {
			seen[b.MapID] = true
			ids = append(ids, b.MapID)
		}
	}
	sort.Ints(ids)
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
