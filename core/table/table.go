// Package table models a single table definition inside a spreadsheet
// package: a rectangular cell range whose columns may be bound to nodes of
// an externally mapped XML document via per-column XPath expressions.
//
// A TablePart derives its range endpoints, column bindings, and common
// XPath lazily and caches each at most once per instance. The caches are
// plain check-then-compute fields: a TablePart must not see its first
// access to a derived value from two goroutines at once. Guard externally
// if shared.
package table

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/tidemill/sheetmap/core/errors"
	"github.com/tidemill/sheetmap/core/ref"
)

// TablePart wraps a parsed table descriptor and exposes structured
// accessors over it.
type TablePart struct {
	doc tableXML

	// sheetPart is the package part name of the owning worksheet, recorded
	// by the container on load. A handle, not a reference: resolving it
	// goes back through the package.
	sheetPart string

	// Derived state, each computed at most once and never invalidated.
	// Mutating columns after first access is unsupported.
	cellsDone    bool
	startCell    *ref.Cell
	endCell      *ref.Cell
	bindingsDone bool
	bindings     []ColumnBinding
	commonXPath  *string
}

// New returns an empty TablePart with a default-initialized descriptor.
func New() *TablePart {
	return &TablePart{}
}

// Parse deserializes a table descriptor from r. Malformed content yields a
// FormatError wrapping the decoder's error; no partially initialized
// TablePart is returned.
func Parse(r io.Reader) (*TablePart, error) {
	var doc tableXML
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.WrapFormat("table part", err)
	}
	return &TablePart{doc: doc}, nil
}

// Serialize writes the descriptor in canonical form. No semantic
// validation is performed; keeping the descriptor consistent before saving
// is the caller's responsibility.
func (t *TablePart) Serialize(w io.Writer) error {
	data, err := xml.MarshalIndent(&t.doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "serializing table part")
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return errors.NewIO("write", "table part", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return errors.NewIO("write", "table part", err)
	}
	return nil
}

// Name returns the table name attribute, reporting whether it was present.
func (t *TablePart) Name() (string, bool) {
	if t.doc.Name == nil {
		return "", false
	}
	return *t.doc.Name, true
}

// SetName sets the name attribute. A nil value clears the attribute
// entirely, which is distinct from setting the empty string. Derived
// caches are unrelated to the name and are left untouched.
func (t *TablePart) SetName(name *string) {
	t.doc.Name = name
}

// DisplayName returns the displayName attribute, reporting whether it was
// present.
func (t *TablePart) DisplayName() (string, bool) {
	if t.doc.DisplayName == nil {
		return "", false
	}
	return *t.doc.DisplayName, true
}

// SetDisplayName sets the displayName attribute.
func (t *TablePart) SetDisplayName(name string) {
	t.doc.DisplayName = &name
}

// RangeRef returns the raw ref attribute ("TL:BR"), reporting whether it
// was present.
func (t *TablePart) RangeRef() (string, bool) {
	if t.doc.Ref == "" {
		return "", false
	}
	return t.doc.Ref, true
}

// ColumnCount returns the total declared column count, bound or not.
func (t *TablePart) ColumnCount() int {
	return len(t.doc.Columns.Columns)
}

// SheetPart returns the part name of the owning worksheet, or "" when the
// table was parsed outside a package.
func (t *TablePart) SheetPart() string {
	return t.sheetPart
}

// SetSheetPart records the owning worksheet's part name. Called by the
// package container on load.
func (t *TablePart) SetSheetPart(name string) {
	t.sheetPart = name
}

// StartCell returns the top-left cell of the table's range. The second
// result is false when the ref attribute is absent or its first half is
// malformed.
func (t *TablePart) StartCell() (ref.Cell, bool) {
	t.deriveCells()
	if t.startCell == nil {
		return ref.Cell{}, false
	}
	return *t.startCell, true
}

// EndCell returns the bottom-right cell of the table's range. The second
// result is false when the ref attribute is absent or its second half is
// malformed.
func (t *TablePart) EndCell() (ref.Cell, bool) {
	t.deriveCells()
	if t.endCell == nil {
		return ref.Cell{}, false
	}
	return *t.endCell, true
}

// RowCount returns the difference between the end and start rows, or -1
// when either endpoint is unavailable. The result is an approximation: it
// ignores autofiltering and is not an authoritative row count.
func (t *TablePart) RowCount() int {
	start, ok := t.StartCell()
	if !ok {
		return -1
	}
	end, ok := t.EndCell()
	if !ok {
		return -1
	}
	return end.Row - start.Row
}

// deriveCells splits the ref attribute once on ':' and parses each half
// independently. Runs at most once; a malformed half simply leaves its
// endpoint unset.
func (t *TablePart) deriveCells() {
	if t.cellsDone {
		return
	}
	t.cellsDone = true

	tl, br, ok := strings.Cut(t.doc.Ref, ":")
	if !ok {
		return
	}
	if start, err := ref.ParseCell(tl); err == nil {
		t.startCell = &start
	}
	if end, err := ref.ParseCell(br); err == nil {
		t.endCell = &end
	}
}
