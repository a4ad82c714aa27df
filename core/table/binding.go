package table

import (
	"strconv"
	"strings"

	"github.com/antchfx/xpath"

	"github.com/tidemill/sheetmap/core/errors"
)

// ColumnBinding is the derived view of one XML-bound column: the owning
// column's declaration index, the workbook-level map id, and the binding
// XPath both raw and split on '/'. A path "/a/b" yields tokens
// ["", "a", "b"]; the leading empty token reflects the initial slash.
type ColumnBinding struct {
	// Column is the zero-based index of the column in declaration order.
	// Unbound columns are skipped outright, so indices into the binding
	// list do not line up with raw column indices.
	Column int

	// MapID identifies the external XML map at the workbook level.
	MapID int

	// XPath is the raw binding expression.
	XPath string

	// Tokens is XPath split on '/'.
	Tokens []string
}

// Bindings returns the table's column bindings in declaration order,
// containing only columns that carry an XML binding. Built once and
// cached.
func (t *TablePart) Bindings() []ColumnBinding {
	if !t.bindingsDone {
		t.bindingsDone = true
		for i, col := range t.doc.Columns.Columns {
			pr := col.XMLColumnPr
			if pr == nil {
				continue
			}
			t.bindings = append(t.bindings, ColumnBinding{
				Column: i,
				MapID:  pr.MapID,
				XPath:  pr.XPath,
				Tokens: strings.Split(pr.XPath, "/"),
			})
		}
	}
	return t.bindings
}

// ParticipatesInMap reports whether at least one column binding references
// the map with the given id. Short-circuits on the first match; a table
// with no bindings participates in no map.
func (t *TablePart) ParticipatesInMap(id int) bool {
	for _, b := range t.Bindings() {
		if b.MapID == id {
			return true
		}
	}
	return false
}

// CommonXPath returns the longest token prefix shared by every bound
// column's XPath, identifying the repeating row element of the mapped
// external XML. Empty when no column carries a binding. Memoized for the
// instance's lifetime.
//
// When one binding's path is a strict prefix of the running sequence the
// sequence is deliberately NOT truncated to the shorter length, so the
// result can be longer than one of the inputs. Kept for behavioral
// compatibility with existing producers.
func (t *TablePart) CommonXPath() string {
	if t.commonXPath != nil {
		return *t.commonXPath
	}

	var common []string
	for i, b := range t.Bindings() {
		if i == 0 {
			common = append([]string(nil), b.Tokens...)
			continue
		}

		limit := len(common)
		if len(b.Tokens) < limit {
			limit = len(b.Tokens)
		}
		for j := 0; j < limit; j++ {
			if common[j] != b.Tokens[j] {
				common = common[:j]
				break
			}
		}
		// Every compared position matched: leave the running sequence
		// unchanged, even when b.Tokens is the shorter side.
	}

	var sb strings.Builder
	for i := 1; i < len(common); i++ {
		sb.WriteByte('/')
		sb.WriteString(common[i])
	}

	result := sb.String()
	t.commonXPath = &result
	return result
}

// ValidateBindings compiles every binding's XPath expression and returns a
// FormatError for the first one that does not compile. Parsing a table
// part never rejects binding expressions; callers that care run this
// separately.
func (t *TablePart) ValidateBindings() error {
	for _, b := range t.Bindings() {
		if _, err := xpath.Compile(b.XPath); err != nil {
			return &errors.FormatError{
				Part:    "column binding",
				Message: "column " + strconv.Itoa(b.Column) + ": invalid xpath " + b.XPath,
				Err:     err,
			}
		}
	}
	return nil
}
