package table

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	smerrors "github.com/tidemill/sheetmap/core/errors"
	"github.com/tidemill/sheetmap/core/ref"
)

const tableHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

// salesTable is a representative table part with two bound columns and one
// unbound column.
const salesTable = tableHeader + `<table xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" id="1" name="Sales" displayName="SalesByRegion" ref="A1:C5">
  <tableColumns count="3">
    <tableColumn id="1" name="Region">
      <xmlColumnPr mapId="3" xpath="/Report/Row/Region" xmlDataType="string"></xmlColumnPr>
    </tableColumn>
    <tableColumn id="2" name="Notes"></tableColumn>
    <tableColumn id="3" name="Total">
      <xmlColumnPr mapId="5" xpath="/Report/Row/Total" xmlDataType="integer"></xmlColumnPr>
    </tableColumn>
  </tableColumns>
</table>
`

func mustParse(t *testing.T, doc string) *TablePart {
	t.Helper()
	tp, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	return tp
}

func TestParseAccessors(t *testing.T) {
	tp := mustParse(t, salesTable)

	if name, ok := tp.Name(); !ok || name != "Sales" {
		t.Errorf("Name() = %q, %v", name, ok)
	}
	if dn, ok := tp.DisplayName(); !ok || dn != "SalesByRegion" {
		t.Errorf("DisplayName() = %q, %v", dn, ok)
	}
	if r, ok := tp.RangeRef(); !ok || r != "A1:C5" {
		t.Errorf("RangeRef() = %q, %v", r, ok)
	}
	if got := tp.ColumnCount(); got != 3 {
		t.Errorf("ColumnCount() = %d, want 3", got)
	}
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "truncated", doc: `<table xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><tableColumns>`},
		{name: "wrong root", doc: `<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"/>`},
		{name: "not xml", doc: `PK garbage`},
		{name: "empty", doc: ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.doc))
			if err == nil {
				t.Fatal("Parse succeeded, want error")
			}
			if !errors.Is(err, smerrors.ErrMalformed) {
				t.Errorf("error = %v, want ErrMalformed", err)
			}
			var fe *smerrors.FormatError
			if !errors.As(err, &fe) {
				t.Errorf("error %v is not a *FormatError", err)
			} else if fe.Err == nil {
				t.Error("underlying decoder error was swallowed")
			}
		})
	}
}

func TestNameClearVersusEmpty(t *testing.T) {
	tp := mustParse(t, salesTable)

	tp.SetName(nil)
	if name, ok := tp.Name(); ok {
		t.Errorf("after SetName(nil), Name() = %q, want absent", name)
	}

	empty := ""
	tp.SetName(&empty)
	if name, ok := tp.Name(); !ok || name != "" {
		t.Errorf("after SetName(ptr \"\"), Name() = %q, %v, want present empty", name, ok)
	}

	// The two states serialize differently: one drops the attribute, the
	// other keeps it empty.
	var withEmpty bytes.Buffer
	if err := tp.Serialize(&withEmpty); err != nil {
		t.Fatalf("Serialize error: %v", err)
	}
	if !strings.Contains(withEmpty.String(), `name=""`) {
		t.Error("empty name attribute missing from serialized form")
	}

	tp.SetName(nil)
	var cleared bytes.Buffer
	if err := tp.Serialize(&cleared); err != nil {
		t.Fatalf("Serialize error: %v", err)
	}
	// Inspect only the root element's open tag; column elements carry
	// their own name attributes.
	rootTag := cleared.String()
	if i := strings.Index(rootTag, "<table"); i >= 0 {
		rootTag = rootTag[i:]
	}
	if j := strings.IndexByte(rootTag, '>'); j >= 0 {
		rootTag = rootTag[:j]
	}
	if strings.Contains(rootTag, ` name=`) {
		t.Error("cleared name attribute still serialized")
	}
}

func TestRangeDerivation(t *testing.T) {
	tp := mustParse(t, salesTable)

	start, ok := tp.StartCell()
	if !ok || start != (ref.Cell{Row: 0, Col: 0}) {
		t.Errorf("StartCell() = %+v, %v", start, ok)
	}
	end, ok := tp.EndCell()
	if !ok || end != (ref.Cell{Row: 4, Col: 2}) {
		t.Errorf("EndCell() = %+v, %v", end, ok)
	}
	if got := tp.RowCount(); got != 4 {
		t.Errorf("RowCount() = %d, want 4", got)
	}
}

func TestRangeAbsentOrMalformed(t *testing.T) {
	tests := []struct {
		name string
		attr string
	}{
		{name: "absent", attr: ""},
		{name: "no colon", attr: ` ref="A1"`},
		{name: "bad half", attr: ` ref="A1:NOPE"`},
		{name: "both bad", attr: ` ref="1:2"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := `<table xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"` + tt.attr + `><tableColumns/></table>`
			tp := mustParse(t, doc)

			if _, ok := tp.EndCell(); ok {
				t.Error("EndCell() resolved for unresolvable range")
			}
			if got := tp.RowCount(); got != -1 {
				t.Errorf("RowCount() = %d, want -1", got)
			}
		})
	}
}

func TestRangeCacheStableAcrossSetters(t *testing.T) {
	tp := mustParse(t, salesTable)

	first, _ := tp.StartCell()
	tp.SetDisplayName("Renamed")
	other := "Other"
	tp.SetName(&other)
	second, _ := tp.StartCell()
	if first != second {
		t.Errorf("StartCell changed across name setters: %+v vs %+v", first, second)
	}
}

func TestSheetPartHandle(t *testing.T) {
	tp := mustParse(t, salesTable)
	if got := tp.SheetPart(); got != "" {
		t.Errorf("SheetPart() = %q before container assignment", got)
	}
	tp.SetSheetPart("xl/worksheets/sheet1.xml")
	if got := tp.SheetPart(); got != "xl/worksheets/sheet1.xml" {
		t.Errorf("SheetPart() = %q", got)
	}
}

func TestRoundTrip(t *testing.T) {
	tp := mustParse(t, salesTable)

	var buf bytes.Buffer
	if err := tp.Serialize(&buf); err != nil {
		t.Fatalf("Serialize error: %v", err)
	}

	again, err := Parse(&buf)
	if err != nil {
		t.Fatalf("reparse error: %v", err)
	}

	name1, ok1 := tp.Name()
	name2, ok2 := again.Name()
	if name1 != name2 || ok1 != ok2 {
		t.Errorf("name changed across round trip: %q/%v vs %q/%v", name1, ok1, name2, ok2)
	}
	dn1, _ := tp.DisplayName()
	dn2, _ := again.DisplayName()
	if dn1 != dn2 {
		t.Errorf("display name changed: %q vs %q", dn1, dn2)
	}
	r1, _ := tp.RangeRef()
	r2, _ := again.RangeRef()
	if r1 != r2 {
		t.Errorf("range changed: %q vs %q", r1, r2)
	}

	b1, b2 := tp.Bindings(), again.Bindings()
	if len(b1) != len(b2) {
		t.Fatalf("binding count changed: %d vs %d", len(b1), len(b2))
	}
	for i := range b1 {
		if b1[i].Column != b2[i].Column || b1[i].MapID != b2[i].MapID || b1[i].XPath != b2[i].XPath {
			t.Errorf("binding %d changed: %+v vs %+v", i, b1[i], b2[i])
		}
	}
}

func TestFreshTableSerializes(t *testing.T) {
	tp := New()
	tp.SetDisplayName("Empty")

	var buf bytes.Buffer
	if err := tp.Serialize(&buf); err != nil {
		t.Fatalf("Serialize error: %v", err)
	}
	again, err := Parse(&buf)
	if err != nil {
		t.Fatalf("reparse error: %v", err)
	}
	if dn, ok := again.DisplayName(); !ok || dn != "Empty" {
		t.Errorf("DisplayName() = %q, %v", dn, ok)
	}
	if got := again.RowCount(); got != -1 {
		t.Errorf("RowCount() = %d, want -1 for rangeless table", got)
	}
}
