package catalog

import (
	"archive/zip"
	"bytes"
	"path/filepath"
	"testing"

	"github.com/tidemill/sheetmap/internal/opc"
)

func fixturePackage(t *testing.T) *opc.Package {
	t.Helper()

	parts := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
</Types>`,
		"xl/worksheets/sheet1.xml": `<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheetData/></worksheet>`,
		"xl/worksheets/_rels/sheet1.xml.rels": `<?xml version="1.0"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/table" Target="../tables/table1.xml"/>
</Relationships>`,
		"xl/tables/table1.xml": `<table xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" name="Sales" displayName="SalesByRegion" ref="A1:B5">
  <tableColumns count="2">
    <tableColumn id="1" name="Region"><xmlColumnPr mapId="3" xpath="/Report/Row/Region"/></tableColumn>
    <tableColumn id="2" name="Total"><xmlColumnPr mapId="5" xpath="/Report/Row/Total"/></tableColumn>
  </tableColumns>
</table>`,
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range []string{"[Content_Types].xml", "xl/worksheets/sheet1.xml", "xl/worksheets/_rels/sheet1.xml.rels", "xl/tables/table1.xml"} {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create: %v", err)
		}
		if _, err := w.Write([]byte(parts[name])); err != nil {
			t.Fatalf("zip write: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}

	pkg, err := opc.Load(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	return pkg
}

func TestIndexAndList(t *testing.T) {
	db := filepath.Join(t.TempDir(), "catalog.db")
	cat, err := Open(db)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	defer cat.Close()

	pkg := fixturePackage(t)
	n, err := cat.Index("books/sales.xlsx", pkg)
	if err != nil {
		t.Fatalf("Index error: %v", err)
	}
	if n != 1 {
		t.Fatalf("Index count = %d, want 1", n)
	}

	entries, err := cat.List("")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}

	e := entries[0]
	if e.Workbook != "books/sales.xlsx" || e.Part != "xl/tables/table1.xml" {
		t.Errorf("entry identity = %q / %q", e.Workbook, e.Part)
	}
	if e.Name != "Sales" || e.DisplayName != "SalesByRegion" || e.Ref != "A1:B5" {
		t.Errorf("entry descriptor fields = %+v", e)
	}
	if e.Columns != 2 || e.Bindings != 2 {
		t.Errorf("counts = %d cols / %d bindings", e.Columns, e.Bindings)
	}
	if e.CommonXPath != "/Report/Row" {
		t.Errorf("CommonXPath = %q", e.CommonXPath)
	}
	if e.MapIDs != "3,5" {
		t.Errorf("MapIDs = %q, want %q", e.MapIDs, "3,5")
	}
}

func TestReindexReplaces(t *testing.T) {
	db := filepath.Join(t.TempDir(), "catalog.db")
	cat, err := Open(db)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	defer cat.Close()

	if _, err := cat.Index("book.xlsx", fixturePackage(t)); err != nil {
		t.Fatalf("first Index: %v", err)
	}
	if _, err := cat.Index("book.xlsx", fixturePackage(t)); err != nil {
		t.Fatalf("second Index: %v", err)
	}

	entries, err := cat.List("book.xlsx")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("reindex duplicated rows: %d entries", len(entries))
	}
}
