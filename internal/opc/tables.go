package opc

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tidemill/sheetmap/core/errors"
	"github.com/tidemill/sheetmap/core/table"
	"github.com/tidemill/sheetmap/core/xmlmap"
	"github.com/tidemill/sheetmap/internal/logging"
)

// TableRef ties a parsed table to the package part it came from and the
// worksheet that owns it.
type TableRef struct {
	// PartName is the table part's package path (e.g., "xl/tables/table1.xml").
	PartName string

	// Sheet is the owning worksheet's part name. The table holds this as a
	// handle, never as an object reference back into the package.
	Sheet string

	// Table is the parsed table part.
	Table *table.TablePart
}

// TableParts parses every table part reachable from a worksheet
// relationship, in sorted worksheet order. Parsed once per package.
func (p *Package) TableParts() ([]TableRef, error) {
	if p.tablesDone {
		return p.tables, nil
	}

	sheets := p.partsMatching(func(name string) bool {
		return strings.HasPrefix(name, "xl/worksheets/") && strings.HasSuffix(name, ".xml")
	})

	var refs []TableRef
	for _, sheet := range sheets {
		rels, err := p.Relationships(sheet)
		if err != nil {
			return nil, err
		}
		for _, rel := range rels {
			if rel.Type != relTypeTable {
				continue
			}
			partName := resolveTarget(sheet, rel.Target)
			data, err := p.Part(partName)
			if err != nil {
				return nil, err
			}

			tp, err := table.Parse(bytes.NewReader(data))
			if err != nil {
				return nil, errors.Wrapf(err, "table part %s", partName)
			}
			tp.SetSheetPart(sheet)
			logging.TableParsed(partName, sheet, tp.ColumnCount(), len(tp.Bindings()))
			refs = append(refs, TableRef{PartName: partName, Sheet: sheet, Table: tp})
		}
	}

	p.tables = refs
	p.tablesDone = true
	return refs, nil
}

// FindTable locates a parsed table by name or display name.
func (p *Package) FindTable(name string) (TableRef, error) {
	refs, err := p.TableParts()
	if err != nil {
		return TableRef{}, err
	}
	for _, ref := range refs {
		if n, ok := ref.Table.Name(); ok && n == name {
			return ref, nil
		}
		if dn, ok := ref.Table.DisplayName(); ok && dn == name {
			return ref, nil
		}
	}
	return TableRef{}, errors.NewNotFound("table", name)
}

// flushTables serializes parsed tables back into their parts so Save
// writes current descriptor state.
func (p *Package) flushTables() error {
	if !p.tablesDone {
		return nil
	}
	for _, ref := range p.tables {
		var buf bytes.Buffer
		if err := ref.Table.Serialize(&buf); err != nil {
			return errors.Wrapf(err, "table part %s", ref.PartName)
		}
		p.SetPart(ref.PartName, buf.Bytes())
	}
	return nil
}

// XMLMaps parses the workbook's XML map registry. Returns a NotFoundError
// when the workbook has no xmlMaps part.
func (p *Package) XMLMaps() (*xmlmap.Registry, error) {
	name := "xl/xmlMaps.xml"
	if rels, err := p.Relationships("xl/workbook.xml"); err == nil {
		for _, rel := range rels {
			if rel.Type == relTypeXMLMaps {
				name = resolveTarget("xl/workbook.xml", rel.Target)
				break
			}
		}
	}

	data, err := p.Part(name)
	if err != nil {
		return nil, errors.NewNotFound("xml map registry", name)
	}
	return xmlmap.ParseRegistry(data)
}

// AddTablePart serializes t as a new table part, relates it to the given
// worksheet, and registers its content type. The relationship id is minted
// from a UUID rather than scanning the sheet for the next free "rId".
// Returns the new part name.
func (p *Package) AddTablePart(sheet string, t *table.TablePart) (string, error) {
	if !p.HasPart(sheet) {
		return "", errors.NewNotFound("worksheet part", sheet)
	}

	n := 1
	for p.HasPart(fmt.Sprintf("xl/tables/table%d.xml", n)) {
		n++
	}
	partName := fmt.Sprintf("xl/tables/table%d.xml", n)

	var buf bytes.Buffer
	if err := t.Serialize(&buf); err != nil {
		return "", err
	}
	p.SetPart(partName, buf.Bytes())
	t.SetSheetPart(sheet)

	relID := "R" + strings.ReplaceAll(uuid.NewString(), "-", "")
	rel := Relationship{
		ID:     relID,
		Type:   relTypeTable,
		Target: relativeTarget(sheet, partName),
	}
	if err := p.addRelationship(sheet, rel); err != nil {
		return "", err
	}
	if err := p.addContentTypeOverride(partName, contentTypeTable); err != nil {
		return "", err
	}

	if p.tablesDone {
		p.tables = append(p.tables, TableRef{PartName: partName, Sheet: sheet, Table: t})
	}
	return partName, nil
}
