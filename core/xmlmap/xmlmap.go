// Package xmlmap reads the workbook-level XML map registry (the MapInfo
// part) and selects row nodes of externally mapped XML documents.
//
// Tables reference maps by integer id only; nothing here dereferences the
// mapped schema itself.
package xmlmap

import (
	"bytes"
	"encoding/xml"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/tidemill/sheetmap/core/errors"
)

// Map is one registered XML map.
type Map struct {
	// ID is the workbook-level integer identifier referenced by column
	// bindings.
	ID int `xml:"ID,attr"`

	// Name is the map's display name (e.g., "Report_Map").
	Name string `xml:"Name,attr"`

	// RootElement names the root of the mapped XML document.
	RootElement string `xml:"RootElement,attr"`

	// SchemaID references a Schema entry in the same MapInfo part.
	SchemaID string `xml:"SchemaID,attr"`
}

// Registry is the parsed MapInfo part.
type Registry struct {
	maps []Map
}

// mapInfoXML is the schema binding for the MapInfo root element. Embedded
// schemas are skipped; only the map declarations matter here.
type mapInfoXML struct {
	XMLName xml.Name `xml:"MapInfo"`
	Maps    []Map    `xml:"Map"`
}

// ParseRegistry deserializes a MapInfo part.
func ParseRegistry(data []byte) (*Registry, error) {
	var doc mapInfoXML
	if err := xml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		return nil, errors.WrapFormat("xml map registry", err)
	}
	return &Registry{maps: doc.Maps}, nil
}

// Maps returns all registered maps in declaration order.
func (r *Registry) Maps() []Map {
	return r.maps
}

// Lookup finds a map by its integer id.
func (r *Registry) Lookup(id int) (Map, bool) {
	for _, m := range r.maps {
		if m.ID == id {
			return m, true
		}
	}
	return Map{}, false
}

// RowNodes applies a table's common XPath to an externally mapped XML
// document and returns the repeating row elements. The expression is
// compiled first so a bad path reports cleanly instead of matching
// nothing.
func RowNodes(data []byte, commonXPath string) ([]*xmlquery.Node, error) {
	if commonXPath == "" {
		return nil, errors.NewUnsupported("row selection", "table has no column bindings")
	}
	if _, err := xpath.Compile(commonXPath); err != nil {
		return nil, errors.WrapFormat("common xpath", err)
	}

	root, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, errors.WrapFormat("mapped XML document", err)
	}

	nodes, err := xmlquery.QueryAll(root, commonXPath)
	if err != nil {
		return nil, errors.Wrap(err, "xpath query failed")
	}
	return nodes, nil
}
