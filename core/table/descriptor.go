package table

import "encoding/xml"

// tableXML is the schema binding for the table part root element
// (ECMA-376 CT_Table, subset).
//
// Name and DisplayName are pointers so an absent attribute stays
// distinguishable from an empty one across a round trip.
type tableXML struct {
	XMLName     xml.Name        `xml:"http://schemas.openxmlformats.org/spreadsheetml/2006/main table"`
	ID          uint            `xml:"id,attr,omitempty"`
	Name        *string         `xml:"name,attr"`
	DisplayName *string         `xml:"displayName,attr"`
	Ref         string          `xml:"ref,attr,omitempty"`
	TableType   string          `xml:"tableType,attr,omitempty"`
	HeaderRows  *uint           `xml:"headerRowCount,attr"`
	TotalsRows  uint            `xml:"totalsRowCount,attr,omitempty"`
	AutoFilter  *autoFilterXML  `xml:"autoFilter"`
	Columns     tableColumnsXML `xml:"tableColumns"`
	StyleInfo   *styleInfoXML   `xml:"tableStyleInfo"`
}

// autoFilterXML is carried through untouched; filter criteria are not
// interpreted here.
type autoFilterXML struct {
	Ref string `xml:"ref,attr,omitempty"`
}

type tableColumnsXML struct {
	Count   uint             `xml:"count,attr,omitempty"`
	Columns []tableColumnXML `xml:"tableColumn"`
}

// tableColumnXML is one positional column entry. A column is bound to a
// node of an externally mapped XML document only when XMLColumnPr is set.
type tableColumnXML struct {
	ID          uint            `xml:"id,attr"`
	Name        string          `xml:"name,attr"`
	UniqueName  string          `xml:"uniqueName,attr,omitempty"`
	XMLColumnPr *xmlColumnPrXML `xml:"xmlColumnPr"`
}

// xmlColumnPrXML carries a column's XML binding: the workbook-level map id
// and the XPath of the mapped node.
type xmlColumnPrXML struct {
	MapID       int    `xml:"mapId,attr"`
	XPath       string `xml:"xpath,attr"`
	XMLDataType string `xml:"xmlDataType,attr,omitempty"`
}

type styleInfoXML struct {
	Name              string `xml:"name,attr,omitempty"`
	ShowFirstColumn   int    `xml:"showFirstColumn,attr"`
	ShowLastColumn    int    `xml:"showLastColumn,attr"`
	ShowRowStripes    int    `xml:"showRowStripes,attr"`
	ShowColumnStripes int    `xml:"showColumnStripes,attr"`
}
