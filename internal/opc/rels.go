package opc

import (
	"bytes"
	"encoding/xml"
	"path"
	"strings"

	"github.com/tidemill/sheetmap/core/errors"
)

// OPC relationship and content types used by this package.
const (
	relTypeTable     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/table"
	relTypeWorksheet = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet"
	relTypeXMLMaps   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/xmlMaps"

	contentTypeTable = "application/vnd.openxmlformats-officedocument.spreadsheetml.table+xml"

	contentTypesPart = "[Content_Types].xml"
)

// Relationship is one package relationship entry.
type Relationship struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

type relationshipsXML struct {
	XMLName       xml.Name       `xml:"http://schemas.openxmlformats.org/package/2006/relationships Relationships"`
	Relationships []Relationship `xml:"Relationship"`
}

// relsPartFor maps a part name to its relationships part
// ("xl/worksheets/sheet1.xml" -> "xl/worksheets/_rels/sheet1.xml.rels").
func relsPartFor(partName string) string {
	dir, base := path.Split(partName)
	return dir + "_rels/" + base + ".rels"
}

// resolveTarget resolves a relationship target relative to its source part.
func resolveTarget(sourcePart, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Clean(path.Join(path.Dir(sourcePart), target))
}

// relativeTarget renders targetPart as a relationship target relative to
// the source part's directory, the inverse of resolveTarget.
func relativeTarget(sourcePart, targetPart string) string {
	fromDir := path.Dir(sourcePart)
	if fromDir == "." {
		return targetPart
	}

	from := strings.Split(fromDir, "/")
	to := strings.Split(targetPart, "/")
	i := 0
	for i < len(from) && i < len(to) && from[i] == to[i] {
		i++
	}

	var segments []string
	for range from[i:] {
		segments = append(segments, "..")
	}
	segments = append(segments, to[i:]...)
	return path.Join(segments...)
}

// Relationships returns the relationships of the named part. A part with
// no relationships part yields an empty slice.
func (p *Package) Relationships(partName string) ([]Relationship, error) {
	data, err := p.Part(relsPartFor(partName))
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var doc relationshipsXML
	if err := xml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		return nil, errors.WrapFormat(relsPartFor(partName), err)
	}
	return doc.Relationships, nil
}

// addRelationship appends a relationship to a part's relationships part,
// creating the part when absent.
func (p *Package) addRelationship(partName string, rel Relationship) error {
	relsName := relsPartFor(partName)

	var doc relationshipsXML
	if data, err := p.Part(relsName); err == nil {
		if err := xml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
			return errors.WrapFormat(relsName, err)
		}
	}

	doc.Relationships = append(doc.Relationships, rel)
	out, err := xml.MarshalIndent(&doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "serializing relationships")
	}
	p.SetPart(relsName, append([]byte(xml.Header), out...))
	return nil
}

// Content types part binding, subset: defaults by extension plus explicit
// per-part overrides.
type contentTypesXML struct {
	XMLName   xml.Name     `xml:"http://schemas.openxmlformats.org/package/2006/content-types Types"`
	Defaults  []ctDefault  `xml:"Default"`
	Overrides []ctOverride `xml:"Override"`
}

type ctDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type ctOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// addContentTypeOverride registers a content type for a new part.
func (p *Package) addContentTypeOverride(partName, contentType string) error {
	data, err := p.Part(contentTypesPart)
	if err != nil {
		return err
	}

	var doc contentTypesXML
	if err := xml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		return errors.WrapFormat(contentTypesPart, err)
	}

	leading := "/" + partName
	for _, o := range doc.Overrides {
		if o.PartName == leading {
			return nil
		}
	}
	doc.Overrides = append(doc.Overrides, ctOverride{PartName: leading, ContentType: contentType})

	out, err := xml.MarshalIndent(&doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "serializing content types")
	}
	p.SetPart(contentTypesPart, append([]byte(xml.Header), out...))
	return nil
}
