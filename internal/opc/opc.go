// Package opc reads and writes the ZIP-based OPC container that holds a
// spreadsheet document (.xlsx) and locates its table parts.
//
// Parts are loaded into memory with a BLAKE3 content digest; on save,
// unchanged parts are streamed back as-is and only modified parts are
// re-serialized.
package opc

import (
	"archive/zip"
	"io"
	"os"
	"sort"

	"github.com/tidemill/sheetmap/core/digest"
	"github.com/tidemill/sheetmap/core/errors"
	"github.com/tidemill/sheetmap/internal/logging"
)

// Part is one named entry of the package.
type Part struct {
	Name string
	data []byte

	// loadDigest is the BLAKE3 digest of the part as it was read from
	// disk; empty for parts added after load.
	loadDigest string
}

// Data returns the part's current bytes.
func (p *Part) Data() []byte {
	return p.data
}

// Digest returns the BLAKE3 digest of the part's current bytes.
func (p *Part) Digest() string {
	return digest.Sum(p.data)
}

// Package is an in-memory OPC container.
type Package struct {
	path  string
	parts map[string]*Part
	order []string // entry order from the source archive, additions appended

	tables     []TableRef
	tablesDone bool
}

// Open reads the package at path into memory.
func Open(path string) (*Package, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.NewIO("stat", path, err)
	}

	pkg, err := Load(f, info.Size())
	if err != nil {
		return nil, err
	}
	pkg.path = path
	return pkg, nil
}

// Load reads a package from an in-memory or seekable source.
func Load(r io.ReaderAt, size int64) (*Package, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, errors.WrapFormat("package", err)
	}

	pkg := &Package{parts: make(map[string]*Part)}
	for _, entry := range zr.File {
		rc, err := entry.Open()
		if err != nil {
			return nil, errors.NewIO("read", entry.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, errors.NewIO("read", entry.Name, err)
		}

		pkg.parts[entry.Name] = &Part{
			Name:       entry.Name,
			data:       data,
			loadDigest: digest.Sum(data),
		}
		pkg.order = append(pkg.order, entry.Name)
		logging.PartLoaded(entry.Name, len(data))
	}
	return pkg, nil
}

// Path returns the file path the package was opened from, or "".
func (p *Package) Path() string {
	return p.path
}

// Part returns the bytes of the named part.
func (p *Package) Part(name string) ([]byte, error) {
	part, ok := p.parts[name]
	if !ok {
		return nil, errors.NewNotFound("part", name)
	}
	return part.data, nil
}

// HasPart reports whether the named part exists.
func (p *Package) HasPart(name string) bool {
	_, ok := p.parts[name]
	return ok
}

// SetPart adds or replaces a part.
func (p *Package) SetPart(name string, data []byte) {
	if part, ok := p.parts[name]; ok {
		part.data = data
		return
	}
	p.parts[name] = &Part{Name: name, data: data}
	p.order = append(p.order, name)
}

// Modified reports whether the named part's bytes differ from what was
// loaded. Parts added after load always count as modified.
func (p *Package) Modified(name string) bool {
	part, ok := p.parts[name]
	if !ok {
		return false
	}
	return part.loadDigest == "" || digest.Sum(part.data) != part.loadDigest
}

// PartNames returns all part names in archive order.
func (p *Package) PartNames() []string {
	return append([]string(nil), p.order...)
}

// partsMatching returns sorted part names for which match returns true.
func (p *Package) partsMatching(match func(string) bool) []string {
	var names []string
	for name := range p.parts {
		if match(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Save writes the package to path. It serializes loaded table parts back
// into their parts first, then writes every part; the output stream is
// opened and closed here. Saving over the source path is allowed since
// the whole package is memory-resident.
func (p *Package) Save(path string) error {
	if err := p.flushTables(); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.NewIO("create", path, err)
	}

	zw := zip.NewWriter(f)
	rewritten := 0
	for _, name := range p.order {
		part := p.parts[name]
		w, err := zw.Create(name)
		if err != nil {
			f.Close()
			return errors.NewIO("write", name, err)
		}
		if _, err := w.Write(part.data); err != nil {
			f.Close()
			return errors.NewIO("write", name, err)
		}
		if p.Modified(name) {
			rewritten++
		}
	}

	if err := zw.Close(); err != nil {
		f.Close()
		return errors.NewIO("finalize", path, err)
	}
	if err := f.Close(); err != nil {
		return errors.NewIO("close", path, err)
	}

	logging.PackageSaved(path, len(p.order), rewritten)
	return nil
}
