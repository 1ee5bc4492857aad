// Package container provides read-only access to the parts of an OOXML
// workbook package (a zip archive of XML and binary parts).
package container

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"sort"
)

// WorkbookPart is the mandatory structural part of a workbook package.
const WorkbookPart = "xl/workbook.xml"

// ErrPartNotFound indicates a requested part is absent from the package.
var ErrPartNotFound = errors.New("part not found")

// StructuralError indicates the package itself is unusable: the archive is
// unreadable or the mandatory workbook part is missing. No analysis is
// possible when it occurs.
type StructuralError struct {
	Path string
	Part string
	Err  error
}

func (e *StructuralError) Error() string {
	if e.Part != "" {
		return fmt.Sprintf("structural error in %s: part %q: %v", e.Path, e.Part, e.Err)
	}
	return fmt.Sprintf("structural error in %s: %v", e.Path, e.Err)
}

func (e *StructuralError) Unwrap() error { return e.Err }

// Container is an open workbook package. Part contents are decompressed
// lazily, on first read; listing parts touches only the archive directory.
// The underlying handle must be released with Close.
type Container struct {
	path   string
	closer io.Closer
	parts  map[string]*zip.File
}

// Open opens the package at path and verifies the mandatory workbook part
// is present. A failure to read the archive or a missing workbook part is
// reported as a *StructuralError.
func Open(path string) (*Container, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, &StructuralError{Path: path, Err: err}
	}
	c := newContainer(path, &r.Reader, r)
	if !c.HasPart(WorkbookPart) {
		r.Close()
		return nil, &StructuralError{Path: path, Part: WorkbookPart, Err: ErrPartNotFound}
	}
	return c, nil
}

func newContainer(path string, zr *zip.Reader, closer io.Closer) *Container {
	parts := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		parts[f.Name] = f
	}
	return &Container{path: path, closer: closer, parts: parts}
}

// Path returns the file path the container was opened from.
func (c *Container) Path() string { return c.path }

// ListParts returns the names of all parts in the package, sorted.
// No part content is decompressed.
func (c *Container) ListParts() []string {
	names := make([]string, 0, len(c.parts))
	for name := range c.parts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasPart reports whether a part exists in the package.
func (c *Container) HasPart(name string) bool {
	_, ok := c.parts[name]
	return ok
}

// ReadPart decompresses and returns the content of one part. A missing part
// or corrupt entry is reported as a *StructuralError wrapping ErrPartNotFound
// or the underlying decompression error.
func (c *Container) ReadPart(name string) ([]byte, error) {
	f, ok := c.parts[name]
	if !ok {
		return nil, &StructuralError{Path: c.path, Part: name, Err: ErrPartNotFound}
	}
	rc, err := f.Open()
	if err != nil {
		return nil, &StructuralError{Path: c.path, Part: name, Err: err}
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, &StructuralError{Path: c.path, Part: name, Err: err}
	}
	return data, nil
}

// Close releases the underlying archive handle.
func (c *Container) Close() error {
	if c.closer == nil {
		return nil
	}
	err := c.closer.Close()
	c.closer = nil
	return err
}
