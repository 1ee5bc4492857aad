package vba

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/richardlehane/mscfb"
)

// ErrNoVBAStreams reports a compound file without the VBA storage.
var ErrNoVBAStreams = errors.New("vba: compound file has no VBA storage")

// projectStreams is the flattened stream table of a vbaProject.bin.
type projectStreams struct {
	dir     []byte
	project []byte
	modules map[string][]byte
}

// readStreams walks the compound file and collects the dir stream, the
// PROJECT stream and every stream under the VBA storage. Stream names are
// matched case-insensitively; Excel is not consistent about casing.
func readStreams(r io.ReaderAt) (*projectStreams, error) {
	doc, err := mscfb.New(r)
	if err != nil {
		return nil, fmt.Errorf("vba: opening compound file: %w", err)
	}

	streams := &projectStreams{modules: make(map[string][]byte)}
	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		if entry.Size == 0 {
			continue
		}
		data, readErr := io.ReadAll(entry)
		if readErr != nil {
			continue
		}
		path := strings.Join(append(entry.Path, entry.Name), "/")
		lower := strings.ToLower(path)
		switch {
		case lower == "vba/dir":
			streams.dir = data
		case lower == "project":
			streams.project = data
		case strings.HasPrefix(lower, "vba/"):
			streams.modules[strings.ToLower(entry.Name)] = data
		}
	}

	if streams.dir == nil {
		return nil, ErrNoVBAStreams
	}
	return streams, nil
}

// moduleSource returns the decompressed source bytes of one module stream.
// The compressed container starts at the module's dir offset; bytes before
// it are the performance cache and are skipped.
func (s *projectStreams) moduleSource(rec moduleRecord) ([]byte, error) {
	name := rec.StreamName
	if name == "" {
		name = rec.Name
	}
	data, ok := s.modules[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("vba: module stream %q not found", name)
	}
	if int(rec.Offset) > len(data) {
		return nil, fmt.Errorf("vba: module %q offset %d beyond stream", rec.Name, rec.Offset)
	}
	source, err := Decompress(data[rec.Offset:])
	if err != nil {
		return nil, fmt.Errorf("vba: module %q: %w", rec.Name, err)
	}
	return source, nil
}
