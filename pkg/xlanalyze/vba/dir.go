package vba

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
)

// dir stream record ids, per MS-OVBA.
const (
	recProjectCodePage = 0x0003
	recProjectName     = 0x0004
	recModuleName      = 0x0019
	recModuleStream    = 0x001A
	recModuleType      = 0x0021
	recModuleDocument  = 0x0022
	recModuleOffset    = 0x0031
	recTerminator      = 0x0010
)

// moduleRecord is one module's metadata from the dir stream. NonProcedural
// marks document, class and designer modules; the PROJECT stream settles
// which of those it is.
type moduleRecord struct {
	Name          string
	StreamName    string
	Offset        uint32
	NonProcedural bool
}

// projectDir is the decoded dir stream.
type projectDir struct {
	Name     string
	CodePage uint16
	Modules  []moduleRecord
}

// parseDir walks the records of a decompressed dir stream. Unknown records
// are skipped by their declared size, so newer writers do not break the
// walk. A module record is closed when the next MODULENAME appears or the
// stream ends.
func parseDir(data []byte) (*projectDir, error) {
	dir := &projectDir{CodePage: 1252}
	decoder := codePageDecoder(dir.CodePage)

	var current *moduleRecord
	flush := func() {
		if current != nil {
			dir.Modules = append(dir.Modules, *current)
			current = nil
		}
	}

	pos := 0
	for pos+6 <= len(data) {
		id := binary.LittleEndian.Uint16(data[pos:])
		size := int(binary.LittleEndian.Uint32(data[pos+2:]))
		pos += 6
		// PROJECTVERSION declares a size of 4 but carries 6 bytes
		if id == 0x0009 {
			size = 6
		}
		if pos+size > len(data) {
			return nil, fmt.Errorf("vba: dir record 0x%04X overruns stream", id)
		}
		rec := data[pos : pos+size]
		pos += size

		switch id {
		case recProjectCodePage:
			if len(rec) >= 2 {
				dir.CodePage = binary.LittleEndian.Uint16(rec)
				decoder = codePageDecoder(dir.CodePage)
			}
		case recProjectName:
			dir.Name = decodeMBCS(decoder, rec)
		case recModuleName:
			flush()
			current = &moduleRecord{Name: decodeMBCS(decoder, rec)}
		case recModuleStream:
			if current != nil {
				current.StreamName = decodeMBCS(decoder, rec)
			}
		case recModuleOffset:
			if current != nil && len(rec) >= 4 {
				current.Offset = binary.LittleEndian.Uint32(rec)
			}
		case recModuleDocument:
			if current != nil {
				current.NonProcedural = true
			}
		case recTerminator:
			flush()
			return dir, nil
		}
	}
	flush()
	return dir, nil
}

// codePageDecoder picks the decoder for the project code page. VBA stores
// MBCS text in the ANSI code page of the authoring system.
func codePageDecoder(codePage uint16) *encoding.Decoder {
	var enc encoding.Encoding
	switch codePage {
	case 932:
		enc = japanese.ShiftJIS
	case 936:
		enc = simplifiedchinese.GBK
	case 949:
		enc = korean.EUCKR
	case 950:
		enc = traditionalchinese.Big5
	case 1250:
		enc = charmap.Windows1250
	case 1251:
		enc = charmap.Windows1251
	case 1253:
		enc = charmap.Windows1253
	case 1254:
		enc = charmap.Windows1254
	case 1255:
		enc = charmap.Windows1255
	case 1256:
		enc = charmap.Windows1256
	case 1257:
		enc = charmap.Windows1257
	case 1258:
		enc = charmap.Windows1258
	default:
		enc = charmap.Windows1252
	}
	return enc.NewDecoder()
}

func decodeMBCS(decoder *encoding.Decoder, data []byte) string {
	decoded, err := decoder.Bytes(data)
	if err != nil {
		return string(data)
	}
	return string(decoded)
}
