// Package vba reads VBA projects out of the OLE compound file embedded in
// macro-enabled workbooks. Stream layout and the compression scheme follow
// MS-OVBA.
package vba

import (
	"errors"
	"fmt"
	"math/bits"
)

// ErrNotCompressed reports a container that does not start with the
// compressed-container signature byte.
var ErrNotCompressed = errors.New("vba: missing compressed container signature")

// Decompress expands an MS-OVBA compressed container. The container is a
// signature byte followed by chunks of at most 4096 decompressed bytes each.
func Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 || data[0] != 0x01 {
		return nil, ErrNotCompressed
	}

	var out []byte
	pos := 1
	for pos+1 < len(data) {
		header := int(data[pos]) | int(data[pos+1])<<8
		pos += 2
		size := (header & 0x0FFF) + 3
		compressed := header&0x8000 != 0
		if header&0x7000 != 0x3000 {
			return nil, fmt.Errorf("vba: bad chunk signature at offset %d", pos-2)
		}
		chunkEnd := pos + size - 2
		if chunkEnd > len(data) {
			chunkEnd = len(data)
		}

		if !compressed {
			out = append(out, data[pos:chunkEnd]...)
			pos = chunkEnd
			continue
		}

		chunkStart := len(out)
		for pos < chunkEnd {
			flags := data[pos]
			pos++
			for bit := 0; bit < 8 && pos < chunkEnd; bit++ {
				if flags&(1<<bit) == 0 {
					out = append(out, data[pos])
					pos++
					continue
				}
				if pos+1 >= len(data) {
					return nil, fmt.Errorf("vba: truncated copy token at offset %d", pos)
				}
				token := int(data[pos]) | int(data[pos+1])<<8
				pos += 2
				length, offset := copyToken(token, len(out)-chunkStart)
				if offset > len(out)-chunkStart || offset == 0 {
					return nil, fmt.Errorf("vba: copy token offset %d out of range", offset)
				}
				for i := 0; i < length; i++ {
					out = append(out, out[len(out)-offset])
				}
			}
		}
	}
	return out, nil
}

// copyToken splits a 16-bit copy token into its length and offset. The bit
// split depends on how much of the current chunk is already decompressed.
func copyToken(token, decompressed int) (length, offset int) {
	bitCount := 4
	if decompressed > 16 {
		bitCount = bits.Len(uint(decompressed - 1))
	}
	if bitCount > 12 {
		bitCount = 12
	}
	lengthMask := 0xFFFF >> bitCount
	length = (token & lengthMask) + 3
	offset = (token >> (16 - bitCount)) + 1
	return length, offset
}
