package hexrecord

import (
	"fmt"
	"io"

	"github.com/marcinbor85/gohex"
)

// DefaultLineLength is the payload size used by EncodeImage. It keeps every
// data record word aligned when the segment start is.
const DefaultLineLength = 16

// Segment is a contiguous block of image data.
type Segment struct {
	Address uint32
	Data    []byte
}

// End returns the address one past the last byte of the segment.
func (s Segment) End() uint32 {
	return s.Address + uint32(len(s.Data))
}

// LoadImage reads an Intel HEX image into its data segments, sorted by
// address. Adjacent records are merged into a single segment.
func LoadImage(r io.Reader) ([]Segment, error) {
	mem := gohex.NewMemory()
	if err := mem.ParseIntelHex(r); err != nil {
		return nil, fmt.Errorf("parse image: %w", err)
	}

	var segments []Segment
	for _, s := range mem.GetDataSegments() {
		data := make([]byte, len(s.Data))
		copy(data, s.Data)
		segments = append(segments, Segment{Address: s.Address, Data: data})
	}

	if len(segments) == 0 {
		return nil, fmt.Errorf("image contains no data")
	}

	return segments, nil
}

// EncodeImage writes segments as Intel HEX text, DefaultLineLength bytes per
// data record, with extended linear address records where needed and a
// final end-of-file record.
func EncodeImage(w io.Writer, segments []Segment) error {
	mem := gohex.NewMemory()
	for _, s := range segments {
		if err := mem.AddBinary(s.Address, s.Data); err != nil {
			return fmt.Errorf("add segment at 0x%08X: %w", s.Address, err)
		}
	}

	if err := mem.DumpIntelHex(w, DefaultLineLength); err != nil {
		return fmt.Errorf("dump image: %w", err)
	}

	return nil
}

// Flatten copies segments into a buffer covering [base, base+size), filling
// gaps with pad. Bytes outside the window are an error.
func Flatten(segments []Segment, base, size uint32, pad byte) ([]byte, error) {
	buf := make([]byte, size)
	for i := range buf {
		buf[i] = pad
	}

	for _, s := range segments {
		if s.Address < base || uint64(s.Address)+uint64(len(s.Data)) > uint64(base)+uint64(size) {
			return nil, fmt.Errorf("segment 0x%08X-0x%08X outside 0x%08X-0x%08X",
				s.Address, s.End(), base, base+size)
		}
		copy(buf[s.Address-base:], s.Data)
	}

	return buf, nil
}
