package hexrecord

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Field widths in hex characters.
const (
	lengthWidth   = 2
	addressWidth  = 4
	typeWidth     = 2
	byteWidth     = 2
	checksumWidth = 2

	// MinimumLineLength is the length of a record with an empty payload,
	// including the start code
	MinimumLineLength = 1 + lengthWidth + addressWidth + typeWidth + checksumWidth
)

// Parse parses one Intel HEX line. The line must not contain the line
// terminator.
//
// Fields are read strictly left to right; the first problem found decides
// the error kind. In particular a declared length above MaxLength is
// reported as InvalidLength even if the rest of the line is truncated.
// Anything after the checksum field is ignored.
//
// Example:
//
//	rec, err := hexrecord.Parse(":10000000214601360121470136007EFE09D2190141")
//	// rec.Length == 16, rec.Address == 0x0000, rec.Type == hexrecord.Data
func Parse(line string) (Record, error) {
	var r Record

	if len(line) < 1 || line[0] != StartCode {
		return Record{}, &ParserError{Kind: InvalidRecord, Detail: "missing start code"}
	}

	s := scanner{s: line[1:]}

	length, err := s.uint8()
	if err != nil {
		return Record{}, err
	}
	if length > MaxLength {
		return Record{}, &ParserError{
			Kind:   InvalidLength,
			Detail: fmt.Sprintf("%d bytes, maximum is %d", length, MaxLength),
		}
	}
	r.Length = length

	if r.Address, err = s.uint16(); err != nil {
		return Record{}, err
	}

	typ, err := s.uint8()
	if err != nil {
		return Record{}, err
	}
	if typ >= TypeCount {
		return Record{}, &ParserError{Kind: InvalidType, Detail: fmt.Sprintf("0x%02X", typ)}
	}
	r.Type = Type(typ)

	for i := 0; i < int(r.Length); i++ {
		if r.Data[i], err = s.uint8(); err != nil {
			return Record{}, err
		}
	}

	if r.Checksum, err = s.uint8(); err != nil {
		return Record{}, err
	}

	if want := r.ComputeChecksum(); r.Checksum != want {
		return Record{}, &ParserError{
			Kind:   InvalidChecksum,
			Detail: fmt.Sprintf("got 0x%02X, expected 0x%02X", r.Checksum, want),
		}
	}

	return r, nil
}

// ReadLines reads a complete Intel HEX image and returns its record lines,
// each one validated with Parse. Blank lines are skipped and surrounding
// whitespace (including '\r') is removed.
//
// The returned lines are exactly what an uploader sends with
// <WRITE_HEX_RECORD>, in file order.
func ReadLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)

	var lines []string
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" {
			continue
		}

		if _, err := Parse(line); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}

		lines = append(lines, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	if len(lines) == 0 {
		return nil, fmt.Errorf("no records found in image")
	}

	return lines, nil
}

// scanner reads fixed-width hex fields from the front of a string.
type scanner struct {
	s string
}

func (sc *scanner) uint8() (byte, error) {
	v, err := sc.field(byteWidth)
	return byte(v), err
}

func (sc *scanner) uint16() (uint16, error) {
	v, err := sc.field(addressWidth)
	return uint16(v), err
}

func (sc *scanner) field(width int) (uint32, error) {
	if len(sc.s) < width {
		return 0, &ParserError{Kind: InvalidRecord, Detail: "record truncated"}
	}

	var v uint32
	for i := 0; i < width; i++ {
		d, ok := hexDigit(sc.s[i])
		if !ok {
			return 0, &ParserError{
				Kind:   InvalidRecord,
				Detail: fmt.Sprintf("invalid hex digit %q", sc.s[i]),
			}
		}
		v = v<<4 | uint32(d)
	}

	sc.s = sc.s[width:]
	return v, nil
}

func hexDigit(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	default:
		return 0, false
	}
}
