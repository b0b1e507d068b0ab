package hexrecord

import (
	"fmt"
	"strings"
)

// Type is the record type field.
type Type byte

// Record types defined by the Intel HEX format.
const (
	Data                   Type = 0x00
	EndOfFile              Type = 0x01
	ExtendedSegmentAddress Type = 0x02
	StartSegmentAddress    Type = 0x03
	ExtendedLinearAddress  Type = 0x04
	StartLinearAddress     Type = 0x05
)

// TypeCount is the number of known record types.
const TypeCount = 6

// MaxLength is the largest payload accepted in a single record.
const MaxLength = 32

// StartCode is the marker every record begins with.
const StartCode = ':'

func (t Type) String() string {
	switch t {
	case Data:
		return "Data"
	case EndOfFile:
		return "EndOfFile"
	case ExtendedSegmentAddress:
		return "ExtendedSegmentAddress"
	case StartSegmentAddress:
		return "StartSegmentAddress"
	case ExtendedLinearAddress:
		return "ExtendedLinearAddress"
	case StartLinearAddress:
		return "StartLinearAddress"
	default:
		return fmt.Sprintf("Type(0x%02X)", byte(t))
	}
}

// Record is a single parsed Intel HEX line.
//
// Records are plain values; Parse is the only way a record enters the
// bootloader, so a Record obtained from Parse always carries a valid checksum.
type Record struct {
	// Length is the number of valid bytes in Data (0 to MaxLength)
	Length byte

	// Address is the lower 16 bits of the target address
	Address uint16

	// Type is the record type
	Type Type

	// Data holds the payload; only the first Length bytes are meaningful
	Data [MaxLength]byte

	// Checksum is the checksum as it appeared in the line
	Checksum byte
}

// NewRecord builds a record with a correct checksum. It returns an
// InvalidLength error if payload is longer than MaxLength.
func NewRecord(typ Type, address uint16, payload []byte) (Record, error) {
	if len(payload) > MaxLength {
		return Record{}, &ParserError{Kind: InvalidLength}
	}

	r := Record{
		Length:  byte(len(payload)),
		Address: address,
		Type:    typ,
	}
	copy(r.Data[:], payload)
	r.Checksum = r.ComputeChecksum()

	return r, nil
}

// Payload returns the valid part of Data.
func (r Record) Payload() []byte {
	return r.Data[:r.Length]
}

// ComputeChecksum returns the checksum the record should carry.
func (r Record) ComputeChecksum() byte {
	sum := r.Length
	sum += byte(r.Address >> 8)
	sum += byte(r.Address)
	sum += byte(r.Type)

	for _, b := range r.Data[:r.Length] {
		sum += b
	}

	return ^sum + 1 // 2's complement
}

// String formats the record as an upper-case Intel HEX line without line
// terminator. Parse(r.String()) yields r.
func (r Record) String() string {
	var b strings.Builder
	b.Grow(11 + 2*int(r.Length))

	b.WriteByte(StartCode)
	fmt.Fprintf(&b, "%02X%04X%02X", r.Length, r.Address, byte(r.Type))
	for _, d := range r.Data[:r.Length] {
		fmt.Fprintf(&b, "%02X", d)
	}
	fmt.Fprintf(&b, "%02X", r.Checksum)

	return b.String()
}
