// Package hexrecord parses and formats Intel HEX records.
//
// # Record Format
//
// Every line of an Intel HEX image is one record. After the leading ':' all
// fields are fixed-width, upper- or lower-case hex digits with no delimiters:
//
//	:[Length(2)][Address(4)][Type(2)][Data(2*Length)][Checksum(2)]
//
// Example data record:
//
//	:10000000214601360121470136007EFE09D2190141
//	  10 = Length (16 bytes)
//	  0000 = Address (lower 16 bits of the target address)
//	  00 = Type (Data)
//	  2146...1901 = Data
//	  41 = Checksum
//
// The checksum is the two's complement of the 8-bit sum of the length, both
// address bytes, the type and all data bytes.
//
// # Usage
//
// Parse a single line, as the resident bootloader does for each
// <WRITE_HEX_RECORD> request:
//
//	rec, err := hexrecord.Parse(":020000040800F2")
//	if err != nil {
//	    var perr *hexrecord.ParserError
//	    if errors.As(err, &perr) {
//	        fmt.Println(perr.Code()) // e.g. INVALID_CHECKSUM
//	    }
//	}
//
// Read a whole image on the host, validating every line:
//
//	lines, err := hexrecord.ReadLines(f)
//
// Convert between raw images and HEX text:
//
//	segments, err := hexrecord.LoadImage(f)
//	err = hexrecord.EncodeImage(w, segments)
//
// # Error Handling
//
// Parse returns a *ParserError whose Kind is one of InvalidRecord,
// InvalidLength, InvalidType or InvalidChecksum. Code returns the stable
// wire name of the kind, which the host matches on.
//
// The record checksum is additive: any single-bit error in a record is
// detected, but some multi-bit errors (for example two compensating bit
// flips in different bytes) are not.
package hexrecord
