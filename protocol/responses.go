package protocol

import (
	"strconv"
)

// Response formats a response line, terminator included. An empty value
// yields a bare tag.
func Response(tag, value string) string {
	if value == "" {
		return tag + Terminator
	}
	return tag + Separator + value + Terminator
}

// ErrorResponse formats an <ERROR> line for code.
func ErrorResponse(code string) string {
	return Response(TagError, code)
}

// CheckError returns a *DeviceError if line is an <ERROR> response.
func CheckError(line string) error {
	tag, args := Split(line)
	if tag != TagError {
		return nil
	}
	if len(args) == 0 {
		return &InvalidResponseError{Response: line}
	}
	return &DeviceError{Code: args[0]}
}

// ParseResponse extracts the value of a response line without terminator.
// The line must consist of expectedTag and exactly one value.
//
// Returns a *DeviceError for <ERROR> lines and an *InvalidResponseError for
// anything else that does not match.
func ParseResponse(line, expectedTag string) (string, error) {
	if err := CheckError(line); err != nil {
		return "", err
	}

	tag, args := Split(line)
	if tag != expectedTag || len(args) != 1 {
		return "", &InvalidResponseError{Response: line}
	}
	return args[0], nil
}

// ParseOK checks that line is a bare <OK> response.
func ParseOK(line string) error {
	if err := CheckError(line); err != nil {
		return err
	}
	if line != TagOK {
		return &InvalidResponseError{Response: line}
	}
	return nil
}

// ParseUint parses a numeric response. Decimal, 0x hexadecimal and 0 octal
// values are accepted.
func ParseUint(line, expectedTag string) (uint64, error) {
	value, err := ParseResponse(line, expectedTag)
	if err != nil {
		return 0, err
	}

	n, err := strconv.ParseUint(value, 0, 32)
	if err != nil {
		return 0, &InvalidResponseError{Response: line}
	}
	return n, nil
}

// ParseBool parses a 0/1 response. Any non-zero number is true.
func ParseBool(line, expectedTag string) (bool, error) {
	n, err := ParseUint(line, expectedTag)
	if err != nil {
		return false, err
	}
	return n != 0, nil
}

// FormatBool formats a boolean response value.
func FormatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
