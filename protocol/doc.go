// Package protocol implements the line protocol spoken between the host
// uploader and the resident bootloader or firmware.
//
// # Protocol Overview
//
// Every message is one ASCII line terminated by "\r\n". The host sends a
// request and waits for exactly one response before sending the next one:
//
//	Request:  <TAG> [ARG]\r\n
//	Response: <TAG> [VALUE]\r\n
//	Error:    <ERROR> CODE\r\n
//
// Tags and arguments are separated by a single space. Values never contain
// spaces.
//
// # Building and Parsing
//
// Use Request to format a request and Split to tokenise a received line:
//
//	line := protocol.Request(protocol.CmdEraseSector, "2")
//	tag, args := protocol.Split("<ERASE_SECTOR> 2")
//
// On the host, ParseResponse checks the tag and turns error lines into a
// *DeviceError:
//
//	name, err := protocol.ParseResponse(line, protocol.TagBoardName)
//	var devErr *protocol.DeviceError
//	if errors.As(err, &devErr) {
//	    fmt.Println(devErr.Message()) // "Invalid sector."
//	}
//
// # Framing
//
// LineReader extracts terminated lines from a byte stream into a fixed
// buffer. A line that does not fit yields ErrOverflow once; the reader then
// skips to the next terminator and continues with the following line.
package protocol
