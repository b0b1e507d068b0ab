package protocol

import "strings"

// Request formats a request line, terminator included.
//
// Example:
//
//	protocol.Request(protocol.CmdGetBoardName)     // "<GET_BOARD_NAME>\r\n"
//	protocol.Request(protocol.CmdEraseSector, "2") // "<ERASE_SECTOR> 2\r\n"
func Request(tag string, args ...string) string {
	return Line(tag, args...) + Terminator
}

// Line joins a tag and its arguments without terminator.
func Line(tag string, args ...string) string {
	if len(args) == 0 {
		return tag
	}
	return tag + Separator + strings.Join(args, Separator)
}

// Split tokenises a line without terminator into its tag and arguments.
// Empty tokens are dropped, so an empty line yields an empty tag.
func Split(line string) (tag string, args []string) {
	var tokens []string
	for _, token := range strings.Split(line, Separator) {
		if token != "" {
			tokens = append(tokens, token)
		}
	}

	if len(tokens) == 0 {
		return "", nil
	}
	return tokens[0], tokens[1:]
}
