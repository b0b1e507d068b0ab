package protocol

import (
	"bufio"
	"io"
)

// LineReader reads terminated lines from a byte stream into a fixed-size
// buffer.
//
// LineReader is not safe for concurrent use.
type LineReader struct {
	r    *bufio.Reader
	buf  []byte
	size int

	// discarding is set after an overflow until the next terminator
	discarding bool
	prev       byte
}

// NewLineReader returns a reader whose lines, terminator included, may be
// at most size bytes long. A size below len(Terminator)+1 selects
// DefaultBufferSize.
func NewLineReader(r io.Reader, size int) *LineReader {
	if size <= len(Terminator) {
		size = DefaultBufferSize
	}

	return &LineReader{
		r:    bufio.NewReader(r),
		buf:  make([]byte, 0, size),
		size: size,
	}
}

// Size returns the buffer size.
func (lr *LineReader) Size() int {
	return lr.size
}

// ReadLine returns the next line without its terminator.
//
// If the buffer fills up before a terminator arrives, ReadLine returns
// ErrOverflow and drops the rest of that line. The next call returns the
// line after it. Errors from the underlying reader are returned as is; a
// partial line is kept and completed by later calls.
func (lr *LineReader) ReadLine() (string, error) {
	for {
		c, err := lr.r.ReadByte()
		if err != nil {
			return "", err
		}

		if lr.discarding {
			if lr.prev == '\r' && c == '\n' {
				lr.discarding = false
			}
			lr.prev = c
			continue
		}

		lr.buf = append(lr.buf, c)

		n := len(lr.buf)
		if n >= len(Terminator) && string(lr.buf[n-len(Terminator):]) == Terminator {
			line := string(lr.buf[:n-len(Terminator)])
			lr.buf = lr.buf[:0]
			return line, nil
		}

		if n == lr.size {
			lr.buf = lr.buf[:0]
			lr.discarding = true
			lr.prev = c
			return "", ErrOverflow
		}
	}
}
