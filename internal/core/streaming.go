package core

// streaming.go provides readers that clean CSV input before parsing:
//
//   - bomSkipper drops a leading UTF-8 BOM written by Windows programs
//   - utf8Sanitizer replaces invalid UTF-8 bytes with '?'
//   - LimitedReader stops reading once a size limit is passed
//
// Use WrapForCSV to apply the transforms in the correct order.

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WrapForCSV strips a BOM and then sanitizes UTF-8. The BOM must go first,
// before anything inspects the bytes.
func WrapForCSV(r io.Reader) io.Reader {
	return newUTF8Sanitizer(newBOMSkipper(r))
}

// newBOMSkipper returns a reader positioned after the UTF-8 BOM, if any.
func newBOMSkipper(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}

// utf8Sanitizer rewrites invalid UTF-8 in place. A multi-byte sequence split
// across reads is carried over in pending.
type utf8Sanitizer struct {
	reader  io.Reader
	pending []byte
}

func newUTF8Sanitizer(r io.Reader) *utf8Sanitizer {
	return &utf8Sanitizer{reader: r, pending: make([]byte, 0, utf8.UTFMax)}
}

func (s *utf8Sanitizer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	offset := 0
	if len(s.pending) > 0 {
		offset = copy(p, s.pending)
		s.pending = s.pending[:0]
	}

	n, err := s.reader.Read(p[offset:])
	n += offset
	if n == 0 {
		return 0, err
	}
	if isASCII(p[:n]) {
		return n, err
	}
	return s.sanitize(p[:n], err == io.EOF), err
}

func isASCII(data []byte) bool {
	for _, b := range data {
		if b >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// sanitize compacts data in place and returns the number of bytes to hand
// back. Unless atEOF, an unfinished trailing rune is held for the next Read.
func (s *utf8Sanitizer) sanitize(data []byte, atEOF bool) int {
	write := 0
	for read := 0; read < len(data); {
		if !atEOF && !utf8.FullRune(data[read:]) {
			s.pending = append(s.pending, data[read:]...)
			return write
		}
		r, size := utf8.DecodeRune(data[read:])
		if r == utf8.RuneError && size == 1 {
			// '?' keeps the output no longer than the input.
			data[write] = '?'
			write++
			read++
			continue
		}
		copy(data[write:], data[read:read+size])
		write += size
		read += size
	}
	return write
}

// LimitedReader reads at most Limit bytes and fails with ErrFileTooLarge
// rather than truncating silently.
type LimitedReader struct {
	R     io.Reader
	Limit int64
	N     int64
}

func (l *LimitedReader) Read(p []byte) (int, error) {
	if l.Limit > 0 && l.N > l.Limit {
		return 0, fmt.Errorf("%w: exceeds %d bytes", ErrFileTooLarge, l.Limit)
	}
	n, err := l.R.Read(p)
	l.N += int64(n)
	if l.Limit > 0 && l.N > l.Limit {
		return n, fmt.Errorf("%w: exceeds %d bytes", ErrFileTooLarge, l.Limit)
	}
	return n, err
}

// ReadAllLimited reads r fully, failing once more than limit bytes arrive.
// A limit of zero or less disables the check.
func ReadAllLimited(r io.Reader, limit int64) ([]byte, error) {
	return io.ReadAll(&LimitedReader{R: r, Limit: limit})
}
