// Package scan turns a line-oriented galaxy dump back into complete JSON
// records. The dump is a single pretty-printed JSON array whose elements span
// one or more physical lines; scan reads lines and reassembles elements
// without ever holding more than one element in memory.
package scan

import (
	"bufio"
	"io"
)

// DefaultMaxLineBytes bounds a single physical line. Dump lines are usually a
// few hundred KB at most; 4 MiB leaves plenty of headroom.
const DefaultMaxLineBytes = 4 * 1024 * 1024

// LineSource produces the dump's physical lines from a reader. Line
// boundaries are authoritative; a partial line is never returned.
type LineSource struct {
	s *bufio.Scanner
}

// NewLineSource wraps r in a buffered line scanner. maxLineBytes caps the
// length of a single line; values <= 0 select DefaultMaxLineBytes.
func NewLineSource(r io.Reader, maxLineBytes int) *LineSource {
	if maxLineBytes <= 0 {
		maxLineBytes = DefaultMaxLineBytes
	}
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), maxLineBytes)
	return &LineSource{s: s}
}

// Scan advances to the next line. It returns false at end of input or on a
// read error; Err distinguishes the two.
func (l *LineSource) Scan() bool { return l.s.Scan() }

// Text returns the current line without its trailing newline.
func (l *LineSource) Text() string { return l.s.Text() }

// Err returns the first error encountered while reading, or nil at clean EOF.
func (l *LineSource) Err() error { return l.s.Err() }
