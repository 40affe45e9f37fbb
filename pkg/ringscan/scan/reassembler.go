package scan

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/cognicore/ringscan/pkg/ringscan/internalerr"
)

const (
	arrayOpen  = "["
	arrayClose = "]"
)

// DefaultMaxFragmentBytes bounds a single accumulated record. A fragment that
// grows past this can only mean a malformed dump, so it is surfaced as an
// error instead of buffering the rest of the file.
const DefaultMaxFragmentBytes = 64 * 1024 * 1024

type state int

const (
	outsideArray state = iota
	insideArray
	terminal
)

// Reassembler accumulates physical lines into complete top-level array
// elements. It is a small state machine: lines before the array-open token
// are ignored, lines after the array-close token end the scan, and in
// between each line is appended to the fragment buffer until a value
// completeness tracker reports a full JSON value.
//
// The inter-element comma is stripped only when removing it completes the
// element; commas internal to a multi-line object are left alone. Accumulated
// lines are joined with a single space so adjacent tokens from different
// lines cannot concatenate.
type Reassembler struct {
	state    state
	buf      bytes.Buffer
	tracker  valueTracker
	maxBytes int
}

// NewReassembler creates a reassembler. maxFragmentBytes caps one record's
// accumulated text; values <= 0 select DefaultMaxFragmentBytes.
func NewReassembler(maxFragmentBytes int) *Reassembler {
	if maxFragmentBytes <= 0 {
		maxFragmentBytes = DefaultMaxFragmentBytes
	}
	return &Reassembler{maxBytes: maxFragmentBytes}
}

// Push feeds one line. When the line completes a record, the record's full
// JSON text is returned; otherwise the return is nil and more lines are
// needed. After the array-close token has been seen, Push ignores all
// further input and Done reports true.
func (r *Reassembler) Push(line string) ([]byte, error) {
	trimmed := strings.TrimSpace(line)

	switch r.state {
	case terminal:
		return nil, nil
	case outsideArray:
		if trimmed == arrayOpen {
			r.state = insideArray
		}
		return nil, nil
	}

	if trimmed == "" {
		return nil, nil
	}
	// A bare close token between elements ends the array. Mid-record it is
	// the element's own text (an indented printer puts inner closers on
	// their own lines) and falls through to accumulation.
	if trimmed == arrayClose && r.buf.Len() == 0 {
		r.state = terminal
		return nil, nil
	}

	content := trimmed
	if strings.HasSuffix(content, ",") {
		head := strings.TrimRight(content[:len(content)-1], " \t")
		probe := r.tracker
		probe.feed(head)
		if probe.complete() {
			content = head
		}
	}

	if r.buf.Len() > 0 {
		r.buf.WriteByte(' ')
	}
	r.buf.WriteString(content)
	r.tracker.feed(content)

	if r.tracker.complete() {
		frag := make([]byte, r.buf.Len())
		copy(frag, r.buf.Bytes())
		r.buf.Reset()
		r.tracker = valueTracker{}
		return frag, nil
	}

	if r.buf.Len() > r.maxBytes {
		return nil, fmt.Errorf("record grew to %d bytes: %w", r.buf.Len(), internalerr.ErrFragmentTooLarge)
	}
	return nil, nil
}

// Done reports whether the array-close token has been consumed.
func (r *Reassembler) Done() bool { return r.state == terminal }

// Finish checks for leftover input after the last line. A non-empty fragment
// means the dump ended mid-record.
func (r *Reassembler) Finish() error {
	if r.buf.Len() > 0 {
		return fmt.Errorf("input exhausted mid-record: %w", internalerr.ErrTruncatedDump)
	}
	return nil
}

// valueTracker decides when accumulated text forms one complete JSON value
// by counting brace/bracket depth, with enough string and escape awareness
// that structural characters inside string literals are ignored.
type valueTracker struct {
	depth    int
	inString bool
	escaped  bool
	started  bool
}

func (t *valueTracker) feed(s string) {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if t.inString {
			switch {
			case t.escaped:
				t.escaped = false
			case c == '\\':
				t.escaped = true
			case c == '"':
				t.inString = false
			}
			continue
		}
		switch c {
		case '"':
			t.inString = true
			t.started = true
		case '{', '[':
			t.depth++
			t.started = true
		case '}', ']':
			t.depth--
		}
	}
}

func (t *valueTracker) complete() bool {
	return t.started && t.depth == 0 && !t.inString
}
