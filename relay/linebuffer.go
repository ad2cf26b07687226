package relay

// LineBuffer accumulates typed characters until a line terminator arrives.
// The zero value is an empty buffer.
type LineBuffer struct {
	buf []byte
}

// Add appends one keypress.
func (b *LineBuffer) Add(key byte) {
	b.buf = append(b.buf, key)
}

// Complete returns the buffered text with a trailing line feed and empties the
// buffer. ok is false, and nothing changes, when the buffer is empty.
func (b *LineBuffer) Complete() (line []byte, ok bool) {
	if len(b.buf) == 0 {
		return nil, false
	}
	line = append(b.buf, '\n')
	b.buf = nil
	return line, true
}

// Reset discards anything buffered.
func (b *LineBuffer) Reset() {
	b.buf = nil
}

// Len reports how many keys are buffered.
func (b *LineBuffer) Len() int {
	return len(b.buf)
}
