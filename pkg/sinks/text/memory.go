package text

import "bytes"

// Memory is a text sink writing to an in-memory buffer. Mostly useful
// for tests and debugging.
type Memory struct {
	*Sink
	buf *bytes.Buffer
}

// NewMemory creates a memory text sink.
func NewMemory(format Format) *Memory {
	buf := &bytes.Buffer{}
	return &Memory{Sink: NewStream(buf, false, format), buf: buf}
}

// Contents returns the bytes written so far. The slice is only valid
// until the next write.
func (m *Memory) Contents() []byte { return m.buf.Bytes() }

// String returns a copy of the data written so far.
func (m *Memory) String() string { return m.buf.String() }
