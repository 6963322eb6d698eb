package logging

// Buffer is the ordered transcript of one session. It never reorders, drops or
// de-duplicates lines. Buffer is not safe for concurrent use; Session guards it.
type Buffer struct {
	lines []LogLine
}

// Append adds batch to the tail, preserving its order
func (b *Buffer) Append(batch []LogLine) {
	b.lines = append(b.lines, batch...)
}

// ReplaceAll discards the current contents and installs batch
func (b *Buffer) ReplaceAll(batch []LogLine) {
	b.lines = append(make([]LogLine, 0, len(batch)), batch...)
}

// Len returns the number of lines held
func (b *Buffer) Len() int {
	return len(b.lines)
}

// Snapshot returns a copy that later mutations do not affect
func (b *Buffer) Snapshot() []LogLine {
	out := make([]LogLine, len(b.lines))
	copy(out, b.lines)
	return out
}
