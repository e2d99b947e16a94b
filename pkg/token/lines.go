package token

// LineSpan is the half-open byte range [Start, End) of one physical line,
// including its terminating newline when present.
type LineSpan struct {
	Start int
	End   int
}

// LineIndex records the byte span of every physical line in a source text.
// Concatenating the spans in order reproduces the source exactly.
type LineIndex []LineSpan

// Line returns the span of the 1-based line n.
func (idx LineIndex) Line(n int) (LineSpan, bool) {
	if n < 1 || n > len(idx) {
		return LineSpan{}, false
	}
	return idx[n-1], true
}

// Text returns the source text of line n with its line terminator removed.
func (idx LineIndex) Text(src string, n int) (string, bool) {
	span, ok := idx.Line(n)
	if !ok || span.End > len(src) || span.Start > span.End {
		return "", false
	}
	line := src[span.Start:span.End]
	if l := len(line); l > 0 && line[l-1] == '\n' {
		line = line[:l-1]
		if l := len(line); l > 0 && line[l-1] == '\r' {
			line = line[:l-1]
		}
	}
	return line, true
}

// LineOf returns the 1-based line containing the byte offset, or 0 if out of range.
func (idx LineIndex) LineOf(offset int) int {
	lo, hi := 0, len(idx)
	for lo < hi {
		mid := (lo + hi) / 2
		switch {
		case offset < idx[mid].Start:
			hi = mid
		case offset >= idx[mid].End:
			lo = mid + 1
		default:
			return mid + 1
		}
	}
	return 0
}
