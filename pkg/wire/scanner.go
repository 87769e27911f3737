package wire

import "strings"

// scanner is a forward-only cursor over raw input text. It centralizes
// the substring searches, quote handling, and brace counting shared by
// the decoders, so no decoder carries its own index arithmetic.
//
// Positions are byte offsets; multi-byte UTF-8 sequences pass through
// opaque. Every operation is bounded by the input length.
type scanner struct {
	src string
	pos int
}

func newScanner(src string) *scanner {
	return &scanner{src: src}
}

// fork returns an independent cursor at the same position. Sub-scans
// that must not move the parent cursor operate on the fork.
func (s *scanner) fork() *scanner {
	c := *s
	return &c
}

// eof reports whether the cursor is past the last byte.
func (s *scanner) eof() bool {
	return s.pos >= len(s.src)
}

// peek returns the byte under the cursor without advancing.
func (s *scanner) peek() (byte, bool) {
	if s.eof() {
		return 0, false
	}
	return s.src[s.pos], true
}

// advance moves the cursor one byte forward.
func (s *scanner) advance() {
	if s.pos < len(s.src) {
		s.pos++
	}
}

// skip moves the cursor n bytes forward, clamped to the end of input.
func (s *scanner) skip(n int) {
	s.pos += n
	if s.pos > len(s.src) {
		s.pos = len(s.src)
	}
}

// find moves the cursor to the next occurrence of sub at or after the
// cursor. The cursor is unchanged when sub is absent.
func (s *scanner) find(sub string) bool {
	if s.eof() {
		return false
	}
	i := strings.Index(s.src[s.pos:], sub)
	if i < 0 {
		return false
	}
	s.pos += i
	return true
}

// findByte is find for a single byte.
func (s *scanner) findByte(c byte) bool {
	if s.eof() {
		return false
	}
	i := strings.IndexByte(s.src[s.pos:], c)
	if i < 0 {
		return false
	}
	s.pos += i
	return true
}

// quoted returns the contents of the next double-quoted string at or
// after the cursor, leaving the cursor just past the closing quote.
// With escaped set, a quote immediately preceded by a backslash does
// not terminate the string. An unterminated string yields the remainder
// of the input with the cursor at the end. Returns false only when no
// opening quote exists.
func (s *scanner) quoted(escaped bool) (string, bool) {
	if !s.findByte('"') {
		return "", false
	}
	start := s.pos + 1
	end := start
	for end < len(s.src) {
		i := strings.IndexByte(s.src[end:], '"')
		if i < 0 {
			end = len(s.src)
			break
		}
		end += i
		if !escaped || s.src[end-1] != '\\' {
			break
		}
		end++
	}
	if end >= len(s.src) {
		s.pos = len(s.src)
		return s.src[start:], true
	}
	s.pos = end + 1
	return s.src[start:end], true
}

// balanced returns the span from the opening delimiter under the cursor
// through its matching closing delimiter, tracking nesting depth. The
// cursor ends just past the closing delimiter. When the input ends
// before the depth returns to zero, the remainder is returned with
// ok == false and the cursor at the end of input.
func (s *scanner) balanced(open, close byte) (string, bool) {
	if c, ok := s.peek(); !ok || c != open {
		return "", false
	}
	start := s.pos
	depth := 1
	i := start + 1
	for i < len(s.src) && depth > 0 {
		switch s.src[i] {
		case open:
			depth++
		case close:
			depth--
		}
		i++
	}
	s.pos = i
	if depth != 0 {
		return s.src[start:], false
	}
	return s.src[start:i], true
}
