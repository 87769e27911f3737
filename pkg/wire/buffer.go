package wire

// WriteBounded copies a serialized document into a caller-provided
// fixed-capacity destination. The fit is verified before any byte is
// written: on overflow the destination is left untouched and ok is
// false. A truncated document is never emitted.
func WriteBounded(dst []byte, doc string) (n int, ok bool) {
	if len(doc) > len(dst) {
		return 0, false
	}
	return copy(dst, doc), true
}
