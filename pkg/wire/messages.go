package wire

import "strings"

// DecodeMessages scans input text expected to contain a top-level JSON
// array of role/content objects and returns the conversation turns in
// input order.
//
// Input with no array bracket at all fails with ErrMalformedInput. An
// empty array yields an empty slice. When a required key (role,
// content) is missing mid-sequence, scanning stops and the turns
// collected so far are returned without error.
func DecodeMessages(input string) ([]ChatTurn, error) {
	sc := newScanner(input)
	if !sc.findByte('[') {
		return nil, ErrMalformedInput
	}

	turns := []ChatTurn{}
	for sc.findByte('{') {
		if !sc.find(`"role"`) {
			break
		}
		sc.skip(len(`"role"`))
		role, ok := sc.quoted(false)
		if !ok {
			break
		}

		if !sc.find(`"content"`) {
			break
		}
		sc.skip(len(`"content"`))
		// Content strings can contain escaped quotes; a quote preceded
		// by a backslash does not terminate the value.
		content, ok := sc.quoted(true)
		if !ok {
			break
		}

		turns = append(turns, ChatTurn{
			Role:    role,
			Content: unescapeContent(content),
		})
	}

	return turns, nil
}

// unescapeContent resolves the two wire escape sequences in content
// text: \n to a literal newline, then \" to a quote. The two passes run
// in exactly this order, left to right, non-overlapping; substituted
// output is not re-scanned. This order is load-bearing for byte-for-byte
// compatibility with existing callers.
func unescapeContent(s string) string {
	s = strings.ReplaceAll(s, `\n`, "\n")
	s = strings.ReplaceAll(s, `\"`, `"`)
	return s
}
