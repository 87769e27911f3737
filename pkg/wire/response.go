package wire

import (
	"strconv"
	"strings"
)

// functionCallMarker introduces an embedded function-call object in raw
// model output.
const functionCallMarker = `"function_call"`

// ExtractFunctionCalls splits raw model output into visible response
// text and the function-call JSON fragments embedded in it.
//
// For every occurrence of the marker, the next balanced brace span is
// captured verbatim. On each successful capture the response text is
// truncated to everything before the marker, then trimmed back past the
// last opening brace so the wrapper object introducing the marker
// disappears from the visible text. A fragment that never closes before
// the end of input is dropped, not partially emitted, and ends the scan.
func ExtractFunctionCalls(raw string) Result {
	res := Result{
		ResponseText:  raw,
		FunctionCalls: []string{},
	}

	search := 0
	for search < len(raw) {
		m := strings.Index(raw[search:], functionCallMarker)
		if m < 0 {
			break
		}
		marker := search + m

		ob := strings.IndexByte(raw[marker:], '{')
		if ob < 0 {
			break
		}
		start := marker + ob

		depth := 1
		end := start + 1
		for end < len(raw) && depth > 0 {
			switch raw[end] {
			case '{':
				depth++
			case '}':
				depth--
			}
			end++
		}

		if depth == 0 {
			res.FunctionCalls = append(res.FunctionCalls, raw[start:end])

			prefix := raw[:marker]
			if lb := strings.LastIndexByte(prefix, '{'); lb >= 0 {
				prefix = prefix[:lb]
			}
			res.ResponseText = prefix
		}

		search = end
	}

	return res
}

// EncodeResult serializes a successful inference result into the
// single-line caller-facing JSON document. The function_calls array is
// emitted only when fragments are present, and the fragments are
// inserted verbatim: they are already-valid JSON object text and are
// neither re-escaped nor re-validated. Float metrics are fixed-point
// with two decimals.
func EncodeResult(res Result, m Metrics) string {
	var b strings.Builder
	b.WriteString(`{"success":true,"response":"`)
	escapeText(&b, res.ResponseText)
	b.WriteString(`",`)

	if len(res.FunctionCalls) > 0 {
		b.WriteString(`"function_calls":[`)
		for i, fc := range res.FunctionCalls {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(fc)
		}
		b.WriteString(`],`)
	}

	b.WriteString(`"time_to_first_token_ms":`)
	b.WriteString(formatFixed(m.TimeToFirstTokenMS))
	b.WriteString(`,"total_time_ms":`)
	b.WriteString(formatFixed(m.TotalTimeMS))
	b.WriteString(`,"tokens_per_second":`)
	b.WriteString(formatFixed(m.TokensPerSecond))
	b.WriteString(`,"prefill_tokens":`)
	b.WriteString(strconv.Itoa(m.PrefillTokens))
	b.WriteString(`,"decode_tokens":`)
	b.WriteString(strconv.Itoa(m.DecodeTokens))
	b.WriteString(`,"total_tokens":`)
	b.WriteString(strconv.Itoa(m.TotalTokens()))
	b.WriteByte('}')

	return b.String()
}

// escapeText writes response text with the wire format's output
// escaping: quote, newline, carriage return, tab, and backslash only.
// Other control bytes pass through unescaped; this is a known
// limitation of the format rather than something to correct here.
func escapeText(b *strings.Builder, s string) {
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\\':
			b.WriteString(`\\`)
		default:
			b.WriteByte(c)
		}
	}
}

// formatFixed renders a metric value as fixed-point text with exactly
// two decimal digits.
func formatFixed(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// EncodeError builds the error-shaped document {"success":false,
// "error":"..."} from an arbitrary message. The message is sanitized by
// replacing every quote with an apostrophe and every newline with a
// space — nothing more sophisticated. This helper is the last line of
// defense when other components have already failed, so it must not be
// able to produce invalid JSON through an escaping bug of its own.
func EncodeError(msg string) string {
	var b strings.Builder
	b.WriteString(`{"success":false,"error":"`)
	for i := 0; i < len(msg); i++ {
		switch c := msg[i]; c {
		case '"':
			b.WriteByte('\'')
		case '\n':
			b.WriteByte(' ')
		default:
			b.WriteByte(c)
		}
	}
	b.WriteString(`"}`)
	return b.String()
}
