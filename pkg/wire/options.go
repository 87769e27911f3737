package wire

import "strconv"

// DecodeOptions parses a flat JSON object of sampling parameters into a
// SamplingOptions record. Defaults are applied first, unconditionally;
// each field is overwritten only when its key is present in the input.
// Empty input yields the defaults.
//
// A numeric value that cannot be parsed as the field's declared type is
// fatal to the whole decode: it indicates caller-supplied malformed
// input and must not be silently defaulted.
func DecodeOptions(input string) (SamplingOptions, error) {
	opts := DefaultSamplingOptions()
	if input == "" {
		return opts, nil
	}

	if err := scanFloatOption(input, "temperature", &opts.Temperature); err != nil {
		return SamplingOptions{}, err
	}
	if err := scanFloatOption(input, "top_p", &opts.TopP); err != nil {
		return SamplingOptions{}, err
	}
	if err := scanUintOption(input, "top_k", &opts.TopK); err != nil {
		return SamplingOptions{}, err
	}
	if err := scanUintOption(input, "max_tokens", &opts.MaxTokens); err != nil {
		return SamplingOptions{}, err
	}

	opts.StopSequences = scanStopSequences(input)

	return opts, nil
}

// scanFloatOption locates the key, the first colon after it, and parses
// the numeric text immediately following as a float. dst is untouched
// when the key is absent.
func scanFloatOption(input, key string, dst *float64) error {
	text, found, err := numberAfterKey(input, key, floatChars)
	if err != nil || !found {
		return err
	}
	v, perr := strconv.ParseFloat(text, 64)
	if perr != nil {
		return &NumericError{Field: key, Text: text}
	}
	*dst = v
	return nil
}

// scanUintOption is scanFloatOption for unsigned integer fields. Only a
// digit prefix is consumed; a trailing fraction is ignored the way the
// existing callers expect.
func scanUintOption(input, key string, dst *uint) error {
	text, found, err := numberAfterKey(input, key, digitChars)
	if err != nil || !found {
		return err
	}
	v, perr := strconv.ParseUint(text, 10, 64)
	if perr != nil {
		return &NumericError{Field: key, Text: text}
	}
	*dst = uint(v)
	return nil
}

const (
	floatChars = "+-0123456789.eE"
	digitChars = "0123456789"
)

// numberAfterKey returns the raw numeric text following `"key":` in the
// input, or found == false when the key is absent. A key with no value
// text (or non-numeric text at the value position) yields a
// NumericError.
func numberAfterKey(input, key string, accept string) (text string, found bool, err error) {
	sc := newScanner(input)
	if !sc.find(`"` + key + `"`) {
		return "", false, nil
	}
	sc.skip(len(key) + 2)
	if !sc.findByte(':') {
		return "", true, &NumericError{Field: key, Text: ""}
	}
	sc.advance()

	// Leading whitespace before the value is tolerated.
	for {
		c, ok := sc.peek()
		if !ok || (c != ' ' && c != '\t' && c != '\n' && c != '\r') {
			break
		}
		sc.advance()
	}

	start := sc.pos
	for {
		c, ok := sc.peek()
		if !ok || !byteIn(accept, c) {
			break
		}
		sc.advance()
	}
	text = input[start:sc.pos]
	if text == "" {
		return "", true, &NumericError{Field: key, Text: valueSample(input, start)}
	}
	return text, true, nil
}

func byteIn(set string, c byte) bool {
	for i := 0; i < len(set); i++ {
		if set[i] == c {
			return true
		}
	}
	return false
}

// valueSample returns a short excerpt of the input at the given offset
// for error reporting.
func valueSample(input string, pos int) string {
	const max = 12
	if pos >= len(input) {
		return ""
	}
	end := pos + max
	if end > len(input) {
		end = len(input)
	}
	return input[pos:end]
}

// scanStopSequences collects the quoted strings between the bracket
// delimiters of the stop_sequences field, in order. The field is
// defined never to contain nested brackets, so a simple forward scan to
// the closing bracket suffices. Text outside quotes (commas,
// whitespace) is ignored. Returns the empty slice when the key is
// absent.
func scanStopSequences(input string) []string {
	seqs := []string{}

	sc := newScanner(input)
	if !sc.find(`"stop_sequences"`) {
		return seqs
	}
	if !sc.findByte('[') {
		return seqs
	}

	end := len(input)
	if f := sc.fork(); f.findByte(']') {
		end = f.pos
	}

	sc.advance()
	for sc.findByte('"') && sc.pos < end {
		v, ok := sc.quoted(false)
		if !ok {
			break
		}
		seqs = append(seqs, v)
	}

	return seqs
}
