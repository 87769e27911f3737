package wire

import "strings"

// DecodeTools scans input text expected to contain a JSON array of
// {"type":"function","function":{...}} wrapper objects and returns the
// tool descriptors found.
//
// Unlike message decoding, tool decoding is lenient: empty input or
// input with no top-level array yields an empty slice, never an error.
// The asymmetry is intentional and preserved for compatibility with
// existing callers.
//
// A record's name or description may be absent; the field is left empty
// rather than aborting the record. The parameters schema is captured by
// a balanced-brace scan and stored verbatim under the "schema" key; a
// schema that never closes before the end of input is dropped.
func DecodeTools(input string) []ToolDescriptor {
	tools := []ToolDescriptor{}
	if input == "" {
		return tools
	}

	sc := newScanner(input)
	if !sc.findByte('[') {
		return tools
	}

	for sc.find(`"function"`) {
		tool := ToolDescriptor{Parameters: make(map[string]string)}

		// Each field search starts at the wrapper marker; the fields
		// may appear in any order inside the function object.
		namePos := -1
		if f := sc.fork(); f.find(`"name"`) {
			namePos = f.pos
			f.skip(len(`"name"`))
			if v, ok := f.quoted(false); ok {
				tool.Name = v
			}
		}

		if f := sc.fork(); f.find(`"description"`) {
			f.skip(len(`"description"`))
			if v, ok := f.quoted(false); ok {
				tool.Description = v
			}
		}

		if f := sc.fork(); f.find(`"parameters"`) {
			f.skip(len(`"parameters"`))
			if f.findByte('{') {
				// The schema can nest objects arbitrarily; only a
				// depth-counting scan finds its true end.
				if span, ok := f.balanced('{', '}'); ok {
					tool.Parameters["schema"] = span
				}
			}
		}

		tools = append(tools, tool)

		// Resume the wrapper search past this record's name key. A
		// record with no name key at all ends the scan.
		if namePos < 0 {
			break
		}
		sc.pos = namePos
	}

	return tools
}

// FormatToolsForPrompt renders descriptors back into the normalized
// prompt-embeddable form: one wrapper object per tool, comma-separated,
// with the parameter schema re-emitted byte-for-byte. An empty slice
// yields an empty string.
//
// Names and descriptions are not re-escaped on output; values
// containing quotes or control characters produce invalid JSON. This is
// a known limitation of the wire format, not corrected here.
func FormatToolsForPrompt(tools []ToolDescriptor) string {
	if len(tools) == 0 {
		return ""
	}

	var b strings.Builder
	for i, tool := range tools {
		if i > 0 {
			b.WriteString(",\n")
		}
		b.WriteString("  {\n")
		b.WriteString("    \"type\": \"function\",\n")
		b.WriteString("    \"function\": {\n")
		b.WriteString("      \"name\": \"" + tool.Name + "\",\n")
		b.WriteString("      \"description\": \"" + tool.Description + "\"")
		if schema, ok := tool.Parameters["schema"]; ok {
			b.WriteString(",\n      \"parameters\": " + schema)
		}
		b.WriteString("\n    }\n  }")
	}
	return b.String()
}
