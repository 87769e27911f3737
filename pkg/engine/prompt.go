package engine

import (
	"strings"

	"github.com/ocotillo-ai/ocotillo/pkg/wire"
)

const toolPromptHeader = `You have access to the following tools:

[
`

const toolPromptFooter = `
]

To call a tool, emit a JSON object of the form
{"function_call": {"name": "<tool name>", "arguments": {...}}}
inline in your reply. Emit one object per call. Continue your answer
after the object if you have more to say.`

// toolSystemPrompt renders tool descriptors into the system turn that
// teaches the model the function-call convention. The descriptor block
// comes verbatim from the wire formatter; this wrapper adds the array
// framing and the calling instructions.
func toolSystemPrompt(tools []wire.ToolDescriptor) string {
	var b strings.Builder
	b.WriteString(toolPromptHeader)
	b.WriteString(wire.FormatToolsForPrompt(tools))
	b.WriteString(toolPromptFooter)
	return b.String()
}
