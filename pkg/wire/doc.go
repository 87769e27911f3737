// Package wire implements the textual protocol layer between callers and
// the inference engine. It decodes request payloads (chat history, tool
// descriptors, sampling options) from a restricted JSON-like text
// representation and encodes engine output (response text, extracted
// function-call fragments, timing metrics) back into JSON text.
//
// The decoders deliberately do not use a general JSON parser. They scan
// raw bytes with a small cursor abstraction, tracking brace nesting and
// quote escapes, and they preserve the exact lenient/strict asymmetries
// of the existing wire format: message decoding fails without a top-level
// array, tool decoding silently yields nothing, and malformed numeric
// option values abort the whole options decode. Tool parameter schemas
// are carried as opaque balanced-brace text and re-emitted unchanged.
//
// All operations are synchronous scans over in-memory strings with no
// shared state; concurrent calls on independent inputs are safe.
package wire
