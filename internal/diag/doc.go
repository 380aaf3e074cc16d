// Package diag defines the diagnostic model shared by every generator stage.
//
// # Purpose
//
//   - Provide deterministic, serialisable records for the findings produced
//     while extracting targets, reading defaults and resolving templates.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to storage or formatting layers.
//   - Thread validation failures through stages without panics via Result.
//
// # Scope
//
// Package diag performs no formatting beyond the stable short form, no IO and
// no CLI integration. Rendering lives in internal/diagfmt.
//
// # Data model
//
// Descriptor holds the constant part of a finding: Code, Title, message
// Format, Severity and Category. Descriptors are looked up by Code, so a
// Diagnostic only carries:
//
//   - Severity – tri-level enum (Info, Warning, Error), normally copied from
//     the descriptor.
//   - Code – compact numeric identifier with the stable STI-prefixed ID.
//   - Message – the descriptor format with Args substituted.
//   - Location – path, byte span and line/column of the offending annotation.
//   - Args – the raw message arguments, kept for hosts that localise text.
//   - Properties – ordered key/value pairs (e.g. "template" for UnknownTemplate).
//
// Diagnostics never carry behaviour. Equal compares them structurally so
// stage results can be memoised across incremental passes.
//
// # Result
//
// Result[T] bundles a value with its diagnostics. A failed Result carries the
// zero value and either at least one diagnostic or Valid == false; the latter
// is used for malformed annotation arguments, which the host compiler has
// already reported on its own.
package diag
