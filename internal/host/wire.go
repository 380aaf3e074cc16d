// Package host defines the wire model exchanged with the host compiler and
// converts it into pipeline inputs. The same structs are decoded from a TOML
// declarations manifest and from the msgpack plugin protocol.
package host

import "typedid/internal/diag"

// ProtocolVersion is bumped on incompatible wire changes.
const ProtocolVersion = 1

// Location as exported by the host. Offsets are bytes; lines and columns are 1-based.
type Location struct {
	Path    string `toml:"path" msgpack:"path"`
	Start   uint32 `toml:"start" msgpack:"start"`
	End     uint32 `toml:"end" msgpack:"end"`
	Line    uint32 `toml:"line" msgpack:"line"`
	Col     uint32 `toml:"col" msgpack:"col"`
	EndLine uint32 `toml:"end_line" msgpack:"end_line"`
	EndCol  uint32 `toml:"end_col" msgpack:"end_col"`
}

// Argument is one evaluated annotation argument.
type Argument struct {
	Kind     string     `toml:"kind" msgpack:"kind"` // string | enum | array | other
	Value    string     `toml:"value" msgpack:"value"`
	Null     bool       `toml:"null" msgpack:"null"`
	Elements []Argument `toml:"elements" msgpack:"elements"`
}

type NamedArgument struct {
	Name  string   `toml:"name" msgpack:"name"`
	Value Argument `toml:"value" msgpack:"value"`
}

// Annotation is one applied attribute.
type Annotation struct {
	Name     string          `toml:"name" msgpack:"name"`
	Args     []Argument      `toml:"args" msgpack:"args"`
	Named    []NamedArgument `toml:"named" msgpack:"named"`
	Location Location        `toml:"location" msgpack:"location"`
}

// Scope is an ancestor of a declaration.
type Scope struct {
	Kind        string   `toml:"kind" msgpack:"kind"` // namespace | type | other
	Keyword     string   `toml:"keyword" msgpack:"keyword"`
	Name        string   `toml:"name" msgpack:"name"`
	TypeParams  []string `toml:"type_params" msgpack:"type_params"`
	Modifiers   []string `toml:"modifiers" msgpack:"modifiers"`
	Constraints string   `toml:"constraints" msgpack:"constraints"`
}

// Declaration is one type carrying the marker annotation.
type Declaration struct {
	Name        string       `toml:"name" msgpack:"name"`
	Modifiers   []string     `toml:"modifiers" msgpack:"modifiers"`
	Ancestors   []Scope      `toml:"ancestors" msgpack:"ancestors"` // innermost first
	Annotations []Annotation `toml:"annotations" msgpack:"annotations"`
	Location    Location     `toml:"location" msgpack:"location"`
}

// TemplateFile is an externally supplied named template.
type TemplateFile struct {
	Path    string `toml:"path" msgpack:"path"`
	Name    string `toml:"name" msgpack:"name"`
	Content string `toml:"content" msgpack:"content"`
	Absent  bool   `toml:"absent" msgpack:"absent"`
}

// Request is one pass worth of host input.
type Request struct {
	Version      int            `toml:"version" msgpack:"version"`
	Declarations []Declaration  `toml:"declaration" msgpack:"declarations"`
	Defaults     []Annotation   `toml:"defaults" msgpack:"defaults"`
	Templates    []TemplateFile `toml:"template" msgpack:"templates"`
}

type Output struct {
	Key  string `msgpack:"key" json:"key"`
	Text string `msgpack:"text" json:"text"`
}

type Diagnostic struct {
	ID         string          `msgpack:"id" json:"id"`
	Severity   string          `msgpack:"severity" json:"severity"`
	Category   string          `msgpack:"category" json:"category"`
	Message    string          `msgpack:"message" json:"message"`
	Location   Location        `msgpack:"location" json:"location"`
	Args       []string        `msgpack:"args" json:"args,omitempty"`
	Properties []diag.Property `msgpack:"properties" json:"properties,omitempty"`
}

// Response is what the plugin writes back.
type Response struct {
	Version     int          `msgpack:"version"`
	Outputs     []Output     `msgpack:"outputs"`
	Diagnostics []Diagnostic `msgpack:"diagnostics"`
	// Error is set when the pass failed as a whole.
	Error string `msgpack:"error"`
}
