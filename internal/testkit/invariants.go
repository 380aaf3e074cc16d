// Package testkit holds invariant checks shared by tests across packages.
package testkit

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"typedid/internal/source"
)

// Placeholder mirrors the catalog placeholder token; generated text must never
// contain it.
const Placeholder = "PLACEHOLDERID"

const generatedHeader = "// <auto-generated/>\n"

// CheckGenerated runs a minimal set of invariants on one generated source:
// 1) the auto-generated header comes first and line endings are LF
// 2) the placeholder token is fully substituted
// 3) braces outside comments, strings and char literals are balanced
// 4) typeName, when given, is mentioned
func CheckGenerated(text, typeName string) error {
	if !strings.HasPrefix(text, generatedHeader) {
		return fmt.Errorf("missing auto-generated header")
	}
	if strings.Contains(text, "\r") {
		return fmt.Errorf("carriage return in generated text")
	}
	if strings.Contains(text, Placeholder) {
		return fmt.Errorf("placeholder %s not substituted", Placeholder)
	}
	if off, ok := braceBalance(text); !ok {
		return fmt.Errorf("unbalanced brace at %s", position(text, off))
	}
	if typeName != "" && !strings.Contains(text, typeName) {
		return fmt.Errorf("type name %q not found", typeName)
	}
	return nil
}

// braceBalance returns the offset of the first brace that breaks balance, or
// len(text) when an opening brace is never closed.
func braceBalance(text string) (int, bool) {
	var (
		stack    []int
		inLine   bool
		inBlock  bool
		inString bool
		inChar   bool
	)
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case inLine:
			if c == '\n' {
				inLine = false
			}
		case inBlock:
			if c == '*' && i+1 < len(text) && text[i+1] == '/' {
				inBlock = false
				i++
			}
		case inString:
			if c == '\\' {
				i++
			} else if c == '"' || c == '\n' {
				inString = false
			}
		case inChar:
			if c == '\\' {
				i++
			} else if c == '\'' || c == '\n' {
				inChar = false
			}
		case c == '/' && i+1 < len(text) && text[i+1] == '/':
			inLine = true
			i++
		case c == '/' && i+1 < len(text) && text[i+1] == '*':
			inBlock = true
			i++
		case c == '"':
			inString = true
		case c == '\'':
			inChar = true
		case c == '{':
			stack = append(stack, i)
		case c == '}':
			if len(stack) == 0 {
				return i, false
			}
			stack = stack[:len(stack)-1]
		}
	}
	if len(stack) > 0 {
		return stack[len(stack)-1], false
	}
	return len(text), true
}

func position(text string, off int) string {
	t, err := source.NewText("generated", []byte(text))
	if err != nil {
		return fmt.Sprintf("offset %d", off)
	}
	o, err := safecast.Conv[uint32](off)
	if err != nil {
		return fmt.Sprintf("offset %d", off)
	}
	loc := t.Locate(source.Span{Start: o, End: o})
	return fmt.Sprintf("%d:%d", loc.Start.Line, loc.Start.Col)
}
