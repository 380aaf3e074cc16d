package diagfmt

import (
	"encoding/json"
	"io"

	"typedid/internal/diag"
	"typedid/internal/source"
)

// LocationJSON представляет местоположение в файле для JSON
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

// NoteJSON is one diagnostic property.
type NoteJSON struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// DiagnosticJSON представляет диагностику в JSON формате
type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Category string       `json:"category"`
	Title    string       `json:"title"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Args     []string     `json:"args,omitempty"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
}

// DiagnosticsOutput представляет корневую структуру JSON вывода
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
	Errors      int              `json:"errors"`
	Warnings    int              `json:"warnings"`
}

func makeLocation(loc source.Location, opts JSONOpts) LocationJSON {
	out := LocationJSON{
		File:      "",
		StartByte: loc.Span.Start,
		EndByte:   loc.Span.End,
	}
	if loc.Path != "" {
		out.File = formatPath(loc.Path, opts.PathMode, opts.BaseDir)
	}
	if opts.IncludePositions {
		out.StartLine = loc.Start.Line
		out.StartCol = loc.Start.Col
		out.EndLine = loc.End.Line
		out.EndCol = loc.End.Col
	}
	return out
}

// BuildDiagnosticsOutput формирует структуру JSON-вывода без сериализации.
// Counts cover every input diagnostic even when Max truncates the list.
func BuildDiagnosticsOutput(diags []diag.Diagnostic, opts JSONOpts) DiagnosticsOutput {
	maxItems := len(diags)
	if opts.Max > 0 && opts.Max < maxItems {
		maxItems = opts.Max
	}

	out := DiagnosticsOutput{Diagnostics: make([]DiagnosticJSON, 0, maxItems)}
	for i, d := range diags {
		switch d.Severity {
		case diag.SevError:
			out.Errors++
		case diag.SevWarning:
			out.Warnings++
		}
		if i >= maxItems {
			continue
		}
		dj := DiagnosticJSON{
			Severity: d.Severity.Label(),
			Code:     d.Code.ID(),
			Category: d.Code.Category().String(),
			Title:    d.Code.Title(),
			Message:  d.Message,
			Location: makeLocation(d.Location, opts),
			Args:     d.Args,
		}
		if opts.IncludeNotes && len(d.Properties) > 0 {
			dj.Notes = make([]NoteJSON, len(d.Properties))
			for j, p := range d.Properties {
				dj.Notes[j] = NoteJSON{Key: p.Key, Value: p.Value}
			}
		}
		out.Diagnostics = append(out.Diagnostics, dj)
	}
	out.Count = len(out.Diagnostics)
	return out
}

// JSON форматирует диагностики в JSON формат.
func JSON(w io.Writer, diags []diag.Diagnostic, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildDiagnosticsOutput(diags, opts))
}
