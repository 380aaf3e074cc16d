package diagfmt

import (
	"fmt"
	"io"

	"typedid/internal/diag"
)

// Short prints one stable line per diagnostic:
// <severity> <ID> <path>:<line>:<col> <message>
func Short(w io.Writer, diags []diag.Diagnostic, baseDir string) error {
	out := diag.FormatShortDiagnostics(diags, baseDir)
	if out == "" {
		return nil
	}
	_, err := fmt.Fprintln(w, out)
	return err
}
