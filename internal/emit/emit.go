// Package emit turns a resolved template into the final source text and its
// output key.
package emit

import (
	"errors"
	"fmt"
	"strings"

	"typedid/internal/catalog"
	"typedid/internal/model"
	"typedid/internal/resolve"
)

// Contract violations by internal callers. These are not user diagnostics.
var (
	ErrBlankName     = errors.New("target name is blank")
	ErrUnsetTemplate = errors.New("template is unset or unknown")
	ErrBlankExtra    = errors.New("extra template name is blank")
)

const (
	header        = "// <auto-generated/>\n"
	builtinHeader = "#pragma warning disable 1591\n#nullable enable\n"
	keySuffix     = ".g.cs"
	indentUnit    = "    "
)

// Output is one generated source registered with the host.
type Output struct {
	Key  string
	Text string
}

// Emit renders the primary output of target using tpl.
func Emit(target model.Target, tpl resolve.Template) (Output, error) {
	return render(target, tpl, "")
}

// EmitExtra renders an output for an additional named template. Its key
// carries the template name so it does not collide with the primary output.
func EmitExtra(target model.Target, tpl resolve.Template) (Output, error) {
	if strings.TrimSpace(tpl.Name) == "" {
		return Output{}, fmt.Errorf("emit %q: %w", target.Name, ErrBlankExtra)
	}
	return render(target, tpl, tpl.Name)
}

// EmitAll renders the primary output followed by one output per extra template.
func EmitAll(target model.Target, res resolve.Resolution) ([]Output, error) {
	if res.Outcome != resolve.Generate {
		return nil, nil
	}
	out := make([]Output, 0, 1+len(res.Extras))
	primary, err := Emit(target, res.Template)
	if err != nil {
		return nil, err
	}
	out = append(out, primary)
	for _, extra := range res.Extras {
		o, err := EmitExtra(target, extra)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

func render(target model.Target, tpl resolve.Template, extra string) (Output, error) {
	if strings.TrimSpace(target.Name) == "" {
		return Output{}, ErrBlankName
	}
	if tpl.BuiltIn {
		if _, ok := catalog.Text(tpl.ID); !ok {
			return Output{}, fmt.Errorf("emit %q: %w", target.Name, ErrUnsetTemplate)
		}
	} else if tpl.Name == "" {
		// ни встроенного, ни именованного шаблона
		return Output{}, fmt.Errorf("emit %q: %w", target.Name, ErrUnsetTemplate)
	}

	var sb strings.Builder
	sb.WriteString(header)
	if tpl.BuiltIn {
		sb.WriteString(builtinHeader)
	}
	sb.WriteByte('\n')

	depth := 0
	if len(target.Namespace) > 0 {
		sb.WriteString("namespace ")
		sb.WriteString(strings.Join(target.Namespace, "."))
		sb.WriteString("\n{\n")
		depth++
	}
	// Enclosing хранится снаружи внутрь, так что первый элемент открывается первым
	for i, scope := range target.Enclosing {
		ind := strings.Repeat(indentUnit, depth+i)
		sb.WriteString(ind)
		sb.WriteString(declarationLine(scope))
		sb.WriteByte('\n')
		sb.WriteString(ind)
		sb.WriteString("{\n")
	}

	body := strings.ReplaceAll(tpl.Text, catalog.Placeholder, target.Name)
	sb.WriteString(body)
	if body != "" && !strings.HasSuffix(body, "\n") {
		sb.WriteByte('\n')
	}

	for i := len(target.Enclosing) - 1; i >= 0; i-- {
		sb.WriteString(strings.Repeat(indentUnit, depth+i))
		sb.WriteString("}\n")
	}
	if len(target.Namespace) > 0 {
		sb.WriteString("}\n")
	}

	return Output{Key: Key(target, extra), Text: sb.String()}, nil
}

func declarationLine(s model.EnclosingScope) string {
	parts := make([]string, 0, 4)
	for _, p := range []string{s.Modifiers, s.Keyword, s.Name, s.Constraints} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// Key builds the stable output key: namespace segments, enclosing names,
// the target name and the optional extra template name, joined by dots.
func Key(target model.Target, extra string) string {
	parts := make([]string, 0, len(target.Namespace)+len(target.Enclosing)+2)
	parts = append(parts, target.Namespace...)
	for _, s := range target.Enclosing {
		parts = append(parts, keySafe(s.Name))
	}
	parts = append(parts, target.Name)
	if extra != "" {
		parts = append(parts, extra)
	}
	return strings.Join(parts, ".") + keySuffix
}

var keyReplacer = strings.NewReplacer("<", "{", ">", "}", " ", "")

func keySafe(name string) string {
	return keyReplacer.Replace(name)
}
