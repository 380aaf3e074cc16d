// Package catalog holds the built-in template bodies and the two attribute
// sources emitted on every pass.
package catalog

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"typedid/internal/model"
)

// Placeholder is replaced by the target's name in every template body.
const Placeholder = "PLACEHOLDERID"

// Output keys of the always-emitted artifacts.
const (
	MarkerKey   = "StronglyTypedIdAttribute.g.cs"
	DefaultsKey = "StronglyTypedIdDefaultsAttribute.g.cs"
)

//go:embed templates/*.typedid
var templateFS embed.FS

//go:embed artifacts/*.cs
var artifactFS embed.FS

// Artifact is a static source registered with the host once per pass.
type Artifact struct {
	Key  string
	Text string
}

var loadBuiltins = sync.OnceValue(func() map[model.TemplateID]string {
	out := make(map[model.TemplateID]string, 4)
	for _, id := range model.BuiltInTemplates() {
		name := "templates/" + strings.ToLower(id.String()) + ".typedid"
		data, err := templateFS.ReadFile(name)
		if err != nil {
			panic(fmt.Errorf("catalog: missing built-in template %s: %w", name, err))
		}
		out[id] = string(data)
	}
	return out
})

// Text returns the body of a built-in template. TemplateUnset and ids outside
// the closed set are not found.
func Text(id model.TemplateID) (string, bool) {
	if !id.Valid() {
		return "", false
	}
	text, ok := loadBuiltins()[id]
	return text, ok
}

// EmptyTemplate is used as the body of a named template supplied without content.
func EmptyTemplate(name string) string {
	return "// The template '" + name + "' was empty. You can add code to this template file to generate it.\n"
}

var loadArtifacts = sync.OnceValue(func() []Artifact {
	read := func(file string) string {
		data, err := artifactFS.ReadFile("artifacts/" + file)
		if err != nil {
			panic(fmt.Errorf("catalog: missing artifact %s: %w", file, err))
		}
		return string(data)
	}
	return []Artifact{
		{Key: MarkerKey, Text: read("StronglyTypedIdAttribute.cs")},
		{Key: DefaultsKey, Text: read("StronglyTypedIdDefaultsAttribute.cs")},
	}
})

// Artifacts returns the marker and defaults attribute sources, in that order.
func Artifacts() []Artifact {
	src := loadArtifacts()
	out := make([]Artifact, len(src))
	copy(out, src)
	return out
}

var catalogDigest = sync.OnceValue(func() model.Digest {
	builtins := make([]string, 0, 4)
	for _, id := range model.BuiltInTemplates() {
		text, _ := Text(id)
		builtins = append(builtins, id.String(), text)
	}
	d, err := model.Fingerprint(struct {
		Builtins  []string
		Artifacts []Artifact
		Empty     string
	}{builtins, loadArtifacts(), EmptyTemplate(Placeholder)})
	if err != nil {
		panic(fmt.Errorf("catalog: fingerprint: %w", err))
	}
	return d
})

// Digest fingerprints every built-in template and artifact compiled into the
// binary. Anything cached from generated text must be keyed by it.
func Digest() model.Digest {
	return catalogDigest()
}
