package model

// TemplateID identifies one of the built-in templates. The set is closed.
type TemplateID uint8

const (
	// TemplateUnset is an internal sentinel and is never valid for emission.
	TemplateUnset TemplateID = iota
	TemplateGuid
	TemplateInt
	TemplateLong
	TemplateString
)

// FallbackTemplate is used when defaults exist but do not pick a template.
const FallbackTemplate = TemplateGuid

var templateNames = [...]string{
	TemplateUnset:  "",
	TemplateGuid:   "Guid",
	TemplateInt:    "Int",
	TemplateLong:   "Long",
	TemplateString: "String",
}

// BuiltInTemplates lists the selectable ids in declaration order.
func BuiltInTemplates() []TemplateID {
	return []TemplateID{TemplateGuid, TemplateInt, TemplateLong, TemplateString}
}

func (id TemplateID) String() string {
	if int(id) < len(templateNames) && id != TemplateUnset {
		return templateNames[id]
	}
	return "Unset"
}

// Valid reports whether id names a selectable built-in template.
func (id TemplateID) Valid() bool {
	return id > TemplateUnset && int(id) < len(templateNames)
}

// ParseTemplateID maps a host enum member name to its id. Matching is
// case-sensitive; qualified names like "Template.Guid" are accepted.
func ParseTemplateID(member string) (TemplateID, bool) {
	for i := len(member) - 1; i >= 0; i-- {
		if member[i] == '.' {
			member = member[i+1:]
			break
		}
	}
	for _, id := range BuiltInTemplates() {
		if templateNames[id] == member {
			return id, true
		}
	}
	return TemplateUnset, false
}
