package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Использование маркера на декларации
	UsageInfo              Code = 1000
	NotExtensible          Code = 1001
	NestedTargetNotAllowed Code = 1002

	// Конфигурация шаблонов
	CfgInfo                  Code = 2000
	MultipleAssemblyDefaults Code = 2001
	UnknownTemplate          Code = 2002

	// Ввод-вывод
	IOInfo             Code = 4000
	TemplateUnreadable Code = 4001
)

// Category groups codes for host-side filtering.
type Category uint8

const (
	CatUnknown Category = iota
	CatUsage
	CatConfiguration
	CatIO
)

func (c Category) String() string {
	switch c {
	case CatUsage:
		return "Usage"
	case CatConfiguration:
		return "Configuration"
	case CatIO:
		return "IO"
	}
	return "Unknown"
}

// Descriptor is the constant part of a diagnostic.
type Descriptor struct {
	Code     Code
	Title    string
	Format   string
	Severity Severity
	Category Category
}

var descriptors = map[Code]Descriptor{
	UnknownCode: {
		Code: UnknownCode, Title: "Unknown error", Format: "%s",
		Severity: SevError, Category: CatUnknown,
	},
	NotExtensible: {
		Code:     NotExtensible,
		Title:    "Target type must be partial",
		Format:   "type '%s' must be declared partial to receive generated members",
		Severity: SevWarning,
		Category: CatUsage,
	},
	NestedTargetNotAllowed: {
		Code:     NestedTargetNotAllowed,
		Title:    "Enclosing type must be partial",
		Format:   "type '%s' is nested inside '%s', which is not partial",
		Severity: SevWarning,
		Category: CatUsage,
	},
	MultipleAssemblyDefaults: {
		Code:     MultipleAssemblyDefaults,
		Title:    "Multiple defaults attributes",
		Format:   "multiple [StronglyTypedIdDefaults] attributes found; defaults are ignored",
		Severity: SevWarning,
		Category: CatConfiguration,
	},
	UnknownTemplate: {
		Code:     UnknownTemplate,
		Title:    "Unknown template",
		Format:   "no template named '%s' was found",
		Severity: SevError,
		Category: CatConfiguration,
	},
	TemplateUnreadable: {
		Code:     TemplateUnreadable,
		Title:    "Template file could not be read",
		Format:   "template file '%s' could not be read: %s",
		Severity: SevWarning,
		Category: CatIO,
	},
}

// Describe returns the descriptor registered for c, falling back to UnknownCode.
func (c Code) Describe() Descriptor {
	d, ok := descriptors[c]
	if !ok {
		return descriptors[UnknownCode]
	}
	return d
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 5000:
		return fmt.Sprintf("STI%04d", ic)
	}
	return "STI0000"
}

func (c Code) Title() string {
	return c.Describe().Title
}

func (c Code) Severity() Severity {
	return c.Describe().Severity
}

func (c Code) Category() Category {
	return c.Describe().Category
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
