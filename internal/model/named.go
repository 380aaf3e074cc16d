package model

import (
	"slices"

	"github.com/vmihailenco/msgpack/v5"
)

// NamedTemplate is an externally supplied template body.
type NamedTemplate struct {
	Name       string
	Content    string
	HasContent bool
}

// NamedTemplates is an ordered immutable collection. On duplicate names the
// first entry wins.
type NamedTemplates struct {
	items []NamedTemplate
}

func NewNamedTemplates(items ...NamedTemplate) NamedTemplates {
	return NamedTemplates{items: slices.Clone(items)}
}

// Lookup performs an exact, case-sensitive match.
func (n NamedTemplates) Lookup(name string) (NamedTemplate, bool) {
	for _, it := range n.items {
		if it.Name == name {
			return it, true
		}
	}
	return NamedTemplate{}, false
}

func (n NamedTemplates) Len() int { return len(n.items) }

// Items returns a copy of the entries in order.
func (n NamedTemplates) Items() []NamedTemplate {
	return slices.Clone(n.items)
}

func (n NamedTemplates) Equal(other NamedTemplates) bool {
	return slices.Equal(n.items, other.items)
}

func (n NamedTemplates) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.Encode(n.items)
}

func (n *NamedTemplates) DecodeMsgpack(dec *msgpack.Decoder) error {
	return dec.Decode(&n.items)
}
