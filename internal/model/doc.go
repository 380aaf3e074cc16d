// Package model holds the immutable value types that flow between the
// generator stages: target descriptions, resolved defaults and externally
// supplied named templates.
//
// Every type provides Equal performing deep structural comparison. Session
// caches in internal/pipeline rely on it: two independently constructed
// values with the same fields must compare equal, and changing any field
// must make them unequal. Values are never mutated after construction; a new
// pass builds new instances.
package model
