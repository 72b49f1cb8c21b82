// SPDX-License-Identifier: Apache-2.0

package tracepipe

import (
	"fmt"

	"github.com/google/uuid"
)

// Kind identifies the tag of a [Type].
type Kind uint8

// The closed set of structural type tags.
const (
	// KindUnit is the no-value type. It seeds every pipeline and is the
	// declared input of all source stages.
	KindUnit Kind = iota

	// KindText is decoded text (runtime value: string).
	KindText

	// KindBytes is an undecoded byte buffer (runtime value: []byte).
	KindBytes

	// KindData is opaque structured data, such as decoded JSON or a
	// trace call tree. The algebra does not refine its internal shape.
	KindData

	// KindList is an ordered sequence of a component type.
	KindList

	// KindMap is a keyed, unordered container of a component type.
	// Keys are arbitrary text.
	KindMap

	// KindTuple is an ordered pair of two component types.
	KindTuple

	// KindVar is an unbound placeholder, unique per allocation. During
	// a compatibility check it matches any type; outside unification it
	// is equal only to itself.
	KindVar
)

// A Type is an immutable structural descriptor for the values flowing
// between stages.
//
// Types are small values, compared and passed by value. Composite types
// (List, Map, Tuple) own their component descriptors; a descriptor is
// never mutated after construction.
type Type struct {
	kind  Kind
	elems []Type
	varID uuid.UUID
}

// Leaf type descriptors. Equality is by tag.
var (
	// Unit is the no-value type.
	Unit = Type{kind: KindUnit}

	// Text is the decoded-text type.
	Text = Type{kind: KindText}

	// Bytes is the raw byte buffer type.
	Bytes = Type{kind: KindBytes}

	// Data is the opaque structured-data type.
	Data = Type{kind: KindData}
)

// ListOf returns the type of an ordered sequence of elem.
func ListOf(elem Type) Type {
	return Type{kind: KindList, elems: []Type{elem}}
}

// MapOf returns the type of a keyed container of elem.
func MapOf(elem Type) Type {
	return Type{kind: KindMap, elems: []Type{elem}}
}

// TupleOf returns the type of an ordered pair of first and second.
func TupleOf(first, second Type) Type {
	return Type{kind: KindTuple, elems: []Type{first, second}}
}

// NewVar allocates a fresh type variable.
//
// Each call returns a distinct variable. A factory that is polymorphic
// in the value passing through it allocates one variable and uses it as
// both the stage's input and output type, so whatever type the upstream
// stage produces is also what the stage claims to produce.
func NewVar() Type {
	return Type{kind: KindVar, varID: uuid.New()}
}

// Kind returns the type's tag.
func (t Type) Kind() Kind {
	return t.kind
}

// Elem returns the component type of a List or Map, or the Unit type
// for any other kind.
func (t Type) Elem() Type {
	if (t.kind == KindList || t.kind == KindMap) && len(t.elems) == 1 {
		return t.elems[0]
	}
	return Unit
}

// Components returns both component types of a Tuple. For any other
// kind it returns two Unit types.
func (t Type) Components() (Type, Type) {
	if t.kind == KindTuple && len(t.elems) == 2 {
		return t.elems[0], t.elems[1]
	}
	return Unit, Unit
}

// Equal reports whether two descriptors are the same type.
//
// This is strict identity, not unification: a variable is equal only to
// itself (same allocation). Use [Compatible] for the producer/consumer
// check performed at composition time.
func (t Type) Equal(other Type) bool {
	if t.kind != other.kind {
		return false
	}
	switch t.kind {
	case KindVar:
		return t.varID == other.varID
	case KindList, KindMap, KindTuple:
		if len(t.elems) != len(other.elems) {
			return false
		}
		for i := range t.elems {
			if !t.elems[i].Equal(other.elems[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// String returns the diagnostic form of the type, e.g. "list(text)" or
// "tuple(text, var)". It is used in composition error messages and
// logging, never for dispatch.
func (t Type) String() string {
	switch t.kind {
	case KindUnit:
		return "unit"
	case KindText:
		return "text"
	case KindBytes:
		return "bytes"
	case KindData:
		return "data"
	case KindList:
		return fmt.Sprintf("list(%s)", t.Elem())
	case KindMap:
		return fmt.Sprintf("map(%s)", t.Elem())
	case KindTuple:
		first, second := t.Components()
		return fmt.Sprintf("tuple(%s, %s)", first, second)
	case KindVar:
		return "var"
	default:
		return "invalid"
	}
}

// A Pair is the runtime value of a Tuple type.
//
// Stages that declare a tuple input, and sinks like [ToFile] that
// assume one behind a type variable, expect this shape at runtime.
type Pair struct {
	First  any
	Second any
}
