// SPDX-License-Identifier: Apache-2.0

package tracepipe

// Compatible reports whether a producer's declared output type may feed
// a consumer's declared input type.
//
// The rules are intentionally shallow:
//
//   - A type variable on either side matches anything. The variable
//     conceptually binds to the other side for the duration of this one
//     check; no substitution is carried to other adjacency checks.
//   - Leaf types (Unit, Text, Bytes, Data) match iff their tags match.
//   - List, Map, and Tuple match structurally: component types must be
//     compatible, both components independently in the Tuple case.
//
// This is a composition sanity check, not a runtime guarantee: Data is
// not refined further, so a stage may still receive structured data
// whose internal shape is not what it assumes. That gap is accepted.
func Compatible(producer, consumer Type) bool {
	if producer.kind == KindVar || consumer.kind == KindVar {
		return true
	}
	if producer.kind != consumer.kind {
		return false
	}
	switch producer.kind {
	case KindList, KindMap:
		return Compatible(producer.Elem(), consumer.Elem())
	case KindTuple:
		pa, pb := producer.Components()
		ca, cb := consumer.Components()
		return Compatible(pa, ca) && Compatible(pb, cb)
	default:
		return true
	}
}
