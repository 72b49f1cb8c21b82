// SPDX-License-Identifier: Apache-2.0

package tracepipe

import (
	"fmt"
	"testing"
)

func TestCompatibleLeaves(t *testing.T) {
	t.Parallel()
	leaves := []Type{Unit, Text, Bytes, Data}

	for _, a := range leaves {
		for _, b := range leaves {
			got := Compatible(a, b)
			want := a.Kind() == b.Kind()
			if got != want {
				t.Errorf("Compatible(%s, %s) = %v, want %v", a, b, got, want)
			}
		}
	}
}

func TestCompatibleVars(t *testing.T) {
	t.Parallel()
	v := NewVar()
	others := []Type{
		Unit, Text, Bytes, Data,
		ListOf(Text), MapOf(Data), TupleOf(Text, Bytes),
		NewVar(),
	}

	for _, other := range others {
		if !Compatible(v, other) {
			t.Errorf("Compatible(var, %s) = false, want true", other)
		}
		if !Compatible(other, v) {
			t.Errorf("Compatible(%s, var) = false, want true", other)
		}
	}
}

func TestCompatibleComposites(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		producer Type
		consumer Type
		want     bool
	}{
		{ListOf(Text), ListOf(Text), true},
		{ListOf(Text), ListOf(Bytes), false},
		{ListOf(NewVar()), ListOf(Data), true},
		{ListOf(ListOf(Text)), ListOf(ListOf(Text)), true},
		{ListOf(ListOf(Text)), ListOf(ListOf(Data)), false},
		{MapOf(Data), MapOf(Data), true},
		{MapOf(Data), MapOf(Text), false},
		{MapOf(NewVar()), MapOf(Bytes), true},
		{TupleOf(Text, Data), TupleOf(Text, Data), true},
		{TupleOf(Text, Data), TupleOf(Data, Data), false},
		{TupleOf(Text, Data), TupleOf(Text, Bytes), false},
		{TupleOf(NewVar(), Data), TupleOf(Bytes, Data), true},
		{TupleOf(Text, NewVar()), TupleOf(Text, Bytes), true},
		{ListOf(Text), MapOf(Text), false},
		{ListOf(Text), Text, false},
		{TupleOf(Text, Text), ListOf(Text), false},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(fmt.Sprintf("%s->%s", tc.producer, tc.consumer), func(t *testing.T) {
			t.Parallel()
			if got := Compatible(tc.producer, tc.consumer); got != tc.want {
				t.Errorf("Compatible(%s, %s) = %v, want %v", tc.producer, tc.consumer, got, tc.want)
			}
		})
	}
}

// Compatibility of composites must mirror compatibility of their
// components, checked here across every leaf pairing.
func TestCompatibleCompositionality(t *testing.T) {
	t.Parallel()
	leaves := []Type{Unit, Text, Bytes, Data}

	for _, a := range leaves {
		for _, b := range leaves {
			want := Compatible(a, b)
			if got := Compatible(ListOf(a), ListOf(b)); got != want {
				t.Errorf("list compositionality broken for (%s, %s)", a, b)
			}
			if got := Compatible(MapOf(a), MapOf(b)); got != want {
				t.Errorf("map compositionality broken for (%s, %s)", a, b)
			}
			if got := Compatible(TupleOf(a, Text), TupleOf(b, Text)); got != want {
				t.Errorf("tuple first-component compositionality broken for (%s, %s)", a, b)
			}
			if got := Compatible(TupleOf(Text, a), TupleOf(Text, b)); got != want {
				t.Errorf("tuple second-component compositionality broken for (%s, %s)", a, b)
			}
		}
	}
}
