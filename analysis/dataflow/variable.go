// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dataflow

import "fmt"

// Symbol is the resolver's notion of a declared name (a local, a parameter,
// a property, `this`). The engine treats it as an opaque, comparable
// identity; stability (spec §4.1) is decided by Stability, which the
// resolver implements once per symbol kind.
type Symbol interface {
	// Name is used only for diagnostics.
	Name() string
	// Stability reports whether this symbol is eligible for a RealVariable
	// on its own: a local val, a stable parameter, `this`, or a final
	// member. Non-final fields and local vars accessed through an unstable
	// chain are Unstable.
	Stability() Stability
}

// Stability classifies a Symbol for the purposes of VariableStorage's
// stability rule (spec §4.1).
type Stability int

const (
	// Stable symbols (local val, stable parameter, this, final member
	// through a stable receiver chain) are eligible for a RealVariable.
	Stable Stability = iota
	// Unstable symbols (non-final field, local var accessed through
	// something else, unresolved) always get a SyntheticVariable.
	Unstable
)

// DataFlowVariable is the identity used inside the logic algebra: either a
// RealVariable (a stable, program-observable name) or a SyntheticVariable
// (an opaque token for an unnameable intermediate expression). Dispatch is
// by variant, not virtual call (spec §9): callers type-switch on the
// concrete type when they need variant-specific behavior, and use the
// interface only for identity and printing.
type DataFlowVariable interface {
	fmt.Stringer
	isDataFlowVariable()
}

// RealVariable identifies a stable lvalue: a symbol plus its explicit
// receiver chain. Equality is structural on (Symbol, ExplicitReceiver,
// IsReceiver); see Equal.
type RealVariable struct {
	Symbol Symbol
	// ExplicitReceiver is the RealVariable of the qualifying receiver
	// expression, or nil for an unqualified access (a bare local or `this`).
	ExplicitReceiver *RealVariable
	// IsReceiver marks a RealVariable that identifies an implicit receiver
	// (an enclosing `this`) rather than a name written at the use site; it
	// participates in equality because the same symbol can be both an
	// implicit and an explicit receiver in different contexts.
	IsReceiver bool
}

func (*RealVariable) isDataFlowVariable() {}

// String renders the variable's receiver chain outermost-first, e.g.
// "a.b.c".
func (v *RealVariable) String() string {
	if v == nil {
		return "<nil>"
	}
	if v.ExplicitReceiver != nil {
		return v.ExplicitReceiver.String() + "." + v.Symbol.Name()
	}
	return v.Symbol.Name()
}

// Equal implements the structural equality invariant of spec §3: two
// RealVariables are the same variable iff their (Symbol, receiver chain,
// IsReceiver) triples match all the way down.
func (v *RealVariable) Equal(other *RealVariable) bool {
	if v == other {
		return true
	}
	if v == nil || other == nil {
		return false
	}
	if v.Symbol != other.Symbol || v.IsReceiver != other.IsReceiver {
		return false
	}
	if (v.ExplicitReceiver == nil) != (other.ExplicitReceiver == nil) {
		return false
	}
	if v.ExplicitReceiver == nil {
		return true
	}
	return v.ExplicitReceiver.Equal(other.ExplicitReceiver)
}

// key returns a value usable as a Go map key, since a RealVariable's Go
// pointer identity is not itself the equality relation defined by Equal:
// VariableStorage interns one canonical pointer per structural identity, so
// after interning pointer equality and Equal do coincide, but key gives a
// robust fallback that never depends on interning having happened.
func (v *RealVariable) key() string {
	if v == nil {
		return ""
	}
	prefix := ""
	if v.ExplicitReceiver != nil {
		prefix = v.ExplicitReceiver.key() + "."
	}
	suffix := ""
	if v.IsReceiver {
		suffix = "#recv"
	}
	return fmt.Sprintf("%s%p%s", prefix, v.Symbol, suffix)
}

// SyntheticVariable is an opaque identity for a transient expression: a
// `when` condition, a safe-call result, a boolean-operator subexpression.
// It never carries a type refinement because the expression it decorates is
// unnameable after the statement that produced it (spec §3).
type SyntheticVariable struct {
	// id disambiguates synthetics created for distinct expressions; two
	// SyntheticVariables are equal iff they share an id, which
	// VariableStorage guarantees by memoizing on expression identity.
	id int
	// label is a human-readable hint for diagnostics, e.g. "is-check",
	// "safe-call", "&&".
	label string
}

func (*SyntheticVariable) isDataFlowVariable() {}

func (s *SyntheticVariable) String() string {
	if s == nil {
		return "<nil>"
	}
	return fmt.Sprintf("$%s%d", s.label, s.id)
}
