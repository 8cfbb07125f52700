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

// Operation is one of the four operation-statement atoms of spec §3: a
// SyntheticVariable or RealVariable can be known to be true, false, null, or
// not-null at a program point.
type Operation int

const (
	EqTrue Operation = iota
	EqFalse
	EqNull
	NotEqNull
)

func (op Operation) String() string {
	switch op {
	case EqTrue:
		return "true"
	case EqFalse:
		return "false"
	case EqNull:
		return "null"
	case NotEqNull:
		return "not-null"
	default:
		panic(wrapFatal(errUnsupportedOperation("Operation.String", op), nil))
	}
}

// Negate returns the logical opposite operation within the same domain
// (true/false or null/not-null); the two domains never cross.
func (op Operation) Negate() Operation {
	switch op {
	case EqTrue:
		return EqFalse
	case EqFalse:
		return EqTrue
	case EqNull:
		return NotEqNull
	case NotEqNull:
		return EqNull
	default:
		return op
	}
}

// forBool picks EqTrue/EqFalse according to a boolean, used by handlers that
// derive a sign from a Go bool (e.g. "is" vs "!is").
func forBool(b bool) Operation {
	if b {
		return EqTrue
	}
	return EqFalse
}

// Statement is the closed variant spec §9 calls out explicitly: a
// TypeStatement or an OperationStatement. Dispatch on the concrete type via
// a type switch; the interface exists only so Implication.Effect and the
// logic sets can hold either.
type Statement interface {
	isStatement()
	key() string
	String() string
}

// TypeStatement asserts that a RealVariable's value belongs to every type in
// ExactType (spec §3): the types intersect to the refined type. ExactType is
// insertion-ordered and deduplicated by Type.String(); membership, not
// order, carries the meaning.
type TypeStatement struct {
	Variable  *RealVariable
	ExactType []Type
}

func (TypeStatement) isStatement() {}

// IsEmpty reports a trivially true statement (spec §3: "a statement is empty
// iff its set is empty").
func (t TypeStatement) IsEmpty() bool { return len(t.ExactType) == 0 }

func (t TypeStatement) key() string {
	s := "ts:" + t.Variable.key() + "["
	for _, ty := range t.ExactType {
		s += ty.String() + ","
	}
	return s + "]"
}

func (t TypeStatement) String() string {
	if t.IsEmpty() {
		return fmt.Sprintf("%s: <empty>", t.Variable)
	}
	names := make([]string, len(t.ExactType))
	for i, ty := range t.ExactType {
		names[i] = ty.String()
	}
	return fmt.Sprintf("%s: %v", t.Variable, names)
}

// Union returns a new TypeStatement over the same variable holding the
// insertion-ordered union of both sets' types (spec §4.2 union).
func (t TypeStatement) Union(other TypeStatement) TypeStatement {
	return TypeStatement{Variable: t.Variable, ExactType: unionTypes(t.ExactType, other.ExactType)}
}

// Intersect returns a new TypeStatement over the same variable holding only
// the types present in both sets (spec §4.2 join/or: "set-intersection on
// exactType").
func (t TypeStatement) Intersect(other TypeStatement) TypeStatement {
	return TypeStatement{Variable: t.Variable, ExactType: intersectTypes(t.ExactType, other.ExactType)}
}

func unionTypes(a, b []Type) []Type {
	out := make([]Type, 0, len(a)+len(b))
	seen := map[string]bool{}
	for _, t := range a {
		if !seen[t.String()] {
			seen[t.String()] = true
			out = append(out, t)
		}
	}
	for _, t := range b {
		if !seen[t.String()] {
			seen[t.String()] = true
			out = append(out, t)
		}
	}
	return out
}

func intersectTypes(a, b []Type) []Type {
	inB := map[string]bool{}
	for _, t := range b {
		inB[t.String()] = true
	}
	out := make([]Type, 0, len(a))
	for _, t := range a {
		if inB[t.String()] {
			out = append(out, t)
		}
	}
	return out
}

// OperationStatement is the `variable is (true|false|null|not-null)` atom of
// spec §3.
type OperationStatement struct {
	Variable  DataFlowVariable
	Operation Operation
}

func (OperationStatement) isStatement() {}

func (o OperationStatement) key() string {
	return fmt.Sprintf("op:%s:%s", o.Variable, o.Operation)
}

func (o OperationStatement) String() string {
	return fmt.Sprintf("%s is %s", o.Variable, o.Operation)
}

// Implication is `condition ⟹ effect` (spec §3): if the condition
// operation-statement is known to hold, the effect statement is added to
// the flow.
type Implication struct {
	Condition OperationStatement
	Effect    Statement
}

func (i Implication) key() string {
	return i.Condition.key() + "=>" + i.Effect.key()
}

func (i Implication) String() string {
	return fmt.Sprintf("%s ⟹ %s", i.Condition, i.Effect)
}

// isTautological reports whether the implication's effect is already
// implied by facts already recorded on flow, so adding it would be a no-op
// (spec §4.2 addImplication: "ignore ... tautological (effect ⊆ current
// facts) implications").
func (i Implication) isTautological(flow *Flow) bool {
	switch eff := i.Effect.(type) {
	case TypeStatement:
		existing, ok := flow.approvedTypeStatements.get(eff.Variable)
		if !ok {
			return eff.IsEmpty()
		}
		for _, t := range eff.ExactType {
			found := false
			for _, e := range existing.ExactType {
				if e.String() == t.String() {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	case OperationStatement:
		return false
	default:
		return false
	}
}
