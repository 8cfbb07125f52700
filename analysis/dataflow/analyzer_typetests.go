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

// HandleTypeTest implements the `x is T` / `x !is T` event of spec §4.3. v
// is the operand's RealVariable, or nil if the operand is not stable (the
// caller then has nothing to refine and only the synthetic result matters
// to enclosing boolean logic). negated is true for `!is`.
//
// The negative branch of a type test ("v does not have type T") has no
// TypeStatement counterpart in this engine's closed statement algebra
// (spec §9's TypeStatement only asserts positive membership), so unlike the
// positive branch it installs no effect: a failed type test never derives a
// refinement beyond the operand's declared type.
func (a *DataFlowAnalyzer) HandleTypeTest(flow *Flow, v *RealVariable, expr any, testedType Type, negated bool, testedTypeIsNonNullable bool) DataFlowVariable {
	s := a.ctx.Storage.CreateSynthetic(expr, "is-check")
	if v == nil {
		return s
	}
	positive := EqTrue
	if negated {
		positive = EqFalse
	}
	a.logic.AddImplication(flow, Implication{
		Condition: OperationStatement{Variable: s, Operation: positive},
		Effect:    TypeStatement{Variable: v, ExactType: []Type{testedType}},
	})
	if testedTypeIsNonNullable {
		a.logic.AddImplication(flow, Implication{
			Condition: OperationStatement{Variable: s, Operation: positive},
			Effect:    OperationStatement{Variable: v, Operation: NotEqNull},
		})
		if a.ctx.Types != nil {
			a.logic.AddImplication(flow, Implication{
				Condition: OperationStatement{Variable: s, Operation: positive},
				Effect:    TypeStatement{Variable: v, ExactType: []Type{a.ctx.Types.AnyType()}},
			})
		}
	}
	return s
}

// HandleNotIsNullableNothing is the `x !is Nothing?` special case (spec
// §4.3): it unconditionally implies v hasType Any in the current flow,
// rather than being gated behind the synthetic's truth like an ordinary
// type test.
func (a *DataFlowAnalyzer) HandleNotIsNullableNothing(flow *Flow, v *RealVariable) {
	if v == nil || a.ctx.Types == nil {
		return
	}
	a.logic.AddTypeStatement(flow, TypeStatement{Variable: v, ExactType: []Type{a.ctx.Types.AnyType()}})
}
