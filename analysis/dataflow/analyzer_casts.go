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

// HandleUncheckedCast implements `x as T` (spec §4.3): a failed unchecked
// cast throws, so reaching the point after it means the cast succeeded;
// approve v NotEqNull (removing consumed synthetics) and add v hasType T.
func (a *DataFlowAnalyzer) HandleUncheckedCast(flow *Flow, v *RealVariable, targetType Type) *Flow {
	if v == nil {
		return flow
	}
	flow = a.logic.ApproveStatementsInsideFlow(flow, OperationStatement{Variable: v, Operation: NotEqNull}, false, true)
	a.logic.AddTypeStatement(flow, TypeStatement{Variable: v, ExactType: []Type{targetType}})
	return flow
}

// HandleSafeCast implements `x as? T` (spec §4.3): with a fresh synthetic s
// for the cast expression, add (s NotEqNull) ⟹ (v hasType T), and, if T is
// itself non-nullable, (s NotEqNull) ⟹ (v NotEqNull). The EqNull branch has
// no positive TypeStatement counterpart, mirroring HandleTypeTest's negative
// branch.
func (a *DataFlowAnalyzer) HandleSafeCast(flow *Flow, v *RealVariable, expr any, targetType Type, targetIsNonNull bool) DataFlowVariable {
	s := a.ctx.Storage.CreateSynthetic(expr, "safe-cast")
	if v == nil {
		return s
	}
	a.logic.AddImplication(flow, Implication{
		Condition: OperationStatement{Variable: s, Operation: NotEqNull},
		Effect:    TypeStatement{Variable: v, ExactType: []Type{targetType}},
	})
	if targetIsNonNull {
		a.logic.AddImplication(flow, Implication{
			Condition: OperationStatement{Variable: s, Operation: NotEqNull},
			Effect:    OperationStatement{Variable: v, Operation: NotEqNull},
		})
	}
	return s
}
