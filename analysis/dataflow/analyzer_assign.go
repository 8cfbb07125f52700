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

// HandleAssignment implements variable declaration with initializer, and
// assignment to a local `val`/`var` (spec §4.3). isReassignment is true for
// an assignment to an already-declared `var` (never for a first
// declaration); it triggers the scope-erasure step (spec §8 scenario 10):
// dropping the alias and every prior fact about the LHS before any new fact
// is installed.
func (a *DataFlowAnalyzer) HandleAssignment(flow *Flow, lhsSymbol Symbol, lhsReceiver *RealVariable, isReassignment bool, initializer DataFlowVariable, initializerType Type, initializerIsNonNull bool) (*RealVariable, bool) {
	lhs, ok := a.ctx.Storage.GetOrCreateRealWithoutUnwrapping(lhsSymbol, lhsReceiver)
	if !ok {
		return nil, false
	}

	if isReassignment {
		a.logic.RemoveLocalVariableAlias(flow, lhs)
		flow.approvedTypeStatements.delete(lhs)
	}

	switch init := initializer.(type) {
	case *RealVariable:
		a.logic.AddLocalVariableAlias(flow, lhs, init, initializerType)
	case *SyntheticVariable:
		a.logic.TranslateVariableFromConditionInStatements(flow, init, lhs, func(op Operation) Operation { return op })
	}

	if initializerIsNonNull && initializerType != nil {
		a.logic.AddTypeStatement(flow, TypeStatement{Variable: lhs, ExactType: []Type{initializerType}})
	}

	if lhs.IsReceiver {
		a.logic.UpdateAllReceivers(flow)
	}
	return lhs, true
}
