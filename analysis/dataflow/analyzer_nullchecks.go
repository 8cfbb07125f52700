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

// HandleNotNullAssertion implements `x!!` (spec §4.3): add x hasType Any,
// then approve x NotEqNull so any implication conditioned on that fact fires
// in the same step.
func (a *DataFlowAnalyzer) HandleNotNullAssertion(flow *Flow, v *RealVariable) *Flow {
	if v == nil {
		return flow
	}
	if a.ctx.Types != nil {
		a.logic.AddTypeStatement(flow, TypeStatement{Variable: v, ExactType: []Type{a.ctx.Types.AnyType()}})
	}
	return a.logic.ApproveStatementsInsideFlow(flow, OperationStatement{Variable: v, Operation: NotEqNull}, false, true)
}

// EnterSafeCallReceiver implements the "receiver not null" branch of `x?.f()`
// (spec §4.3): fork, add x hasType Any, approve x NotEqNull.
//
// Known limitation carried over unchanged from the reference implementation
// (spec §9 open question 2): if v cannot be resolved for the receiver (an
// unstable chain), this and ExitSafeCall silently install no facts rather
// than guessing; the safe-call-then-`!!` interaction stays exactly as
// underspecified as spec §9 leaves it.
func (a *DataFlowAnalyzer) EnterSafeCallReceiver(flow *Flow, v *RealVariable) *Flow {
	branch := flow.Fork()
	if v == nil {
		return branch
	}
	if a.ctx.Types != nil {
		a.logic.AddTypeStatement(branch, TypeStatement{Variable: v, ExactType: []Type{a.ctx.Types.AnyType()}})
	}
	return a.logic.ApproveStatementsInsideFlow(branch, OperationStatement{Variable: v, Operation: NotEqNull}, false, true)
}

// ExitSafeCall implements the exit of `x?.f()` (spec §4.3): add
// (result NotEqNull) ⟹ (receiverChain NotEqNull) and
// (result NotEqNull) ⟹ (receiverChain hasType Any). These are pending
// implications, not approved facts; spec scenario 9 depends on the
// safe-call's result never being approved just by evaluating the call, only
// by a later check against its own result.
func (a *DataFlowAnalyzer) ExitSafeCall(flow *Flow, expr any, receiverChain *RealVariable) DataFlowVariable {
	result := a.ctx.Storage.CreateSynthetic(expr, "safe-call")
	if receiverChain == nil {
		return result
	}
	a.logic.AddImplication(flow, Implication{
		Condition: OperationStatement{Variable: result, Operation: NotEqNull},
		Effect:    OperationStatement{Variable: receiverChain, Operation: NotEqNull},
	})
	if a.ctx.Types != nil {
		a.logic.AddImplication(flow, Implication{
			Condition: OperationStatement{Variable: result, Operation: NotEqNull},
			Effect:    TypeStatement{Variable: receiverChain, ExactType: []Type{a.ctx.Types.AnyType()}},
		})
	}
	return result
}
