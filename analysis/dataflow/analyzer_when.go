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

// EnterWhenBranchCondition implements entry to each `when` branch's
// condition (spec §4.3): approve prevCondition EqFalse on the incoming
// flow, forked, so negative information from earlier branches accumulates.
// prevCondition is nil for the first branch.
func (a *DataFlowAnalyzer) EnterWhenBranchCondition(incoming *Flow, prevCondition DataFlowVariable) *Flow {
	if prevCondition == nil {
		return incoming.Fork()
	}
	return a.logic.ApproveStatementsInsideFlow(incoming, OperationStatement{Variable: prevCondition, Operation: EqFalse}, true, false)
}

// ExitWhenBranchCondition binds the branch condition expression to a fresh
// per-branch synthetic (spec §4.3).
func (a *DataFlowAnalyzer) ExitWhenBranchCondition(expr any) DataFlowVariable {
	return a.ctx.Storage.CreateSynthetic(expr, "when-condition")
}

// EnterWhenBranchBody approves condVar EqTrue on the branch body's entry
// flow (spec §4.3).
func (a *DataFlowAnalyzer) EnterWhenBranchBody(conditionExit *Flow, condVar DataFlowVariable) *Flow {
	return a.logic.ApproveStatementsInsideFlow(conditionExit, OperationStatement{Variable: condVar, Operation: EqTrue}, true, true)
}

// EnterWhenElseBranch approves the falsity of the final explicit condition,
// for the synthetic else-branch of a non-exhaustive subject-less `when`
// (spec §4.3).
func (a *DataFlowAnalyzer) EnterWhenElseBranch(incoming *Flow, lastCondition DataFlowVariable) *Flow {
	if lastCondition == nil {
		return incoming.Fork()
	}
	return a.logic.ApproveStatementsInsideFlow(incoming, OperationStatement{Variable: lastCondition, Operation: EqFalse}, true, true)
}
