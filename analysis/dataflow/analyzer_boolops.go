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

// EnterRightOperand implements the pre-right-operand step of `&&`/`||`
// (spec §4.3): fork the left-exit flow and approve left at the sign that
// makes the right operand evaluate at all ("bothEvaluated": EqTrue for
// `&&`, EqFalse for `||`).
func (a *DataFlowAnalyzer) EnterRightOperand(leftExit *Flow, left DataFlowVariable, isAnd bool) *Flow {
	branch := leftExit.Fork()
	return a.logic.ApproveStatementsInsideFlow(branch, OperationStatement{Variable: left, Operation: forBool(isAnd)}, false, false)
}

// ExitBooleanOperator implements the merge step of `&&`/`||` (spec §4.3,
// collectInfoForBooleanOperator). matchingSign is the operation both
// operands are approved under when both were evaluated and the operator's
// overall result equals bothEvaluated's own truth value (EqTrue for `&&`,
// EqFalse for `||`); oppositeSign is its negation, used for the
// only-left-evaluated (short-circuit) case.
//
// Special case: if the right operand is dead while the left is alive, the
// operator can only have exited through the left's short-circuit, so approve
// left at oppositeSign directly instead of computing the merge (spec §4.3).
func (a *DataFlowAnalyzer) ExitBooleanOperator(expr any, leftExit, rightExit *Flow, left, right DataFlowVariable, isAnd, rightIsDead bool) (DataFlowVariable, *Flow) {
	result := a.ctx.Storage.CreateSynthetic(expr, "boolop")
	matchingSign := forBool(isAnd)
	oppositeSign := forBool(!isAnd)

	if rightIsDead {
		merged := a.logic.ApproveStatementsInsideFlow(leftExit.Fork(), OperationStatement{Variable: left, Operation: oppositeSign}, false, false)
		return result, merged
	}

	leftMatch := a.logic.ApproveStatementsInsideFlow(leftExit, OperationStatement{Variable: left, Operation: matchingSign}, true, false)
	rightMatch := a.logic.ApproveStatementsInsideFlow(rightExit, OperationStatement{Variable: right, Operation: matchingSign}, true, false)
	matchGroup := a.logic.Union([]*Flow{leftMatch, rightMatch})

	leftOpp := a.logic.ApproveStatementsInsideFlow(leftExit, OperationStatement{Variable: left, Operation: oppositeSign}, true, false)
	rightOpp := a.logic.ApproveStatementsInsideFlow(rightExit, OperationStatement{Variable: right, Operation: oppositeSign}, true, false)
	oppGroup := a.logic.Or([][]TypeStatement{leftOpp.TypeStatements(), rightOpp.TypeStatements()})

	merged := a.logic.Join([]*Flow{leftExit, rightExit})
	for _, ts := range matchGroup.TypeStatements() {
		a.logic.AddImplication(merged, Implication{
			Condition: OperationStatement{Variable: result, Operation: matchingSign},
			Effect:    ts,
		})
	}
	for _, ts := range oppGroup {
		a.logic.AddImplication(merged, Implication{
			Condition: OperationStatement{Variable: result, Operation: oppositeSign},
			Effect:    ts,
		})
	}
	a.logic.UpdateAllReceivers(merged)
	return result, merged
}

// HandleBooleanNegation implements `!x` (spec §4.3): replace every
// condition-implication about the operand with its inverted condition, now
// keyed on the negation's own result variable.
func (a *DataFlowAnalyzer) HandleBooleanNegation(flow *Flow, expr any, operand DataFlowVariable) DataFlowVariable {
	result := a.ctx.Storage.CreateSynthetic(expr, "not")
	a.logic.ReplaceVariableFromConditionInStatements(flow, operand, result, func(op Operation) Operation { return op.Negate() })
	return result
}
