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

// EnterLoopBody implements the `while`/`do-while` condition-exit-to-body
// step (spec §4.3): approve cond EqTrue, forked, on entry to the loop body.
func (a *DataFlowAnalyzer) EnterLoopBody(conditionExit *Flow, cond DataFlowVariable) *Flow {
	return a.logic.ApproveStatementsInsideFlow(conditionExit, OperationStatement{Variable: cond, Operation: EqTrue}, true, false)
}

// ExitLoopThroughCondition implements the loop-exit-through-condition step
// (spec §4.3): approve cond EqFalse. `for` loops have no special semantics
// here beyond the unrolled CFG the GraphBuilder already provides (spec
// §4.3), so there is no separate handler for them.
func (a *DataFlowAnalyzer) ExitLoopThroughCondition(conditionExit *Flow, cond DataFlowVariable) *Flow {
	return a.logic.ApproveStatementsInsideFlow(conditionExit, OperationStatement{Variable: cond, Operation: EqFalse}, true, false)
}
