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

import "github.com/aster-lang/aster/analysis/config"

// returnValueConditionIndex is the convention this engine uses for a
// ConditionalEffect whose condition talks about the call's own result
// rather than a formal parameter (spec §4.3 leaves the exact encoding of
// "which value the condition is about" to the ContractProvider; -1 for "the
// result itself" mirrors how ConditionParamIndex already uses non-negative
// indices for parameters).
const returnValueConditionIndex = -1

// LambdaExit is one non-Nothing return point of a lambda argument passed to
// a call carrying a ForEachReturnValue contract effect (spec §4.3
// getTypeUsingContractsForCollections). The caller (the analyzer, which
// alone knows how to walk a lambda body's CFG) collects these; ContractEngine
// only consumes them.
type LambdaExit struct {
	Flow           *Flow
	ReturnVariable DataFlowVariable
}

// ContractEngine interprets ContractDescriptions as implications and type
// statements (spec §4.3 contracts subsection). It never parses contract
// syntax itself; that is ContractProvider's job (spec §6).
type ContractEngine struct {
	logic       *LogicSystem
	storage     *VariableStorage
	intersector TypeIntersector
	logger      *config.LogGroup
}

// NewContractEngine builds a ContractEngine sharing the analyzer's
// LogicSystem and VariableStorage.
func NewContractEngine(logic *LogicSystem, storage *VariableStorage, intersector TypeIntersector, logger *config.LogGroup) *ContractEngine {
	return &ContractEngine{logic: logic, storage: storage, intersector: intersector, logger: logger}
}

func operationForMode(mode ConditionalContractMode) Operation {
	switch mode {
	case ModeTrue:
		return EqTrue
	case ModeFalse:
		return EqFalse
	case ModeNull:
		return EqNull
	case ModeNotNull:
		return NotEqNull
	default:
		panic(wrapFatal(errUnsupportedOperation("operationForMode", mode), nil))
	}
}

// GetTypeUsingConditionalContracts is a query, not an event (spec §4.3): it
// looks for effects that hold unconditionally (ModeWildcard) and whose
// condition names the call's own result (returnValueConditionIndex), and
// reports the is-instance type such an effect guarantees. Effects that
// condition on a formal parameter refine that argument instead, via
// ProcessContracts, and are not returned here.
func (ce *ContractEngine) GetTypeUsingConditionalContracts(desc ContractDescription) ([]Type, bool) {
	var refined []Type
	for _, eff := range desc.Effects {
		if eff.Kind != ConditionalEffect {
			continue
		}
		if eff.Mode != ModeWildcard || eff.ConditionParamIndex != returnValueConditionIndex {
			continue
		}
		if !eff.ConditionIsInstance {
			continue
		}
		refined = append(refined, eff.ConditionType)
	}
	if len(refined) == 0 {
		return nil, false
	}
	return refined, true
}

// GetTypeUsingContractsForCollections handles ForEachReturnValue contracts
// (spec §4.3): for each such effect, it approves the lambda's return being
// the effect's expected truth value at every non-Nothing exit, intersects
// the resulting refined type of lambdaParam across all exits via
// LogicSystem.Or, and returns that as the narrowed element type of the
// call's Iterable<E> result.
func (ce *ContractEngine) GetTypeUsingContractsForCollections(desc ContractDescription, lambdaParam *RealVariable, exits []LambdaExit) ([]Type, bool) {
	var groups [][]TypeStatement
	for _, eff := range desc.Effects {
		if eff.Kind != ForEachReturnValueEffect {
			continue
		}
		if eff.Mode == ModeWildcard {
			continue
		}
		expectedOp := operationForMode(eff.Mode)
		for _, exit := range exits {
			approved := ce.logic.ApproveStatementsInsideFlow(exit.Flow, OperationStatement{Variable: exit.ReturnVariable, Operation: expectedOp}, true, false)
			if ts, ok := approved.TypeStatementFor(lambdaParam); ok && !ts.IsEmpty() {
				groups = append(groups, []TypeStatement{ts})
			}
		}
	}
	if len(groups) == 0 {
		return nil, false
	}
	narrowed := ce.logic.Or(groups)
	if len(narrowed) == 0 {
		return nil, false
	}
	var elementTypes []Type
	for _, ts := range narrowed {
		elementTypes = append(elementTypes, ts.ExactType...)
	}
	if ce.intersector == nil || len(elementTypes) == 0 {
		return nil, false
	}
	refinedElement := ce.intersector.Intersect(elementTypes)
	if refinedElement == nil {
		return nil, false
	}
	return []Type{refinedElement}, true
}

type contractConditionKey struct {
	call  any
	index int
}

// ProcessContracts is the mutating call-exit event of spec §4.3: for each
// conditional effect it declares a synthetic standing for the formal
// condition, links it to the effect statement on the resolved argument, and
// (unless the effect is unconditional) links the call result's operation
// status to that synthetic's truth according to the effect's mode.
func (ce *ContractEngine) ProcessContracts(flow *Flow, call any, desc ContractDescription, callResult DataFlowVariable, argVariables []DataFlowVariable) {
	for _, eff := range desc.Effects {
		if eff.Kind != ConditionalEffect {
			continue
		}
		if eff.ConditionParamIndex < 0 || eff.ConditionParamIndex >= len(argVariables) {
			continue
		}
		argVar := argVariables[eff.ConditionParamIndex]
		if argVar == nil {
			continue
		}
		conditionVar := ce.storage.CreateSynthetic(contractConditionKey{call: call, index: eff.ConditionParamIndex}, "contract-condition")

		var effectStatement Statement
		if eff.ConditionIsInstance {
			rv, ok := argVar.(*RealVariable)
			if !ok {
				continue
			}
			effectStatement = TypeStatement{Variable: rv, ExactType: []Type{eff.ConditionType}}
		} else {
			effectStatement = OperationStatement{Variable: argVar, Operation: NotEqNull}
		}

		conditionHolds := OperationStatement{Variable: conditionVar, Operation: EqTrue}
		ce.logic.AddImplication(flow, Implication{Condition: conditionHolds, Effect: effectStatement})

		if eff.Mode == ModeWildcard {
			ce.logic.ApproveStatementsInsideFlow(flow, conditionHolds, false, false)
			continue
		}
		resultHasMode := OperationStatement{Variable: callResult, Operation: operationForMode(eff.Mode)}
		ce.logic.AddImplication(flow, Implication{Condition: resultHasMode, Effect: conditionHolds})
	}
}
