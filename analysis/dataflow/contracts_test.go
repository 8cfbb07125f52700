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

import (
	"testing"

	"github.com/aster-lang/aster/analysis/config"
)

func newTestContractEngine() (*LogicSystem, *ContractEngine) {
	logger := config.NewLogGroup(config.NewDefault())
	logic := NewLogicSystem(logger, fakeIntersector{}, NewReceiverStack(), 0)
	return logic, NewContractEngine(logic, NewVariableStorage(), fakeIntersector{}, logger)
}

// TestProcessContractsRefinesArgumentOnConditionalMode exercises an
// `asString(x)`-shaped contract: a ConditionalEffect whose mode is
// ModeNotNull and whose condition is an is-instance test must, once the
// call result is approved NotEqNull, make the argument's refined type
// visible as a TypeStatement.
func TestProcessContractsRefinesArgumentOnConditionalMode(t *testing.T) {
	logic, ce := newTestContractEngine()
	call := "call-site"
	arg := realVar("x")
	result := &SyntheticVariable{}

	desc := ContractDescription{Effects: []ContractEffect{
		{Kind: ConditionalEffect, Mode: ModeNotNull, ConditionParamIndex: 0, ConditionIsInstance: true, ConditionType: fakeType("String")},
	}}

	flow := NewFlow()
	ce.ProcessContracts(flow, call, desc, result, []DataFlowVariable{arg})

	flow = logic.ApproveStatementsInsideFlow(flow, OperationStatement{Variable: result, Operation: NotEqNull}, false, false)
	ts, ok := flow.TypeStatementFor(arg)
	if !ok || len(ts.ExactType) != 1 || ts.ExactType[0].String() != "String" {
		t.Fatalf("expected the contract to refine the argument to String once the result was approved NotEqNull, got %v, %v", ts, ok)
	}
}

// TestProcessContractsSkipsUnresolvedArgument makes sure a nil entry in
// argVariables (an argument the adapter could not resolve to a variable) is
// skipped rather than panicking or installing a bogus implication.
func TestProcessContractsSkipsUnresolvedArgument(t *testing.T) {
	_, ce := newTestContractEngine()
	desc := ContractDescription{Effects: []ContractEffect{
		{Kind: ConditionalEffect, Mode: ModeTrue, ConditionParamIndex: 0},
	}}
	result := &SyntheticVariable{}
	flow := NewFlow()
	ce.ProcessContracts(flow, "call", desc, result, []DataFlowVariable{nil})
}

// TestGetTypeUsingConditionalContractsUnconditional covers the wildcard,
// is-instance path: a contract that unconditionally says the result is some
// type must be reported regardless of the call's own truth value.
func TestGetTypeUsingConditionalContractsUnconditional(t *testing.T) {
	_, ce := newTestContractEngine()
	desc := ContractDescription{Effects: []ContractEffect{
		{Kind: ConditionalEffect, Mode: ModeWildcard, ConditionParamIndex: returnValueConditionIndex, ConditionIsInstance: true, ConditionType: fakeType("String")},
	}}
	types, ok := ce.GetTypeUsingConditionalContracts(desc)
	if !ok || len(types) != 1 || types[0].String() != "String" {
		t.Fatalf("expected a single unconditional String refinement, got %v, %v", types, ok)
	}
}

// TestGetTypeUsingConditionalContractsIgnoresParamConditions makes sure a
// condition about a formal parameter (handled by ProcessContracts instead)
// does not leak into this query, which only answers for the result itself.
func TestGetTypeUsingConditionalContractsIgnoresParamConditions(t *testing.T) {
	_, ce := newTestContractEngine()
	desc := ContractDescription{Effects: []ContractEffect{
		{Kind: ConditionalEffect, Mode: ModeWildcard, ConditionParamIndex: 0, ConditionIsInstance: true, ConditionType: fakeType("String")},
	}}
	if _, ok := ce.GetTypeUsingConditionalContracts(desc); ok {
		t.Fatalf("expected no refinement: the effect's condition is about a parameter, not the result")
	}
}

// TestGetTypeUsingContractsForCollectionsNarrowsElementType exercises the
// lambda-collections scenario directly: a ForEachReturnValue effect with
// ModeNotNull means every element for which the lambda returned non-null
// should narrow lambdaParam's element type at that exit.
func TestGetTypeUsingContractsForCollectionsNarrowsElementType(t *testing.T) {
	logic, ce := newTestContractEngine()
	lambdaParam := realVar("element")
	desc := ContractDescription{Effects: []ContractEffect{
		{Kind: ForEachReturnValueEffect, Mode: ModeNotNull, LambdaParamIndex: 0},
	}}

	exitFlow := NewFlow()
	logic.AddTypeStatement(exitFlow, TypeStatement{Variable: lambdaParam, ExactType: []Type{fakeType("String")}})
	returnVar := realVar("lambda-return")
	logic.AddTypeStatement(exitFlow, TypeStatement{Variable: returnVar, ExactType: []Type{fakeType("Any")}})

	exits := []LambdaExit{{Flow: exitFlow, ReturnVariable: returnVar}}
	// Approve the return value's NotEqNull directly on the exit flow so the
	// condition the effect expects is already satisfied there.
	approved := logic.ApproveStatementsInsideFlow(exitFlow, OperationStatement{Variable: returnVar, Operation: NotEqNull}, false, false)
	exits[0].Flow = approved

	refined, ok := ce.GetTypeUsingContractsForCollections(desc, lambdaParam, exits)
	if !ok || len(refined) != 1 || refined[0].String() != "String" {
		t.Fatalf("expected the element type to narrow to String, got %v, %v", refined, ok)
	}
}

// TestGetTypeUsingContractsForCollectionsSkipsWildcard confirms a
// ForEachReturnValue effect left at ModeWildcard (an omitted "mode" field in
// a contract file) is ignored rather than reaching operationForMode's
// unreachable default branch.
func TestGetTypeUsingContractsForCollectionsSkipsWildcard(t *testing.T) {
	_, ce := newTestContractEngine()
	lambdaParam := realVar("element")
	desc := ContractDescription{Effects: []ContractEffect{
		{Kind: ForEachReturnValueEffect, Mode: ModeWildcard, LambdaParamIndex: 0},
	}}
	if _, ok := ce.GetTypeUsingContractsForCollections(desc, lambdaParam, nil); ok {
		t.Fatalf("expected no refinement from a wildcard-mode effect")
	}
}
