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

// DataFlowAnalyzerContext is the single mutable resource one active analysis
// owns (spec §5): variable storage, the node-to-flow map, and the graph
// builder/type context/contract provider collaborators. It resets whenever
// the graph builder reports a return to the top level.
type DataFlowAnalyzerContext struct {
	Storage   *VariableStorage
	Graph     GraphBuilder
	Types     TypeContext
	Contracts ContractProvider
	Receivers *ReceiverStack

	flowOnNodes         map[int]*Flow
	ignoreFunctionCalls bool
}

// NewDataFlowAnalyzerContext builds a fresh context ready for one top-level
// declaration's analysis.
func NewDataFlowAnalyzerContext(graph GraphBuilder, types TypeContext, contracts ContractProvider, receivers *ReceiverStack) *DataFlowAnalyzerContext {
	return &DataFlowAnalyzerContext{
		Storage:     NewVariableStorage(),
		Graph:       graph,
		Types:       types,
		Contracts:   contracts,
		Receivers:   receivers,
		flowOnNodes: map[int]*Flow{},
	}
}

// Reset wipes per-declaration state (spec §4.1 clear, §5).
func (ctx *DataFlowAnalyzerContext) Reset() {
	ctx.Storage.Clear()
	ctx.flowOnNodes = map[int]*Flow{}
	ctx.ignoreFunctionCalls = false
}

// FlowFor returns the previously stored flow for a CFG node.
func (ctx *DataFlowAnalyzerContext) FlowFor(node Node) (*Flow, bool) {
	f, ok := ctx.flowOnNodes[node.ID()]
	return f, ok
}

func (ctx *DataFlowAnalyzerContext) setFlow(node Node, flow *Flow) {
	ctx.flowOnNodes[node.ID()] = flow
}

// DataFlowInfo is the read-only snapshot handed to downstream passes at
// function exit (spec §6): "a snapshot DataFlowInfo(variableStorage,
// flowOnNodes) so downstream passes can still consult facts" after the
// analyzer context itself has been reset for the next declaration.
type DataFlowInfo struct {
	Storage     *VariableStorage
	FlowOnNodes map[int]*Flow
}

// ControlFlowGraphReference is returned to the resolver at function exit
// (spec §6): the built graph plus the DataFlowInfo snapshot.
type ControlFlowGraphReference struct {
	Graph GraphBuilder
	Info  DataFlowInfo
}

// DataFlowAnalyzer is the visitor the resolver drives event-by-event (spec
// §4.3). It owns no syntax knowledge: every event handler receives already
// resolved Symbols, RealVariables, and Node/Edge values from the resolver
// and GraphBuilder.
type DataFlowAnalyzer struct {
	ctx         *DataFlowAnalyzerContext
	logic       *LogicSystem
	contracts   *ContractEngine
	intersector TypeIntersector
	logger      *config.LogGroup
}

// NewDataFlowAnalyzer wires a DataFlowAnalyzer over ctx.
func NewDataFlowAnalyzer(ctx *DataFlowAnalyzerContext, intersector TypeIntersector, logger *config.LogGroup, maxImplicationChainDepth int) *DataFlowAnalyzer {
	logic := NewLogicSystem(logger, intersector, ctx.Receivers, maxImplicationChainDepth)
	return &DataFlowAnalyzer{
		ctx:         ctx,
		logic:       logic,
		contracts:   NewContractEngine(logic, ctx.Storage, intersector, logger),
		intersector: intersector,
		logger:      logger,
	}
}

// MergeIncomingFlow is the universal event prelude (spec §4.3
// mergeIncomingFlow): join the chosen predecessor flows, optionally refresh
// receivers, optionally fork, and store the result as node's flow. The
// resolver calls this once per CFG-relevant event, before invoking the
// event's specific handler with the returned Flow (spec §4.3: "Each event
// ... the analyzer joins predecessor flows into the node's flow, applies
// event-specific refinement rules").
func (a *DataFlowAnalyzer) MergeIncomingFlow(node Node, updateReceivers, shouldForkFlow bool) *Flow {
	edges := node.PreviousNodes()
	var predFlows []*Flow
	if node.IsDead() {
		for _, e := range edges {
			if e.IsBack {
				continue
			}
			if f, ok := a.ctx.FlowFor(e.From); ok {
				predFlows = append(predFlows, f)
			}
		}
	} else {
		for _, e := range edges {
			if !e.UsedInDFA {
				continue
			}
			if f, ok := a.ctx.FlowFor(e.From); ok {
				predFlows = append(predFlows, f)
			}
		}
	}

	var flow *Flow
	if len(predFlows) == 0 {
		flow = NewFlow()
	} else {
		flow = a.logic.Join(predFlows)
	}
	if updateReceivers {
		a.logic.UpdateAllReceivers(flow)
	}
	if shouldForkFlow {
		flow = flow.Fork()
	}
	a.ctx.setFlow(node, flow)
	return flow
}

// StoreFlow records flow as the state of node, for later lookup by FlowFor
// or by a later MergeIncomingFlow that takes node as a predecessor. The
// resolver calls this after running a node's event-specific handler on the
// Flow that MergeIncomingFlow produced for it (spec §4.3, §6): fine-grained
// CFG nodes (branch conditions, branch bodies) each get their own refined
// flow this way, distinct from the coarser flow MergeIncomingFlow alone
// would have stored.
func (a *DataFlowAnalyzer) StoreFlow(node Node, flow *Flow) {
	a.ctx.setFlow(node, flow)
}

// GetTypeUsingSmartcastInfo answers the front end's central question (spec
// §6): the returned list begins with the aliased variable's declared type,
// if symbol currently aliases another variable, and continues with the
// accumulated exactType set of whichever variable the alias chain resolves
// to.
func (a *DataFlowAnalyzer) GetTypeUsingSmartcastInfo(flow *Flow, symbol Symbol, receiver *RealVariable) ([]Type, bool) {
	v, ok := a.ctx.Storage.GetOrCreateRealWithoutUnwrapping(symbol, receiver)
	if !ok {
		return nil, false
	}
	target := v
	var out []Type
	if entry, aliased := flow.directAliasMap.get(v); aliased {
		out = append(out, entry.OriginalType)
		target = a.ctx.Storage.unwrapAlias(flow, v)
	}
	if ts, has := flow.TypeStatementFor(target); has {
		declared := a.ctx.Types.DeclaredTypeOf(target)
		for _, t := range ts.ExactType {
			if declared == nil || a.ctx.Types.IsSubtypeOf(t, declared) {
				out = append(out, t)
				continue
			}
			if a.logger != nil {
				a.logger.Warnf("dataflow: dropping unsafe widening of %s from %s to declared %s", target, t, declared)
			}
		}
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

// GetTypeUsingConditionalContracts and GetTypeUsingContractsForCollections
// forward to the ContractEngine (spec §4.3, §6).
func (a *DataFlowAnalyzer) GetTypeUsingConditionalContracts(desc ContractDescription) ([]Type, bool) {
	return a.contracts.GetTypeUsingConditionalContracts(desc)
}

func (a *DataFlowAnalyzer) GetTypeUsingContractsForCollections(desc ContractDescription, lambdaParam *RealVariable, exits []LambdaExit) ([]Type, bool) {
	return a.contracts.GetTypeUsingContractsForCollections(desc, lambdaParam, exits)
}

// ProcessContracts is the mutating call-exit event of spec §4.3: given the
// DataFlowVariable standing for a call's own result and the resolved
// DataFlowVariables of its arguments (nil for an argument the resolver could
// not resolve to a variable), it installs every implication the call's
// contract describes.
func (a *DataFlowAnalyzer) ProcessContracts(flow *Flow, call any, desc ContractDescription, callResult DataFlowVariable, argVariables []DataFlowVariable) {
	a.contracts.ProcessContracts(flow, call, desc, callResult, argVariables)
}

// ReturnExpressionsOfAnonymousFunction pairs each exit node of a lambda's
// subgraph (already identified by the GraphBuilder) with the
// DataFlowVariable bound to its return expression, ready to feed
// GetTypeUsingContractsForCollections (spec §6).
func (a *DataFlowAnalyzer) ReturnExpressionsOfAnonymousFunction(exitNodes []Node, exprForNode func(Node) any, symbolForNode func(Node) Symbol) []LambdaExit {
	var exits []LambdaExit
	for _, node := range exitNodes {
		flow, ok := a.ctx.FlowFor(node)
		if !ok {
			continue
		}
		expr := exprForNode(node)
		var symbol Symbol
		if symbolForNode != nil {
			symbol = symbolForNode(node)
		}
		v := a.ctx.Storage.GetOrCreateVariable(flow, symbol, nil, expr, "lambda-return")
		exits = append(exits, LambdaExit{Flow: flow, ReturnVariable: v})
	}
	return exits
}

// DropSubgraphFromCall discards any stored flow for the CFG nodes of call's
// subgraph (spec §6): used when the resolver retries resolution of a call
// (e.g. after backtracking an overload candidate) and the previously
// computed flow would be stale.
func (a *DataFlowAnalyzer) DropSubgraphFromCall(call any) {
	for _, node := range a.ctx.Graph.NodesFor(call) {
		delete(a.ctx.flowOnNodes, node.ID())
	}
}

// WithIgnoreFunctionCalls runs f with call processing suppressed (spec §6):
// used during overload candidate analysis so speculative calls do not
// pollute the flow with contract-derived facts.
func (a *DataFlowAnalyzer) WithIgnoreFunctionCalls(f func()) {
	prev := a.ctx.ignoreFunctionCalls
	a.ctx.ignoreFunctionCalls = true
	defer func() { a.ctx.ignoreFunctionCalls = prev }()
	f()
}

// IgnoringFunctionCalls reports whether WithIgnoreFunctionCalls is
// currently active.
func (a *DataFlowAnalyzer) IgnoringFunctionCalls() bool {
	return a.ctx.ignoreFunctionCalls
}

// FinishDeclaration snapshots the current context into a
// ControlFlowGraphReference and resets the context for the next top-level
// declaration (spec §5, §6).
func (a *DataFlowAnalyzer) FinishDeclaration() ControlFlowGraphReference {
	snapshot := DataFlowInfo{Storage: a.ctx.Storage, FlowOnNodes: cloneFlowMap(a.ctx.flowOnNodes)}
	ref := ControlFlowGraphReference{Graph: a.ctx.Graph, Info: snapshot}
	a.ctx.Reset()
	return ref
}

func cloneFlowMap(m map[int]*Flow) map[int]*Flow {
	out := make(map[int]*Flow, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
