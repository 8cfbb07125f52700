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

import "fmt"

// VariableStorage interns RealVariables by structural identity and mints
// SyntheticVariables keyed on expression identity (spec §4.1). It holds no
// per-flow state: the alias-unwrapping GetOrCreateReal performs reads a
// supplied Flow but never keeps a reference to it.
type VariableStorage struct {
	reals         map[string]*RealVariable
	synthetics    map[any]*SyntheticVariable
	nextSynthetic int
}

// NewVariableStorage returns an empty VariableStorage, ready for one
// top-level declaration's analysis.
func NewVariableStorage() *VariableStorage {
	return &VariableStorage{
		reals:      map[string]*RealVariable{},
		synthetics: map[any]*SyntheticVariable{},
	}
}

func (vs *VariableStorage) intern(v *RealVariable) *RealVariable {
	k := v.key()
	if existing, ok := vs.reals[k]; ok {
		return existing
	}
	vs.reals[k] = v
	return v
}

// GetOrCreateRealWithoutUnwrapping returns the canonical RealVariable for
// (symbol, receiver) without following directAliasMap (spec §4.1). receiver
// must already be a canonical RealVariable obtained from this storage, or
// nil for an unqualified access. Returns (nil, false) if symbol is not
// Stable; the caller falls back to a SyntheticVariable.
func (vs *VariableStorage) GetOrCreateRealWithoutUnwrapping(symbol Symbol, receiver *RealVariable) (*RealVariable, bool) {
	if symbol == nil || symbol.Stability() != Stable {
		return nil, false
	}
	return vs.intern(&RealVariable{Symbol: symbol, ExplicitReceiver: receiver}), true
}

// GetOrCreateReal is GetOrCreateRealWithoutUnwrapping followed by resolving
// through flow's directAliasMap (spec §4.1): most read sites want the
// variable currently aliased in, not the syntactic one.
func (vs *VariableStorage) GetOrCreateReal(flow *Flow, symbol Symbol, receiver *RealVariable) (*RealVariable, bool) {
	v, ok := vs.GetOrCreateRealWithoutUnwrapping(symbol, receiver)
	if !ok {
		return nil, false
	}
	return vs.unwrapAlias(flow, v), true
}

func (vs *VariableStorage) unwrapAlias(flow *Flow, v *RealVariable) *RealVariable {
	if flow == nil {
		return v
	}
	visited := map[*RealVariable]bool{}
	for {
		if visited[v] {
			// AddLocalVariableAlias always removes any previous alias of lhs
			// before installing a new one, so directAliasMap can never form a
			// cycle on its own: reaching one here means some caller mutated
			// the map outside that invariant.
			panic(wrapFatal(errInconsistentStorage(fmt.Sprintf("alias cycle detected at %s", v)), nil))
		}
		visited[v] = true
		next, ok := flow.AliasOf(v)
		if !ok {
			return v
		}
		v = next
	}
}

// CreateSynthetic returns the SyntheticVariable already bound to expr, or
// mints and memoizes a fresh one (spec §4.1 createSynthetic). label is a
// diagnostic hint (e.g. "is-check", "safe-call").
func (vs *VariableStorage) CreateSynthetic(expr any, label string) *SyntheticVariable {
	if sv, ok := vs.synthetics[expr]; ok {
		return sv
	}
	vs.nextSynthetic++
	sv := &SyntheticVariable{id: vs.nextSynthetic, label: label}
	vs.synthetics[expr] = sv
	return sv
}

// GetOrCreateVariable returns a real variable if the (symbol, receiver) pair
// resolves to one, else a synthetic memoized on expr (spec §4.1
// getOrCreateVariable). symbol may be nil for an expression with no
// nameable lvalue (a literal, a call result), in which case a synthetic is
// always produced.
func (vs *VariableStorage) GetOrCreateVariable(flow *Flow, symbol Symbol, receiver *RealVariable, expr any, label string) DataFlowVariable {
	if symbol != nil {
		if v, ok := vs.GetOrCreateReal(flow, symbol, receiver); ok {
			return v
		}
	}
	return vs.CreateSynthetic(expr, label)
}

// RemoveReal drops interning for every RealVariable rooted at symbol,
// including those with symbol as an explicit receiver further down a chain
// (spec §4.1 removeReal): called when a local leaves scope.
func (vs *VariableStorage) RemoveReal(symbol Symbol) {
	for k, v := range vs.reals {
		if variableMentionsSymbol(v, symbol) {
			delete(vs.reals, k)
		}
	}
}

func variableMentionsSymbol(v *RealVariable, symbol Symbol) bool {
	for v != nil {
		if v.Symbol == symbol {
			return true
		}
		v = v.ExplicitReceiver
	}
	return false
}

// Clear wipes all interning state, called between top-level declarations
// (spec §4.1 clear, spec §5 "the engine resets this context whenever the
// graph builder reports that analysis has returned to the top level").
func (vs *VariableStorage) Clear() {
	vs.reals = map[string]*RealVariable{}
	vs.synthetics = map[any]*SyntheticVariable{}
	vs.nextSynthetic = 0
}
