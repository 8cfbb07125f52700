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

package goadapter

import (
	"go/types"

	"github.com/aster-lang/aster/analysis/dataflow"
)

// varSymbol wraps a *types.Var as a dataflow.Symbol. Every local variable
// and parameter this driver sees is treated as Stable: this reference
// driver only ever binds plain identifiers, never field selectors or
// pointer dereferences, so the receiver-chain stability recursion (spec
// §4.1) never applies and every symbol qualifies on its own.
type varSymbol struct {
	obj *types.Var
}

// Name implements dataflow.Symbol.
func (s *varSymbol) Name() string {
	return s.obj.Name()
}

// Stability implements dataflow.Symbol.
func (s *varSymbol) Stability() dataflow.Stability {
	return dataflow.Stable
}

// symbolTable interns one *varSymbol per *types.Var. dataflow.RealVariable
// identity keys off the Symbol pointer (spec §3), so two calls resolving
// the same declared variable must hand back the same *varSymbol or the
// engine would treat them as two unrelated variables.
type symbolTable struct {
	byObj map[*types.Var]*varSymbol
}

func newSymbolTable() *symbolTable {
	return &symbolTable{byObj: map[*types.Var]*varSymbol{}}
}

func (t *symbolTable) get(obj *types.Var) *varSymbol {
	if sym, ok := t.byObj[obj]; ok {
		return sym
	}
	sym := &varSymbol{obj: obj}
	t.byObj[obj] = sym
	return sym
}
