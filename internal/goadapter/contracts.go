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
	"go/ast"
	"go/types"

	"github.com/aster-lang/aster/analysis/dataflow"
)

// ContractSet implements dataflow.ContractProvider over the descriptions
// LoadContractDescriptions parsed, keyed by the callee's fully qualified
// name ("pkgpath.Func").
type ContractSet struct {
	descriptions map[string]dataflow.ContractDescription
	info         *types.Info
}

// NewContractSet wraps descriptions for lookup against *ast.CallExpr syntax.
func NewContractSet(descriptions map[string]dataflow.ContractDescription, info *types.Info) *ContractSet {
	return &ContractSet{descriptions: descriptions, info: info}
}

// ContractDescriptionFor implements dataflow.ContractProvider.
func (c *ContractSet) ContractDescriptionFor(call any) (dataflow.ContractDescription, bool) {
	expr, ok := call.(*ast.CallExpr)
	if !ok {
		return dataflow.ContractDescription{}, false
	}
	name := calleeName(expr, c.info)
	if name == "" {
		return dataflow.ContractDescription{}, false
	}
	desc, ok := c.descriptions[name]
	return desc, ok
}

func calleeName(call *ast.CallExpr, info *types.Info) string {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if ok {
		if fn, ok := info.Uses[sel.Sel].(*types.Func); ok {
			return fn.FullName()
		}
		return ""
	}
	if ident, ok := call.Fun.(*ast.Ident); ok {
		if fn, ok := info.Uses[ident].(*types.Func); ok {
			return fn.FullName()
		}
	}
	return ""
}

// ResolveTypeByName resolves a contract file's type name against a
// package's scope and the universe scope, for LoadContractDescriptions.
func ResolveTypeByName(pkg *types.Package) func(name string) (dataflow.Type, bool) {
	return func(name string) (dataflow.Type, bool) {
		if obj := pkg.Scope().Lookup(name); obj != nil {
			return GoType{T: obj.Type()}, true
		}
		if obj := types.Universe.Lookup(name); obj != nil {
			return GoType{T: obj.Type()}, true
		}
		return nil, false
	}
}
