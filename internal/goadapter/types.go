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
	"golang.org/x/tools/go/types/typeutil"
)

// GoType wraps a go/types.Type so it satisfies dataflow.Type.
type GoType struct {
	T types.Type
}

// String implements dataflow.Type.
func (g GoType) String() string {
	if g.T == nil {
		return "<nil>"
	}
	return g.T.String()
}

// TypeCtx implements dataflow.TypeContext over a *types.Info produced by a
// single go/types.Check pass, plus the *types.Package it was checked
// against for interning universe types (any, nothing-equivalent).
type TypeCtx struct {
	Info    *types.Info
	Package *types.Package

	// subtype memoizes IsSubtypeOf, keyed structurally on the first operand
	// via typeutil.Map (two distinct go/types.Type values can describe the
	// same type without being ==) and then on the second operand the same
	// way, since AssignableTo re-walks both operands' structure on every
	// call and this engine re-asks the same pairs repeatedly across a
	// function's type tests and case clauses.
	subtype *typeutil.Map
}

// NewTypeCtx builds a TypeCtx from the result of type-checking one package.
func NewTypeCtx(info *types.Info, pkg *types.Package) *TypeCtx {
	return &TypeCtx{Info: info, Package: pkg, subtype: new(typeutil.Map)}
}

// IsSubtypeOf implements dataflow.TypeContext, delegating to go/types'
// assignability check, the closest Go analogue to subtyping since Go has no
// nominal subtype relation beyond interface satisfaction.
func (c *TypeCtx) IsSubtypeOf(a, b dataflow.Type) bool {
	at, aok := a.(GoType)
	bt, bok := b.(GoType)
	if !aok || !bok || at.T == nil || bt.T == nil {
		return false
	}
	inner, _ := c.subtype.At(at.T).(*typeutil.Map)
	if inner == nil {
		inner = new(typeutil.Map)
		c.subtype.Set(at.T, inner)
	}
	if v := inner.At(bt.T); v != nil {
		return v.(bool)
	}
	result := types.AssignableTo(at.T, bt.T)
	inner.Set(bt.T, result)
	return result
}

// DeclaredTypeOf implements dataflow.TypeContext. Every RealVariable this
// driver ever creates wraps a *varSymbol over a *types.Var (see symbol.go),
// whose own Type() is the statically declared type go/types assigned it, so
// no separate side table is needed; a receiver-qualified variable falls back
// to AnyType, since the restricted driver never binds one (symbol.go).
func (c *TypeCtx) DeclaredTypeOf(v *dataflow.RealVariable) dataflow.Type {
	if v == nil {
		return c.AnyType()
	}
	sym, ok := v.Symbol.(*varSymbol)
	if !ok {
		return c.AnyType()
	}
	return GoType{T: sym.obj.Type()}
}

// TypeOf implements dataflow.TypeContext. The builder resolves an
// *ast.Expr's type via go/types.Info.TypeOf itself (see Builder.goType) and
// passes the result straight to the analyzer as a dataflow.Type, so this
// generic any-keyed lookup is never exercised by the reference driver.
func (c *TypeCtx) TypeOf(expr any) dataflow.Type {
	return c.AnyType()
}

// AnyType implements dataflow.TypeContext, returning `any` (go/types'
// universe interface{}).
func (c *TypeCtx) AnyType() dataflow.Type {
	return GoType{T: types.NewInterfaceType(nil, nil)}
}

// NothingType implements dataflow.TypeContext. Go has no bottom type; the
// zero Type value (nil go/types.Type) stands in for it, and IsSubtypeOf
// treats it as unrelated to everything, which is the safe (never-taken)
// answer for a type nothing can ever inhabit.
func (c *TypeCtx) NothingType() dataflow.Type {
	return GoType{T: nil}
}

// IsNullable implements dataflow.TypeContext. Only pointer, interface, map,
// slice, channel, and function types can hold Go's nil; everything else
// (structs, numerics, strings, arrays) cannot.
func (c *TypeCtx) IsNullable(t dataflow.Type) bool {
	gt, ok := t.(GoType)
	if !ok || gt.T == nil {
		return false
	}
	switch gt.T.Underlying().(type) {
	case *types.Pointer, *types.Interface, *types.Map, *types.Slice, *types.Chan, *types.Signature:
		return true
	default:
		return false
	}
}

// Intersector implements dataflow.TypeIntersector for GoType. Go has no
// intersection types, so the intersection of a set of types is approximated
// as the most specific (last non-interface) type seen, sufficient for the
// single-type-test case that dominates real Go type-switch usage, and
// documented as a simplification rather than a full lattice meet.
type Intersector struct {
	ctx *TypeCtx
}

// NewIntersector builds an Intersector over ctx.
func NewIntersector(ctx *TypeCtx) *Intersector {
	return &Intersector{ctx: ctx}
}

// Intersect implements dataflow.TypeIntersector.
func (in *Intersector) Intersect(ts []dataflow.Type) dataflow.Type {
	if len(ts) == 0 {
		return nil
	}
	best := in.ctx.AnyType()
	for _, t := range ts {
		gt, ok := t.(GoType)
		if !ok || gt.T == nil {
			continue
		}
		if _, isIface := gt.T.Underlying().(*types.Interface); isIface {
			continue
		}
		best = gt
	}
	return best
}
