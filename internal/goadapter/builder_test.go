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

package goadapter_test

import (
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"testing"

	"github.com/aster-lang/aster/analysis/config"
	"github.com/aster-lang/aster/analysis/dataflow"
	"github.com/aster-lang/aster/internal/goadapter"
)

// analyzeSnippet type-checks src (a full file with a single function of
// interest named "F") and runs the builder over it, returning every marker
// result found.
func analyzeSnippet(t *testing.T, src string) []goadapter.MarkerResult {
	t.Helper()
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "test.go", src, parser.ParseComments)
	if err != nil {
		t.Fatalf("parsing snippet: %s", err)
	}
	info := &types.Info{
		Types:     map[ast.Expr]types.TypeAndValue{},
		Defs:      map[*ast.Ident]types.Object{},
		Uses:      map[*ast.Ident]types.Object{},
		Implicits: map[ast.Node]types.Object{},
	}
	conf := types.Config{Importer: nil}
	pkg, err := conf.Check("testpkg", fset, []*ast.File{file}, info)
	if err != nil {
		t.Fatalf("type-checking snippet: %s", err)
	}

	empty := map[string]dataflow.ContractDescription{}
	contracts := goadapter.NewContractSet(empty, info)
	logger := config.NewLogGroup(config.NewDefault())

	var results []goadapter.MarkerResult
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Name.Name != "F" {
			continue
		}
		builder := goadapter.NewBuilder(fset, file, info, pkg, contracts, config.NewDefault(), logger)
		results = append(results, builder.AnalyzeFunc(fn)...)
	}
	return results
}

func resultFor(t *testing.T, results []goadapter.MarkerResult, ident string) goadapter.MarkerResult {
	t.Helper()
	for _, r := range results {
		if r.Ident == ident {
			return r
		}
	}
	t.Fatalf("no marker result for %q among %d results", ident, len(results))
	return goadapter.MarkerResult{}
}

func hasType(r goadapter.MarkerResult, name string) bool {
	for _, t := range r.Types {
		if t == name {
			return true
		}
	}
	return false
}

// TestCommaOkTypeAssertionRefinesUnderTrue mirrors the comma-ok pattern
// `v, ok := x.(string)`: once ok is known true on the taken branch, x's
// declared type has narrowed.
func TestCommaOkTypeAssertionRefinesUnderTrue(t *testing.T) {
	src := `package testpkg

func F(x interface{}) {
	v, ok := x.(string)
	if ok {
		_ = v // ↯x
	}
}
`
	results := analyzeSnippet(t, src)
	r := resultFor(t, results, "x")
	if !hasType(r, "string") {
		t.Fatalf("expected x to be refined to string inside the ok branch, got %v", r.Types)
	}
}

// TestNilComparisonRefinesToNonNilInThenBranch mirrors a nullability check:
// inside the then branch of `x != nil`, some refinement is recorded for x.
func TestNilComparisonRefinesToNonNilInThenBranch(t *testing.T) {
	src := `package testpkg

func F(x *int) {
	if x != nil {
		_ = x // ↯x
	}
}
`
	results := analyzeSnippet(t, src)
	r := resultFor(t, results, "x")
	if len(r.Types) == 0 {
		t.Fatalf("expected some refinement recorded for x in the non-nil branch")
	}
}

// TestReassignmentErasesPriorRefinement mirrors scope erasure: once x is
// reassigned, any refinement recorded before the reassignment must not
// survive to a marker placed after it.
func TestReassignmentErasesPriorRefinement(t *testing.T) {
	src := `package testpkg

func F(x interface{}) {
	v, ok := x.(string)
	if ok {
		x = len(v)
		_ = x // ↯x
	}
}
`
	results := analyzeSnippet(t, src)
	r := resultFor(t, results, "x")
	if hasType(r, "string") {
		t.Fatalf("reassigning x should erase its prior type-assertion refinement, got %v", r.Types)
	}
}

// TestTypeSwitchRefinesPerCase mirrors a when-with-type-tests: each case
// binds its own refined type to the switch's bound identifier.
func TestTypeSwitchRefinesPerCase(t *testing.T) {
	src := `package testpkg

func F(x interface{}) {
	switch v := x.(type) {
	case string:
		_ = v // ↯v
	default:
	}
}
`
	results := analyzeSnippet(t, src)
	r := resultFor(t, results, "v")
	if !hasType(r, "string") {
		t.Fatalf("expected v to be refined to string in the string case, got %v", r.Types)
	}
}

// TestBooleanAndSequencesRefinementToRightOperand mirrors `&&`: the right
// operand is only evaluated once the left is true, and the refinement it
// depended on survives into the branch taken when the whole expression is
// true.
func TestBooleanAndSequencesRefinementToRightOperand(t *testing.T) {
	src := `package testpkg

func F(x interface{}) {
	v, ok := x.(string)
	if ok && len(v) > 0 {
		_ = x // ↯x
	}
}
`
	results := analyzeSnippet(t, src)
	r := resultFor(t, results, "x")
	if !hasType(r, "string") {
		t.Fatalf("expected x refined to string once the && condition holds, got %v", r.Types)
	}
}
