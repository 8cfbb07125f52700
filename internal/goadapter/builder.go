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
	"go/token"
	"go/types"

	"github.com/aster-lang/aster/analysis/config"
	"github.com/aster-lang/aster/analysis/dataflow"
	"github.com/aster-lang/aster/internal/cfgraph"
)

// MarkerResult is one `// ↯` marker's refined type, as reported by
// GetTypeUsingSmartcastInfo at the program point the marker follows.
type MarkerResult struct {
	Marker string
	Ident  string
	Pos    token.Position
	Types  []string
}

// Builder drives a dataflow.DataFlowAnalyzer over one function's body. It
// covers the Go idiom closest to each spec §4.3 event: a comma-ok type
// assertion or a type switch stands in for `is`/`when`, a nil comparison for
// a nullability check, `&&`/`||` unchanged, and a while-style `for` (Cond
// only, no Init/Post) for the loop condition events. Constructs with no Go
// analogue (safe calls, `!!`) are never emitted.
type Builder struct {
	fset     *token.FileSet
	info     *types.Info
	pkg      *types.Package
	comments ast.CommentMap

	graph    *Graph
	ctx      *dataflow.DataFlowAnalyzerContext
	analyzer *dataflow.DataFlowAnalyzer
	symbols  *symbolTable
	logger   *config.LogGroup

	results []MarkerResult
}

// NewBuilder wires a Builder over one type-checked file's info and a
// contract provider built from JSON contract descriptions (possibly empty).
func NewBuilder(fset *token.FileSet, file *ast.File, info *types.Info, pkg *types.Package, contracts dataflow.ContractProvider, cfg *config.Config, logger *config.LogGroup) *Builder {
	graph := NewGraph()
	typeCtx := NewTypeCtx(info, pkg)
	receivers := dataflow.NewReceiverStack()
	ctx := dataflow.NewDataFlowAnalyzerContext(graph, typeCtx, contracts, receivers)
	intersector := NewIntersector(typeCtx)
	analyzer := dataflow.NewDataFlowAnalyzer(ctx, intersector, logger, cfg.MaxImplicationChainDepth)
	return &Builder{
		fset:     fset,
		info:     info,
		pkg:      pkg,
		comments: ast.NewCommentMap(fset, file, file.Comments),
		graph:    graph,
		ctx:      ctx,
		analyzer: analyzer,
		symbols:  newSymbolTable(),
		logger:   logger,
	}
}

// branchState threads the current block and flow, plus whether the branch
// has already terminated (a return statement was seen), through statement
// processing.
type branchState struct {
	block *block
	flow  *dataflow.Flow
	done  bool
}

// AnalyzeFunc runs the driver over one function declaration and returns
// every marker result found in its body, in source order. A panic raised by
// one of the two internal fatal conditions (errors.go) is recovered here, so
// it stops analysis of fn alone rather than crashing the whole run.
func (b *Builder) AnalyzeFunc(fn *ast.FuncDecl) (out []MarkerResult) {
	defer func() {
		if r := recover(); r != nil {
			if b.logger != nil {
				b.logger.Errorf("dataflow: recovered from %v while analyzing %s; skipping declaration", r, fn.Name)
			}
			out = nil
			b.analyzer.FinishDeclaration()
		}
	}()
	b.results = nil
	start := len(b.graph.blocks)
	entry := b.graph.newBlock()
	flow := b.analyzer.MergeIncomingFlow(entry, false, false)
	st := &branchState{block: entry, flow: flow}
	b.processStmts(fn.Body.List, st)
	b.graph.markBackEdges(cfgraph.BackEdges(b.graph.AllNodes()[start:]))
	b.analyzer.FinishDeclaration()
	return b.results
}

// Nodes returns every CFG block built across every AnalyzeFunc call so far,
// for diagnostics (see cmd/aster-dfa's -dump-cfg and -show-loops).
func (b *Builder) Nodes() []dataflow.Node {
	return b.graph.AllNodes()
}

func (b *Builder) processStmts(stmts []ast.Stmt, st *branchState) {
	for _, stmt := range stmts {
		if st.done {
			return
		}
		b.processStmt(stmt, st)
	}
}

func (b *Builder) processStmt(stmt ast.Stmt, st *branchState) {
	switch s := stmt.(type) {
	case *ast.IfStmt:
		b.processIf(s, st)
	case *ast.TypeSwitchStmt:
		b.processTypeSwitch(s, st)
	case *ast.ForStmt:
		b.processFor(s, st)
	case *ast.AssignStmt:
		b.processAssign(s, st)
		b.checkMarker(stmt, st)
	case *ast.ExprStmt:
		b.checkMarker(stmt, st)
	case *ast.ReturnStmt:
		for _, r := range s.Results {
			_, st.flow = b.processCondition(r, st.flow)
		}
		b.checkMarker(stmt, st)
		st.done = true
	case *ast.BlockStmt:
		b.processStmts(s.List, st)
	}
}

// checkMarker looks for a `// ↯name` trailing comment on stmt and, if found,
// records the current refined type of the named identifier.
func (b *Builder) checkMarker(stmt ast.Stmt, st *branchState) {
	groups := b.comments[stmt]
	for _, g := range groups {
		for _, c := range g.List {
			name, ok := markerIdent(c.Text)
			if !ok {
				continue
			}
			b.reportMarker(name, c, st.flow)
		}
	}
}

func (b *Builder) reportMarker(name string, comment *ast.Comment, flow *dataflow.Flow) {
	obj := b.identObjectByName(name, comment.Pos())
	if obj == nil {
		return
	}
	symbol := b.symbols.get(obj)
	refined, ok := b.analyzer.GetTypeUsingSmartcastInfo(flow, symbol, nil)
	res := MarkerResult{Marker: comment.Text, Ident: name, Pos: b.fset.Position(comment.Pos())}
	if ok {
		for _, t := range refined {
			res.Types = append(res.Types, t.String())
		}
	}
	b.results = append(b.results, res)
}

// identObjectByName finds the *types.Var most recently declared with name
// visible at pos: the declaration with the largest position not after pos,
// so a later shadowing declaration always wins over an earlier one. This
// reference driver only tracks unqualified identifiers, so a linear scan
// keyed by name is enough.
//
// A type switch's per-case bound variable (`switch v := x.(type)`) never
// gets its own *ast.Ident in info.Defs; go/types records it instead in
// info.Implicits, keyed by the *ast.CaseClause, one object per case, so
// that source is scanned in addition to info.Defs, using the case clause's
// own position as the variable's declaration point.
func (b *Builder) identObjectByName(name string, pos token.Pos) *types.Var {
	var best *types.Var
	var bestPos token.Pos
	consider := func(declPos token.Pos, obj types.Object) {
		if obj == nil || declPos > pos {
			return
		}
		v, ok := obj.(*types.Var)
		if !ok || v.Name() != name {
			return
		}
		if best == nil || declPos > bestPos {
			best, bestPos = v, declPos
		}
	}
	for ident, obj := range b.info.Defs {
		consider(ident.Pos(), obj)
	}
	for node, obj := range b.info.Implicits {
		if cc, ok := node.(*ast.CaseClause); ok {
			consider(cc.Pos(), obj)
		}
	}
	return best
}

func (b *Builder) varSymbolFor(ident *ast.Ident) (*varSymbol, bool) {
	obj := b.info.ObjectOf(ident)
	v, ok := obj.(*types.Var)
	if !ok {
		return nil, false
	}
	return b.symbols.get(v), true
}

func (b *Builder) goType(expr ast.Expr) dataflow.Type {
	t := b.info.TypeOf(expr)
	return GoType{T: t}
}

func (b *Builder) isNonNullable(t dataflow.Type) bool {
	typeCtx := b.ctx.Types.(*TypeCtx)
	return !typeCtx.IsNullable(t)
}

// processCondition evaluates expr for its truth value, returning the
// DataFlowVariable whose EqTrue/EqFalse tracks that truth, and the flow as
// of after evaluation (unchanged except for boolean operators, which
// sequence two sub-evaluations).
func (b *Builder) processCondition(expr ast.Expr, flow *dataflow.Flow) (dataflow.DataFlowVariable, *dataflow.Flow) {
	switch e := expr.(type) {
	case *ast.Ident:
		if sym, ok := b.varSymbolFor(e); ok {
			if v, ok := b.ctx.Storage.GetOrCreateReal(flow, sym, nil); ok {
				return v, flow
			}
		}
		return b.ctx.Storage.CreateSynthetic(e, "cond"), flow

	case *ast.ParenExpr:
		return b.processCondition(e.X, flow)

	case *ast.UnaryExpr:
		if e.Op == token.NOT {
			operand, f := b.processCondition(e.X, flow)
			return b.analyzer.HandleBooleanNegation(f, e, operand), f
		}

	case *ast.BinaryExpr:
		switch e.Op {
		case token.LAND, token.LOR:
			isAnd := e.Op == token.LAND
			left, leftFlow := b.processCondition(e.X, flow)
			rightEntry := b.analyzer.EnterRightOperand(leftFlow, left, isAnd)
			right, rightExit := b.processCondition(e.Y, rightEntry)
			result, merged := b.analyzer.ExitBooleanOperator(e, leftFlow, rightExit, left, right, isAnd, false)
			return result, merged

		case token.EQL, token.NEQ:
			isEq := e.Op == token.EQL
			lhs := b.equalityOperand(e.X, flow)
			rhs := b.equalityOperand(e.Y, flow)
			return b.analyzer.HandleEquality(flow, e, isEq, lhs, rhs), flow
		}

	case *ast.CallExpr:
		return b.processCallCondition(e, flow)
	}
	return b.ctx.Storage.CreateSynthetic(expr, "cond"), flow
}

// processCallCondition handles a predicate call used as a boolean condition
// (`if isValid(x) { ... }`): it mints a synthetic standing for the call's own
// truth value and, if the callee carries a contract, runs ProcessContracts so
// that truth value's implications onto the call's arguments become visible
// to the branch the condition guards.
func (b *Builder) processCallCondition(call *ast.CallExpr, flow *dataflow.Flow) (dataflow.DataFlowVariable, *dataflow.Flow) {
	result := b.ctx.Storage.CreateSynthetic(call, "call")
	if desc, ok := b.ctx.Contracts.ContractDescriptionFor(call); ok {
		b.analyzer.ProcessContracts(flow, call, desc, result, b.callArgVariables(call, flow))
	}
	return result, flow
}

// callArgVariables resolves each of call's arguments to the DataFlowVariable
// ProcessContracts expects, or nil for an argument this restricted driver
// cannot resolve (a literal, a nested call); ProcessContracts already skips
// a nil entry for any effect that conditions on it.
func (b *Builder) callArgVariables(call *ast.CallExpr, flow *dataflow.Flow) []dataflow.DataFlowVariable {
	out := make([]dataflow.DataFlowVariable, len(call.Args))
	for i, arg := range call.Args {
		id, ok := arg.(*ast.Ident)
		if !ok {
			continue
		}
		sym, ok := b.varSymbolFor(id)
		if !ok {
			continue
		}
		if v, ok := b.ctx.Storage.GetOrCreateReal(flow, sym, nil); ok {
			out[i] = v
		}
	}
	return out
}

func (b *Builder) equalityOperand(expr ast.Expr, flow *dataflow.Flow) dataflow.EqualityOperand {
	if id, ok := expr.(*ast.Ident); ok {
		if id.Name == "nil" {
			return dataflow.EqualityOperand{IsNull: true}
		}
		if sym, ok := b.varSymbolFor(id); ok {
			if v, ok := b.ctx.Storage.GetOrCreateReal(flow, sym, nil); ok {
				return dataflow.EqualityOperand{Variable: v, Type: b.goType(id)}
			}
		}
	}
	if id, ok := expr.(*ast.Ident); ok && (id.Name == "true" || id.Name == "false") {
		val := id.Name == "true"
		return dataflow.EqualityOperand{BoolConstant: &val}
	}
	return dataflow.EqualityOperand{IsOtherConstant: true}
}

// commaOkTypeAssert recognizes `v, ok := x.(T)`.
func commaOkTypeAssert(s *ast.AssignStmt) (value, ok *ast.Ident, x ast.Expr, target ast.Expr, matched bool) {
	if len(s.Lhs) != 2 || len(s.Rhs) != 1 {
		return nil, nil, nil, nil, false
	}
	ta, isAssert := s.Rhs[0].(*ast.TypeAssertExpr)
	if !isAssert || ta.Type == nil {
		return nil, nil, nil, nil, false
	}
	v, vok := s.Lhs[0].(*ast.Ident)
	o, ook := s.Lhs[1].(*ast.Ident)
	if !vok || !ook {
		return nil, nil, nil, nil, false
	}
	return v, o, ta.X, ta.Type, true
}

// bindTypeAssertion runs HandleTypeTest for `x.(T)` bound to okIdent, and
// installs okIdent's real variable via HandleAssignment translating the
// synthetic's implications onto it (spec §4.3: "val b = x is String").
func (b *Builder) bindTypeAssertion(stmt ast.Node, xExpr ast.Expr, target ast.Expr, valueIdent, okIdent *ast.Ident, flow *dataflow.Flow) *dataflow.Flow {
	xIdent, ok := xExpr.(*ast.Ident)
	if !ok {
		return flow
	}
	xSym, ok := b.varSymbolFor(xIdent)
	if !ok {
		return flow
	}
	xVar, ok := b.ctx.Storage.GetOrCreateReal(flow, xSym, nil)
	if !ok {
		return flow
	}
	testedType := b.goType(target)
	synthetic := b.analyzer.HandleTypeTest(flow, xVar, stmt, testedType, false, b.isNonNullable(testedType))

	if okSym, ok := b.varSymbolFor(okIdent); ok {
		b.analyzer.HandleAssignment(flow, okSym, nil, false, synthetic, nil, false)
	}
	if valSym, ok := b.varSymbolFor(valueIdent); ok {
		b.analyzer.HandleAssignment(flow, valSym, nil, false, nil, testedType, false)
	}
	return flow
}

func (b *Builder) processAssign(s *ast.AssignStmt, st *branchState) {
	if v, o, x, target, ok := commaOkTypeAssert(s); ok {
		st.flow = b.bindTypeAssertion(s, x, target, v, o, st.flow)
		return
	}
	if len(s.Lhs) != 1 || len(s.Rhs) != 1 {
		return
	}
	lhsIdent, ok := s.Lhs[0].(*ast.Ident)
	if !ok || lhsIdent.Name == "_" {
		return
	}
	lhsSym, ok := b.varSymbolFor(lhsIdent)
	if !ok {
		return
	}
	isReassignment := s.Tok == token.ASSIGN

	rhs := s.Rhs[0]
	if id, isIdent := rhs.(*ast.Ident); isIdent && id.Name == "nil" {
		b.analyzer.HandleAssignment(st.flow, lhsSym, nil, isReassignment, nil, nil, false)
		return
	}
	if id, isIdent := rhs.(*ast.Ident); isIdent {
		if rhsSym, ok := b.varSymbolFor(id); ok {
			if rhsVar, ok := b.ctx.Storage.GetOrCreateReal(st.flow, rhsSym, nil); ok {
				b.analyzer.HandleAssignment(st.flow, lhsSym, nil, isReassignment, rhsVar, b.goType(id), true)
				return
			}
		}
	}
	if call, isCall := rhs.(*ast.CallExpr); isCall {
		b.processCallAssign(call, lhsSym, isReassignment, st)
		return
	}
	init := b.ctx.Storage.CreateSynthetic(rhs, "value")
	b.analyzer.HandleAssignment(st.flow, lhsSym, nil, isReassignment, init, b.goType(rhs), true)
}

// processCallAssign handles `x := f(...)` / `x = f(...)`: it runs the call's
// own condition handling (minting the call's result synthetic and applying
// any contract), then, when the callee's contract pins down the result's
// type unconditionally (GetTypeUsingConditionalContracts), installs that
// refined type on lhs instead of falling back to the call's static Go
// return type.
func (b *Builder) processCallAssign(call *ast.CallExpr, lhsSym dataflow.Symbol, isReassignment bool, st *branchState) {
	result, flow := b.processCallCondition(call, st.flow)
	st.flow = flow
	b.graph.bind(call, st.block)

	resultType := b.goType(call)
	if desc, ok := b.ctx.Contracts.ContractDescriptionFor(call); ok {
		if refined, ok := b.analyzer.GetTypeUsingConditionalContracts(desc); ok && len(refined) > 0 {
			resultType = refined[0]
		}
	}
	b.analyzer.HandleAssignment(st.flow, lhsSym, nil, isReassignment, result, resultType, true)
}

func (b *Builder) processIf(s *ast.IfStmt, st *branchState) {
	flow := st.flow
	if s.Init != nil {
		if assign, ok := s.Init.(*ast.AssignStmt); ok {
			b.processAssign(assign, &branchState{flow: flow})
		}
	}
	condVar, flow := b.processCondition(s.Cond, flow)

	// processCondition may fork flow onto a new *Flow (any && / || in the
	// condition always does, via EnterRightOperand/ExitBooleanOperator), so
	// the then/else blocks must branch from a node the resulting flow was
	// explicitly stored on, not from st.block, whose stored flow predates
	// the condition's own refinements.
	condBlock := b.graph.newBlock(dataflow.Edge{From: st.block, UsedInDFA: true})
	b.analyzer.StoreFlow(condBlock, flow)

	thenBlock := b.graph.newBlock(dataflow.Edge{From: condBlock, UsedInDFA: true})
	thenBase := b.analyzer.MergeIncomingFlow(thenBlock, true, true)
	thenFlow := b.analyzer.EnterWhenBranchBody(thenBase, condVar)
	thenState := &branchState{block: thenBlock, flow: thenFlow}
	b.processStmts(s.Body.List, thenState)

	elseBlock := b.graph.newBlock(dataflow.Edge{From: condBlock, UsedInDFA: true})
	elseBase := b.analyzer.MergeIncomingFlow(elseBlock, true, true)
	elseFlow := b.analyzer.EnterWhenElseBranch(elseBase, condVar)
	elseState := &branchState{block: elseBlock, flow: elseFlow}
	if s.Else != nil {
		b.processStmt(s.Else, elseState)
	}

	var edges []dataflow.Edge
	if !thenState.done {
		edges = append(edges, dataflow.Edge{From: thenState.block, UsedInDFA: true})
	}
	if !elseState.done {
		edges = append(edges, dataflow.Edge{From: elseState.block, UsedInDFA: true})
	}
	if len(edges) == 0 {
		st.done = true
		return
	}
	mergeBlock := b.graph.newBlock(edges...)
	st.flow = b.analyzer.MergeIncomingFlow(mergeBlock, true, false)
	st.block = mergeBlock
}

// processTypeSwitch handles `switch v := x.(type) { case T1: ...; default: ... }`.
func (b *Builder) processTypeSwitch(s *ast.TypeSwitchStmt, st *branchState) {
	assign, ok := s.Assign.(*ast.AssignStmt)
	if !ok {
		return
	}
	if len(assign.Lhs) != 1 || len(assign.Rhs) != 1 {
		return
	}
	ta, ok := assign.Rhs[0].(*ast.TypeAssertExpr)
	if !ok {
		return
	}
	xIdent, ok := ta.X.(*ast.Ident)
	if !ok {
		return
	}
	xSym, ok := b.varSymbolFor(xIdent)
	if !ok {
		return
	}
	_, hasBoundIdent := assign.Lhs[0].(*ast.Ident)

	flow := st.flow
	var prevCondition dataflow.DataFlowVariable
	var edges []dataflow.Edge

	for _, clause := range s.Body.List {
		cc, ok := clause.(*ast.CaseClause)
		if !ok {
			continue
		}
		condFlow := b.analyzer.EnterWhenBranchCondition(flow, prevCondition)
		caseState := &branchState{}

		// EnterWhenBranchCondition always forks a new *Flow (it never
		// mutates its argument in place), so the case's body block must
		// branch from a node that fork was explicitly stored on, not from
		// st.block, whose stored flow predates every case's own facts.
		condBlock := b.graph.newBlock(dataflow.Edge{From: st.block, UsedInDFA: true})
		b.analyzer.StoreFlow(condBlock, condFlow)

		// A single-type case (`case T:`) narrows both x and the switch's
		// bound identifier; a multi-type case (`case A, B:`) narrows
		// neither, since the two types have no single intersection this
		// engine's TypeStatement algebra can express (spec §4.3's `is`
		// handling is inherently single-type).
		if len(cc.List) == 1 {
			xVar, ok := b.ctx.Storage.GetOrCreateReal(condFlow, xSym, nil)
			if !ok {
				continue
			}
			testedType := b.goType(cc.List[0])
			synthetic := b.analyzer.HandleTypeTest(condFlow, xVar, cc, testedType, false, b.isNonNullable(testedType))
			if hasBoundIdent {
				// go/types records this case's bound variable as an
				// implicit object keyed by the *ast.CaseClause itself, not
				// by any *ast.Ident (see identObjectByName).
				if valObj, ok := b.info.Implicits[cc].(*types.Var); ok {
					valSym := b.symbols.get(valObj)
					b.analyzer.HandleAssignment(condFlow, valSym, nil, true, nil, testedType, true)
				}
			}
			bodyBlock := b.graph.newBlock(dataflow.Edge{From: condBlock, UsedInDFA: true})
			bodyBase := b.analyzer.MergeIncomingFlow(bodyBlock, true, true)
			bodyFlow := b.analyzer.EnterWhenBranchBody(bodyBase, synthetic)
			caseState.block, caseState.flow = bodyBlock, bodyFlow
			b.processStmts(cc.Body, caseState)
			prevCondition = synthetic
		} else if len(cc.List) == 0 {
			// default clause: everything preceding was ruled out.
			bodyBlock := b.graph.newBlock(dataflow.Edge{From: condBlock, UsedInDFA: true})
			bodyBase := b.analyzer.MergeIncomingFlow(bodyBlock, true, true)
			bodyFlow := b.analyzer.EnterWhenElseBranch(bodyBase, prevCondition)
			caseState.block, caseState.flow = bodyBlock, bodyFlow
			b.processStmts(cc.Body, caseState)
		} else {
			// Multi-type case (`case A, B:`): no single type test covers
			// it, so its body runs with no extra refinement. Its outcome
			// is still unknown to `default`, tracked via an opaque
			// synthetic with no attached implications.
			opaque := b.ctx.Storage.CreateSynthetic(cc, "multi-type-case")
			bodyBlock := b.graph.newBlock(dataflow.Edge{From: condBlock, UsedInDFA: true})
			bodyBase := b.analyzer.MergeIncomingFlow(bodyBlock, true, true)
			caseState.block, caseState.flow = bodyBlock, bodyBase
			b.processStmts(cc.Body, caseState)
			prevCondition = opaque
		}
		if !caseState.done {
			edges = append(edges, dataflow.Edge{From: caseState.block, UsedInDFA: true})
		}
	}

	if len(edges) == 0 {
		st.done = true
		return
	}
	mergeBlock := b.graph.newBlock(edges...)
	st.flow = b.analyzer.MergeIncomingFlow(mergeBlock, true, false)
	st.block = mergeBlock
}

// processFor handles a while-style `for cond { ... }` (no Init, no Post).
// General three-clause for loops are out of scope for this reference driver
// (spec §4.3: "for has no special semantics beyond the unrolled CFG"; there
// is no unrolling implemented here, only the while-style condition form).
func (b *Builder) processFor(s *ast.ForStmt, st *branchState) {
	if s.Init != nil || s.Post != nil || s.Cond == nil {
		return
	}
	condBlock := b.graph.newBlock(dataflow.Edge{From: st.block, UsedInDFA: true})
	condFlow := b.analyzer.MergeIncomingFlow(condBlock, true, false)
	condVar, condFlow := b.processCondition(s.Cond, condFlow)
	b.analyzer.StoreFlow(condBlock, condFlow)

	bodyBlock := b.graph.newBlock(dataflow.Edge{From: condBlock, UsedInDFA: true})
	bodyBase := b.analyzer.MergeIncomingFlow(bodyBlock, true, true)
	bodyFlow := b.analyzer.EnterLoopBody(bodyBase, condVar)
	bodyState := &branchState{block: bodyBlock, flow: bodyFlow}
	b.processStmts(s.Body.List, bodyState)

	// Single-pass: the loop-closing edge is recorded for cfgraph's cycle
	// detection but condBlock's flow is not recomputed against it, so
	// refinements made only on a second loop iteration are not modeled.
	// IsBack itself is set later, in bulk, by AnalyzeFunc's call to
	// cfgraph.BackEdges once the whole function's CFG exists.
	if !bodyState.done {
		condBlock.prev = append(condBlock.prev, dataflow.Edge{From: bodyState.block})
	}

	exitBlock := b.graph.newBlock(dataflow.Edge{From: condBlock, UsedInDFA: true})
	exitBase := b.analyzer.MergeIncomingFlow(exitBlock, true, false)
	exitFlow := b.analyzer.ExitLoopThroughCondition(exitBase, condVar)
	st.block = exitBlock
	st.flow = exitFlow
}

// markerIdent extracts the identifier name from a `// ↯name` comment, or
// reports false if c is not a marker comment.
func markerIdent(text string) (string, bool) {
	const marker = "↯"
	idx := indexOf(text, marker)
	if idx < 0 {
		return "", false
	}
	rest := text[idx+len(marker):]
	name := ""
	for _, r := range rest {
		if r == ' ' || r == '\t' {
			if name != "" {
				break
			}
			continue
		}
		name += string(r)
	}
	if name == "" {
		return "", false
	}
	return name, true
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}
