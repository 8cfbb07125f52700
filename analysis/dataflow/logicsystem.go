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

// LogicSystem is the pure algebra over Flow values (spec §4.2): every
// operation either returns a new Flow or a slice of derived Statements. It
// holds no CFG-node-keyed state of its own; DataFlowAnalyzerContext owns
// that.
type LogicSystem struct {
	logger      *config.LogGroup
	intersector TypeIntersector
	receivers   *ReceiverStack
	maxDepth    int
}

// NewLogicSystem builds a LogicSystem. maxDepth bounds the transitive
// closure walked by ApproveOperationStatement (analysis/config's
// MaxImplicationChainDepth), guarding against a malformed or adversarial
// implication cycle turning approval into an unbounded walk.
func NewLogicSystem(logger *config.LogGroup, intersector TypeIntersector, receivers *ReceiverStack, maxDepth int) *LogicSystem {
	if maxDepth <= 0 {
		maxDepth = 64
	}
	return &LogicSystem{logger: logger, intersector: intersector, receivers: receivers, maxDepth: maxDepth}
}

// AddTypeStatement unions ts into flow's accumulated facts about ts.Variable
// and, if that variable is an implicit receiver, pushes the refined type to
// the ReceiverStack (spec §4.2 addTypeStatement).
func (ls *LogicSystem) AddTypeStatement(flow *Flow, ts TypeStatement) {
	if ts.Variable == nil || ts.IsEmpty() {
		return
	}
	if existing, ok := flow.approvedTypeStatements.get(ts.Variable); ok {
		ts = existing.Union(ts)
	}
	flow.approvedTypeStatements.set(ts.Variable, ts)
	if ts.Variable.IsReceiver {
		ls.updateReceiver(flow, ts.Variable)
	}
}

// AddImplication stores impl unless it is already tautologically true given
// flow's current facts (spec §4.2 addImplication).
func (ls *LogicSystem) AddImplication(flow *Flow, impl Implication) {
	if impl.isTautological(flow) {
		return
	}
	flow.logicStatements.set(impl.key(), impl)
}

// ApproveOperationStatement returns the transitive closure of effects
// derivable once os is known to hold, walking every implication whose
// condition matches os and recursively approving operation-statement
// effects until fixpoint (spec §4.2 approveOperationStatement).
func (ls *LogicSystem) ApproveOperationStatement(flow *Flow, os OperationStatement) []Statement {
	var effects []Statement
	visited := map[string]bool{}
	var walk func(os OperationStatement, depth int)
	walk = func(os OperationStatement, depth int) {
		if depth > ls.maxDepth {
			if ls.logger != nil {
				ls.logger.Warnf("implication chain depth exceeded approving %s", os)
			}
			return
		}
		flow.logicStatements.each(func(_ string, impl Implication) {
			if impl.Condition.Variable != os.Variable || impl.Condition.Operation != os.Operation {
				return
			}
			k := impl.Effect.key()
			if visited[k] {
				return
			}
			visited[k] = true
			effects = append(effects, impl.Effect)
			if next, ok := impl.Effect.(OperationStatement); ok {
				walk(next, depth+1)
			}
		})
	}
	walk(os, 0)
	return effects
}

// ApproveStatementsInsideFlow is the canonical "we just learned X" primitive
// (spec §4.2): it computes ApproveOperationStatement, installs every derived
// TypeStatement into the (optionally forked) flow, and, if
// shouldRemoveSynthetics is set and os's variable is synthetic, garbage
// collects implications keyed on that synthetic so it cannot leak past the
// expression it decorates (spec §9 synthetic variable lifecycle).
func (ls *LogicSystem) ApproveStatementsInsideFlow(flow *Flow, os OperationStatement, shouldForkFlow, shouldRemoveSynthetics bool) *Flow {
	target := flow
	if shouldForkFlow {
		target = flow.Fork()
	}
	for _, eff := range ls.ApproveOperationStatement(target, os) {
		if ts, ok := eff.(TypeStatement); ok {
			ls.AddTypeStatement(target, ts)
		}
	}
	if shouldRemoveSynthetics {
		if sv, ok := os.Variable.(*SyntheticVariable); ok {
			ls.removeImplicationsConditionedOn(target, sv)
		}
	}
	return target
}

func (ls *LogicSystem) removeImplicationsConditionedOn(flow *Flow, v DataFlowVariable) {
	var stale []string
	flow.logicStatements.each(func(k string, impl Implication) {
		if impl.Condition.Variable == v {
			stale = append(stale, k)
		}
	})
	for _, k := range stale {
		flow.logicStatements.delete(k)
	}
}

// Join computes the pointwise intersection of type statements, the set
// intersection of implications, and the alias-map entries every input
// agrees on (spec §4.2 join): facts true on all predecessor paths.
func (ls *LogicSystem) Join(flows []*Flow) *Flow {
	if len(flows) == 0 {
		return NewFlow()
	}
	if len(flows) == 1 {
		return flows[0].Fork()
	}
	result := NewFlow()
	rest := flows[1:]

	flows[0].approvedTypeStatements.each(func(v *RealVariable, ts TypeStatement) {
		merged := ts
		for _, other := range rest {
			ots, present := other.approvedTypeStatements.get(v)
			if !present {
				return
			}
			merged = merged.Intersect(ots)
		}
		result.approvedTypeStatements.set(v, merged)
	})

	flows[0].logicStatements.each(func(k string, impl Implication) {
		for _, other := range rest {
			if _, present := other.logicStatements.get(k); !present {
				return
			}
		}
		result.logicStatements.set(k, impl)
	})

	flows[0].directAliasMap.each(func(v *RealVariable, entry aliasEntry) {
		for _, other := range rest {
			oe, present := other.directAliasMap.get(v)
			if !present || !oe.Variable.Equal(entry.Variable) {
				return
			}
		}
		result.setAlias(v, entry)
	})

	return result
}

// Union combines the flows of sequentially evaluated sub-expressions (spec
// §4.2 union): per-variable union of exactType, union of implications.
func (ls *LogicSystem) Union(flows []*Flow) *Flow {
	if len(flows) == 0 {
		return NewFlow()
	}
	result := flows[0].Fork()
	for _, other := range flows[1:] {
		other.approvedTypeStatements.each(func(v *RealVariable, ts TypeStatement) {
			if existing, ok := result.approvedTypeStatements.get(v); ok {
				ts = existing.Union(ts)
			}
			result.approvedTypeStatements.set(v, ts)
		})
		other.logicStatements.each(func(k string, impl Implication) {
			result.logicStatements.set(k, impl)
		})
		other.directAliasMap.each(func(v *RealVariable, entry aliasEntry) {
			result.setAlias(v, entry)
		})
	}
	return result
}

// Or computes "one of these statement groups holds" by intersecting
// exactType per variable across every group that mentions it, keeping only
// variables mentioned in every group (spec §4.2 or; used by the boolean
// operator and ForEachReturnValue contract handlers).
func (ls *LogicSystem) Or(groups [][]TypeStatement) []TypeStatement {
	if len(groups) == 0 {
		return nil
	}
	merged := map[*RealVariable]TypeStatement{}
	seenIn := map[*RealVariable]int{}
	for _, group := range groups {
		seenThisGroup := map[*RealVariable]bool{}
		for _, ts := range group {
			if seenThisGroup[ts.Variable] {
				continue
			}
			seenThisGroup[ts.Variable] = true
			seenIn[ts.Variable]++
			if existing, ok := merged[ts.Variable]; ok {
				merged[ts.Variable] = existing.Intersect(ts)
			} else {
				merged[ts.Variable] = ts
			}
		}
	}
	out := make([]TypeStatement, 0, len(merged))
	for v, ts := range merged {
		if seenIn[v] == len(groups) {
			out = append(out, ts)
		}
	}
	return out
}

// TranslateVariableFromConditionInStatements rewrites every implication
// whose condition mentions from into a new implication keyed on to
// (applying transform to the operation), keeping the originals in place
// (spec §4.2 translate...; used e.g. for `val b = x is String`).
func (ls *LogicSystem) TranslateVariableFromConditionInStatements(flow *Flow, from, to DataFlowVariable, transform func(Operation) Operation) {
	var toAdd []Implication
	flow.logicStatements.each(func(_ string, impl Implication) {
		if impl.Condition.Variable != from {
			return
		}
		toAdd = append(toAdd, Implication{
			Condition: OperationStatement{Variable: to, Operation: transform(impl.Condition.Operation)},
			Effect:    impl.Effect,
		})
	})
	for _, impl := range toAdd {
		ls.AddImplication(flow, impl)
	}
}

// ReplaceVariableFromConditionInStatements is TranslateVariableFromConditionInStatements
// but removes the originals (spec §4.2 replace...).
func (ls *LogicSystem) ReplaceVariableFromConditionInStatements(flow *Flow, from, to DataFlowVariable, transform func(Operation) Operation) {
	var stale []string
	var toAdd []Implication
	flow.logicStatements.each(func(k string, impl Implication) {
		if impl.Condition.Variable != from {
			return
		}
		stale = append(stale, k)
		toAdd = append(toAdd, Implication{
			Condition: OperationStatement{Variable: to, Operation: transform(impl.Condition.Operation)},
			Effect:    impl.Effect,
		})
	})
	for _, k := range stale {
		flow.logicStatements.delete(k)
	}
	for _, impl := range toAdd {
		ls.AddImplication(flow, impl)
	}
}

// AddLocalVariableAlias records that lhs currently names the same value as
// rhs, whose declared type was rhsDeclaredType (spec §4.2
// addLocalVariableAlias). Any previous alias of lhs is removed first.
func (ls *LogicSystem) AddLocalVariableAlias(flow *Flow, lhs, rhs *RealVariable, rhsDeclaredType Type) {
	ls.RemoveLocalVariableAlias(flow, lhs)
	flow.setAlias(lhs, aliasEntry{Variable: rhs, OriginalType: rhsDeclaredType})
}

// RemoveLocalVariableAlias breaks any alias lhs currently has (spec §4.2
// removeLocalVariableAlias), used on reassignment (spec §8 scope erasure).
func (ls *LogicSystem) RemoveLocalVariableAlias(flow *Flow, lhs *RealVariable) {
	entry, ok := flow.directAliasMap.get(lhs)
	if !ok {
		return
	}
	flow.directAliasMap.delete(lhs)
	if back, ok := flow.backwardsAliasMap.get(entry.Variable); ok {
		back = back.fork()
		back.delete(lhs)
		flow.backwardsAliasMap.set(entry.Variable, back)
	}
}

// UpdateAllReceivers recomputes the refined type of every implicit-receiver
// variable in flow and pushes it to the ReceiverStack (spec §4.2
// updateAllReceivers).
func (ls *LogicSystem) UpdateAllReceivers(flow *Flow) {
	if ls.receivers == nil {
		return
	}
	flow.approvedTypeStatements.each(func(v *RealVariable, _ TypeStatement) {
		if v.IsReceiver {
			ls.updateReceiver(flow, v)
		}
	})
}

// updateReceiver implements the ReceiverStack adapter of spec §4.4:
// recompute intersect(currentRefinements ∪ originalType) and update the
// stack entry in place, reinstalling the declared type when no refinement
// remains.
func (ls *LogicSystem) updateReceiver(flow *Flow, v *RealVariable) {
	if ls.receivers == nil {
		return
	}
	original, ok := ls.receivers.OriginalType(v)
	if !ok {
		return
	}
	types := []Type{original}
	if ts, has := flow.approvedTypeStatements.get(v); has {
		types = append(types, ts.ExactType...)
	}
	refined := original
	if ls.intersector != nil {
		if r := ls.intersector.Intersect(types); r != nil {
			refined = r
		}
	}
	ls.receivers.SetRefined(v, refined)
}
