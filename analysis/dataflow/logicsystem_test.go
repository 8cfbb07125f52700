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

type fakeType string

func (t fakeType) String() string { return string(t) }

type fakeSymbol string

func (s fakeSymbol) Name() string         { return string(s) }
func (s fakeSymbol) Stability() Stability { return Stable }

type fakeIntersector struct{}

func (fakeIntersector) Intersect(ts []Type) Type {
	if len(ts) == 0 {
		return nil
	}
	return ts[len(ts)-1]
}

func newTestLogicSystem() *LogicSystem {
	logger := config.NewLogGroup(config.NewDefault())
	return NewLogicSystem(logger, fakeIntersector{}, NewReceiverStack(), 0)
}

func realVar(name string) *RealVariable {
	return &RealVariable{Symbol: fakeSymbol(name)}
}

func TestJoinOfSingleFlowForks(t *testing.T) {
	ls := newTestLogicSystem()
	v := realVar("x")
	f := NewFlow()
	ls.AddTypeStatement(f, TypeStatement{Variable: v, ExactType: []Type{fakeType("String")}})

	joined := ls.Join([]*Flow{f})
	ts, ok := joined.TypeStatementFor(v)
	if !ok || len(ts.ExactType) != 1 || ts.ExactType[0].String() != "String" {
		t.Fatalf("Join([f]) lost or altered the sole flow's facts: %+v", ts)
	}

	// Forking must yield an independent header: mutating the join result
	// must not mutate f's own map.
	other := realVar("y")
	ls.AddTypeStatement(joined, TypeStatement{Variable: other, ExactType: []Type{fakeType("Int")}})
	if _, ok := f.TypeStatementFor(other); ok {
		t.Fatalf("mutating Join([f]) result leaked into the original flow")
	}
}

func TestJoinIsCommutativeOnTypeStatements(t *testing.T) {
	ls := newTestLogicSystem()
	v := realVar("x")

	a := NewFlow()
	ls.AddTypeStatement(a, TypeStatement{Variable: v, ExactType: []Type{fakeType("String"), fakeType("Comparable")}})
	b := NewFlow()
	ls.AddTypeStatement(b, TypeStatement{Variable: v, ExactType: []Type{fakeType("Comparable"), fakeType("Int")}})

	ab := ls.Join([]*Flow{a, b})
	ba := ls.Join([]*Flow{b, a})

	tsAB, okAB := ab.TypeStatementFor(v)
	tsBA, okBA := ba.TypeStatementFor(v)
	if !okAB || !okBA {
		t.Fatalf("expected both joins to carry a fact about %s", v)
	}
	if !sameTypeSet(tsAB.ExactType, tsBA.ExactType) {
		t.Fatalf("Join is not commutative: A∩B=%v, B∩A=%v", tsAB.ExactType, tsBA.ExactType)
	}
	if len(tsAB.ExactType) != 1 || tsAB.ExactType[0].String() != "Comparable" {
		t.Fatalf("Join should keep only the shared type Comparable, got %v", tsAB.ExactType)
	}
}

func TestJoinDropsFactsNotSharedByEveryPredecessor(t *testing.T) {
	ls := newTestLogicSystem()
	v := realVar("x")
	only := realVar("only-in-a")

	a := NewFlow()
	ls.AddTypeStatement(a, TypeStatement{Variable: v, ExactType: []Type{fakeType("String")}})
	ls.AddTypeStatement(a, TypeStatement{Variable: only, ExactType: []Type{fakeType("Int")}})
	b := NewFlow()
	ls.AddTypeStatement(b, TypeStatement{Variable: v, ExactType: []Type{fakeType("String")}})

	joined := ls.Join([]*Flow{a, b})
	if _, ok := joined.TypeStatementFor(only); ok {
		t.Fatalf("Join must drop a fact one predecessor never recorded (join is not a union)")
	}
	ts, ok := joined.TypeStatementFor(v)
	if !ok || len(ts.ExactType) != 1 || ts.ExactType[0].String() != "String" {
		t.Fatalf("Join should keep a fact shared by every predecessor, got %+v ok=%v", ts, ok)
	}
}

func TestUnionAccumulatesAcrossSequentialFlows(t *testing.T) {
	ls := newTestLogicSystem()
	v := realVar("x")

	a := NewFlow()
	ls.AddTypeStatement(a, TypeStatement{Variable: v, ExactType: []Type{fakeType("String")}})
	b := NewFlow()
	ls.AddTypeStatement(b, TypeStatement{Variable: v, ExactType: []Type{fakeType("Comparable")}})

	unioned := ls.Union([]*Flow{a, b})
	ts, ok := unioned.TypeStatementFor(v)
	if !ok || !sameTypeSet(ts.ExactType, []Type{fakeType("String"), fakeType("Comparable")}) {
		t.Fatalf("Union should keep the union of both flows' types, got %+v", ts)
	}
}

func TestAliasRoundTripThroughReassignment(t *testing.T) {
	ls := newTestLogicSystem()
	x := realVar("x")
	y := realVar("y")
	flow := NewFlow()

	ls.AddLocalVariableAlias(flow, y, x, fakeType("String"))
	if got, ok := flow.AliasOf(y); !ok || !got.Equal(x) {
		t.Fatalf("y should alias x after AddLocalVariableAlias, got %v ok=%v", got, ok)
	}

	// Reassigning y (scope erasure, spec scenario "reassignment drops
	// aliasing and prior facts") must remove the alias entirely.
	ls.RemoveLocalVariableAlias(flow, y)
	if _, ok := flow.AliasOf(y); ok {
		t.Fatalf("RemoveLocalVariableAlias left an alias behind")
	}
}

func TestAddTypeStatementUnionsRatherThanOverwrites(t *testing.T) {
	ls := newTestLogicSystem()
	v := realVar("x")
	flow := NewFlow()

	ls.AddTypeStatement(flow, TypeStatement{Variable: v, ExactType: []Type{fakeType("String")}})
	ls.AddTypeStatement(flow, TypeStatement{Variable: v, ExactType: []Type{fakeType("Comparable")}})

	ts, ok := flow.TypeStatementFor(v)
	if !ok || !sameTypeSet(ts.ExactType, []Type{fakeType("String"), fakeType("Comparable")}) {
		t.Fatalf("AddTypeStatement should widen the accumulated set, got %+v", ts)
	}
}

func sameTypeSet(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	seen := map[string]bool{}
	for _, t := range a {
		seen[t.String()] = true
	}
	for _, t := range b {
		if !seen[t.String()] {
			return false
		}
	}
	return true
}
