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

package cfgraph_test

import (
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/aster-lang/aster/analysis/dataflow"
	"github.com/aster-lang/aster/internal/cfgraph"
)

// fakeNode is a minimal dataflow.Node used to build test CFGs directly,
// without going through a GraphBuilder.
type fakeNode struct {
	id   int
	prev []dataflow.Edge
	dead bool
}

func (n *fakeNode) ID() int                     { return n.id }
func (n *fakeNode) PreviousNodes() []dataflow.Edge { return n.prev }
func (n *fakeNode) IsDead() bool                { return n.dead }

// buildGraph builds a fakeNode CFG from an adjacency list of forward edges,
// all marked UsedInDFA, and returns it as a cfgraph.CFGraph.
func buildGraph(adjacency map[int][]int) cfgraph.CFGraph {
	nodes := make(map[int]*fakeNode, len(adjacency))
	for id := range adjacency {
		nodes[id] = &fakeNode{id: id}
	}
	for from, tos := range adjacency {
		for _, to := range tos {
			nodes[to].prev = append(nodes[to].prev, dataflow.Edge{From: nodes[from], UsedInDFA: true})
		}
	}
	all := make([]dataflow.Node, 0, len(nodes))
	for _, n := range nodes {
		all = append(all, n)
	}
	return cfgraph.NewCFGraph(all)
}

func TestFindAllElementaryCyclesSingleLoop(t *testing.T) {
	g := buildGraph(map[int][]int{
		0: {1},
		1: {2},
		2: {0, 3},
		3: {},
	})
	cycles := cfgraph.FindAllElementaryCycles(g)
	if len(cycles) != 1 {
		t.Fatalf("expected 1 cycle, found %d: %v", len(cycles), cycles)
	}
	got := stringifyCycle(cycles[0])
	if got != "012" {
		t.Fatalf("unexpected cycle: %s", got)
	}
}

func TestFindAllElementaryCyclesNoLoop(t *testing.T) {
	g := buildGraph(map[int][]int{
		0: {1, 2},
		1: {3},
		2: {3},
		3: {},
	})
	cycles := cfgraph.FindAllElementaryCycles(g)
	if len(cycles) != 0 {
		t.Fatalf("expected no cycles, found %v", cycles)
	}
}

func TestFindAllElementaryCyclesNestedLoops(t *testing.T) {
	g := buildGraph(map[int][]int{
		0: {1},
		1: {2, 0},
		2: {1},
	})
	cycles := cfgraph.FindAllElementaryCycles(g)
	if len(cycles) != 2 {
		t.Fatalf("expected 2 elementary cycles, found %d: %v", len(cycles), cycles)
	}
}

func stringifyCycle(cycle []int64) string {
	parts := make([]string, len(cycle))
	for i, v := range cycle {
		parts[i] = strconv.FormatInt(v, 10)
	}
	sort.Strings(parts)
	return strings.Join(parts, "")
}
