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

package cfgraph

import (
	"gonum.org/v1/gonum/graph/topo"

	"github.com/aster-lang/aster/analysis/dataflow"
)

// BackEdgeKey identifies one directed CFG edge by its endpoint node IDs.
type BackEdgeKey struct {
	From int
	To   int
}

// BackEdges computes the back-edges of one declaration's CFG using
// StronglyConnectedComponents. Node IDs are handed out in strictly
// increasing program order except for the single loop-closing edge a `for`
// loop's builder adds, so within one SCC the edge that retreats to an ID no
// greater than its source's is exactly the back-edge; every other edge in
// the SCC runs forward.
func BackEdges(nodes []dataflow.Node) map[BackEdgeKey]bool {
	cg := NewCFGraph(nodes)
	successors := func(id int64) []int64 {
		out := make([]int64, 0, len(cg.Edges[id]))
		for w := range cg.Edges[id] {
			out = append(out, w)
		}
		return out
	}
	sccOf := sccIndex(cg.Keys, StronglyConnectedComponents(cg.Keys, successors))

	back := map[BackEdgeKey]bool{}
	for from, tos := range cg.Edges {
		for to := range tos {
			if sccOf[from] == sccOf[to] && to <= from {
				back[BackEdgeKey{From: int(from), To: int(to)}] = true
			}
		}
	}
	return back
}

// VerifyBackEdges cross-checks back (as computed by BackEdges) against
// gonum's TarjanSCC, so a defect specific to one SCC implementation cannot
// silently stand in for the other. It returns every edge that retreats
// within a gonum-reported component but is absent from back: an
// under-reported back-edge.
func VerifyBackEdges(nodes []dataflow.Node, back map[BackEdgeKey]bool) []BackEdgeKey {
	cg := NewCFGraph(nodes)
	components := topo.TarjanSCC(cg)
	sccOf := make(map[int64]int, len(cg.Keys))
	for i, comp := range components {
		for _, n := range comp {
			sccOf[n.ID()] = i
		}
	}

	var missed []BackEdgeKey
	for from, tos := range cg.Edges {
		for to := range tos {
			if sccOf[from] != sccOf[to] || to > from {
				continue
			}
			key := BackEdgeKey{From: int(from), To: int(to)}
			if !back[key] {
				missed = append(missed, key)
			}
		}
	}
	return missed
}

func sccIndex(keys []int64, sccs [][]int64) map[int64]int {
	idx := make(map[int64]int, len(keys))
	for i, scc := range sccs {
		for _, id := range scc {
			idx[id] = i
		}
	}
	return idx
}
