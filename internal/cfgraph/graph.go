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
	"sort"

	"github.com/aster-lang/aster/analysis/dataflow"
	"gonum.org/v1/gonum/graph"
)

// CFGraph is an abstraction over one declaration's dataflow.Node graph so it
// can be handed to gonum and yourbasic/graph algorithms without either of
// those libraries knowing about dataflow.Node.
type CFGraph struct {
	order int

	// IDMap maps from node IDs to the wrapped nodes.
	IDMap map[int64]CNode

	// Keys are all the node IDs, sorted ascending.
	Keys []int64

	// Edges is a forward adjacency matrix built by inverting every node's
	// PreviousNodes. Unlike the analyzer's own flow propagation, this
	// includes every edge regardless of UsedInDFA, since loop detection and
	// back-edge verification need the one back-edge the builder leaves out
	// of DFA propagation on purpose.
	Edges map[int64]map[int64]bool
}

// NewCFGraph builds a CFGraph from every node of one declaration's CFG.
func NewCFGraph(nodes []dataflow.Node) CFGraph {
	n := len(nodes)
	idmap := make(map[int64]CNode, n)
	edges := make(map[int64]map[int64]bool, n)
	keys := make([]int64, 0, n)

	for _, node := range nodes {
		id := int64(node.ID())
		keys = append(keys, id)
		idmap[id] = CNode{Node: node}
		if _, ok := edges[id]; !ok {
			edges[id] = map[int64]bool{}
		}
	}
	for _, node := range nodes {
		id := int64(node.ID())
		for _, e := range node.PreviousNodes() {
			from := int64(e.From.ID())
			if _, ok := edges[from]; !ok {
				edges[from] = map[int64]bool{}
			}
			edges[from][id] = true
		}
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	return CFGraph{order: n, IDMap: idmap, Keys: keys, Edges: edges}
}

// Subgraph returns the CFGraph restricted to include, keeping only edges
// whose endpoints are both in include.
func Subgraph(original CFGraph, include []int64) CFGraph {
	idmap := make(map[int64]CNode, len(include))
	edges := make(map[int64]map[int64]bool, len(include))
	keys := make([]int64, len(include))

	for j, i := range include {
		keys[j] = i
		idmap[i] = original.IDMap[i]
	}
	for _, i := range include {
		edges[i] = map[int64]bool{}
		for e := range original.Edges[i] {
			if _, ok := idmap[e]; ok {
				edges[i][e] = true
			}
		}
	}

	return CFGraph{order: original.Order(), IDMap: idmap, Edges: edges, Keys: keys}
}

// Order implements yourbasic/graph.Iterator.
func (c CFGraph) Order() int {
	return c.order
}

// Visit implements yourbasic/graph.Iterator.
func (c CFGraph) Visit(v int, do func(w int, c int64) (skip bool)) (aborted bool) {
	if _, ok := c.IDMap[int64(v)]; !ok {
		return false
	}
	for w := range c.Edges[int64(v)] {
		if do(int(w), 1) {
			return true
		}
	}
	return false
}

// Node implements gonum's graph.Graph.
func (c CFGraph) Node(v int64) graph.Node {
	return c.IDMap[v]
}

// Nodes implements gonum's graph.Graph.
func (c CFGraph) Nodes() graph.Nodes {
	keys := make([]int64, 0, len(c.IDMap))
	for k := range c.IDMap {
		keys = append(keys, k)
	}
	return &NodeSet{nodes: c.IDMap, ids: keys, cur: -1}
}

// From implements gonum's graph.Graph.
func (c CFGraph) From(id int64) graph.Nodes {
	var keys []int64
	for out := range c.Edges[id] {
		keys = append(keys, out)
	}
	return &NodeSet{nodes: c.IDMap, ids: keys, cur: -1}
}

// To implements gonum's graph.Directed.
func (c CFGraph) To(id int64) graph.Nodes {
	var keys []int64
	for from, tos := range c.Edges {
		if tos[id] {
			keys = append(keys, from)
		}
	}
	return &NodeSet{nodes: c.IDMap, ids: keys, cur: -1}
}

// HasEdgeBetween implements gonum's graph.Graph.
func (c CFGraph) HasEdgeBetween(xid, yid int64) bool {
	return c.Edges[xid][yid] || c.Edges[yid][xid]
}

// Edge implements gonum's graph.Graph.
func (c CFGraph) Edge(uid, vid int64) graph.Edge {
	if c.Edges[uid][vid] {
		return CEdge{from: c.IDMap[uid], to: c.IDMap[vid]}
	}
	return nil
}

// HasEdgeFromTo implements gonum's graph.Directed.
func (c CFGraph) HasEdgeFromTo(uid, vid int64) bool {
	return c.Edges[uid][vid]
}

// CNode wraps a dataflow.Node so it satisfies gonum's graph.Node.
type CNode struct {
	Node dataflow.Node
}

// ID implements gonum's graph.Node.
func (n CNode) ID() int64 {
	return int64(n.Node.ID())
}

// NodeSet implements gonum's graph.Nodes, an iterator over a set of nodes.
type NodeSet struct {
	nodes map[int64]CNode
	ids   []int64
	cur   int
}

// Next implements gonum's graph.Nodes.
func (ns *NodeSet) Next() bool {
	if ns.cur < len(ns.ids)-1 {
		ns.cur++
		return true
	}
	return false
}

// Len implements gonum's graph.Nodes.
func (ns *NodeSet) Len() int {
	return len(ns.ids) - ns.cur - 1
}

// Reset implements gonum's graph.Nodes.
func (ns *NodeSet) Reset() {
	ns.cur = -1
}

// Node implements gonum's graph.Nodes.
func (ns *NodeSet) Node() graph.Node {
	return ns.nodes[ns.ids[ns.cur]]
}

// CEdge implements gonum's graph.Edge.
type CEdge struct {
	from CNode
	to   CNode
}

// From implements gonum's graph.Edge.
func (e CEdge) From() graph.Node { return e.from }

// To implements gonum's graph.Edge.
func (e CEdge) To() graph.Node { return e.to }

// ReversedEdge implements gonum's graph.Edge.
func (e CEdge) ReversedEdge() graph.Edge {
	return CEdge{from: e.to, to: e.from}
}
