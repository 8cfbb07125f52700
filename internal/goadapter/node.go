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
	"github.com/aster-lang/aster/analysis/dataflow"
	"github.com/aster-lang/aster/internal/cfgraph"
)

// block is one CFG node: a straight-line run of statements with no internal
// branch. Its identity is its index of creation within one function's graph.
type block struct {
	id   int
	prev []dataflow.Edge
	dead bool
}

func (b *block) ID() int                        { return b.id }
func (b *block) PreviousNodes() []dataflow.Edge { return b.prev }
func (b *block) IsDead() bool                   { return b.dead }

// Graph is one function's CFG, plus the syntax-to-node index the
// dataflow.GraphBuilder interface exposes.
type Graph struct {
	blocks    []*block
	nextID    int
	syntaxMap map[any][]dataflow.Node
}

// NewGraph returns an empty Graph ready to be populated by a Builder.
func NewGraph() *Graph {
	return &Graph{syntaxMap: map[any][]dataflow.Node{}}
}

// newBlock creates and registers a fresh block with the given incoming edges.
func (g *Graph) newBlock(prev ...dataflow.Edge) *block {
	b := &block{id: g.nextID, prev: prev}
	g.nextID++
	g.blocks = append(g.blocks, b)
	return b
}

// bind records that node was produced while processing syntax, so a later
// NodesFor(syntax) call can find it (spec §6, DropSubgraphFromCall and
// ReturnExpressionsOfAnonymousFunction).
func (g *Graph) bind(syntax any, node dataflow.Node) {
	g.syntaxMap[syntax] = append(g.syntaxMap[syntax], node)
}

// NodesFor implements dataflow.GraphBuilder.
func (g *Graph) NodesFor(syntax any) []dataflow.Node {
	return g.syntaxMap[syntax]
}

// AllNodes returns every block created so far, in creation order, for
// diagnostics (cfgraph.NewCFGraph, cfgraph.FindAllElementaryCycles) and for
// markBackEdges.
func (g *Graph) AllNodes() []dataflow.Node {
	out := make([]dataflow.Node, len(g.blocks))
	for i, b := range g.blocks {
		out[i] = b
	}
	return out
}

// markBackEdges sets Edge.IsBack on every edge of every block whose
// (From.ID(), block.id) pair cfgraph.BackEdges identified as a back-edge.
// Called once the whole function's CFG has been built: MergeIncomingFlow
// only ever consults IsBack for a dead node (see analyzer.go), and no block
// this builder creates is ever marked dead, so setting it after the fact
// cannot retroactively change anything the walk already computed.
func (g *Graph) markBackEdges(back map[cfgraph.BackEdgeKey]bool) {
	for _, b := range g.blocks {
		for i, e := range b.prev {
			if back[cfgraph.BackEdgeKey{From: e.From.ID(), To: b.id}] {
				b.prev[i].IsBack = true
			}
		}
	}
}
