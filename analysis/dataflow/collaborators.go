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

// This file declares the external collaborators the engine consumes (spec
// §6). The core package never imports a concrete AST or type-checker
// package: it is driven entirely through these interfaces, the same way the
// teacher's dataflow package is driven through golang.org/x/tools/go/ssa
// interfaces rather than reimplementing SSA.

// Type is an opaque static type as understood by the surrounding compiler
// front end. The engine only ever asks a TypeContext to compare or combine
// Types; it never inspects one directly.
type Type interface {
	// String returns a stable, human-readable representation used for
	// diagnostics, logging, and map keys when the concrete Type does not
	// support structural equality on its own.
	String() string
}

// Edge describes one incoming edge of a CFG Node.
type Edge struct {
	// From is the predecessor node.
	From Node
	// UsedInDFA is true if this edge should be joined by the dataflow
	// analysis (spec §4.3, mergeIncomingFlow step 1).
	UsedInDFA bool
	// UsedInCFA is true if this edge is used by control-flow analysis
	// (exhaustiveness, reachability); irrelevant to this engine but carried
	// through because the GraphBuilder reports it alongside UsedInDFA.
	UsedInCFA bool
	// IsBack marks a back-edge (loop). Back-edges are excluded from flow
	// propagation except when the node is dead (spec §9).
	IsBack bool
}

// Node is one CFG node produced by the GraphBuilder for some syntactic
// construct.
type Node interface {
	// ID uniquely identifies the node within its enclosing declaration's
	// graph. Used as the key of the node-to-flow map (spec §5).
	ID() int
	// PreviousNodes returns the incoming edges of this node.
	PreviousNodes() []Edge
	// IsDead returns true if this node is unreachable on every non-back
	// edge (spec §4.3 step 1).
	IsDead() bool
}

// GraphBuilder is consumed, never implemented, by this package: it is the
// resolver's CFG construction service (spec §1's "out of scope" list). The
// engine calls it once per syntactic event to fetch the CFG node(s) that
// event just produced.
type GraphBuilder interface {
	// NodesFor returns the CFG node(s) associated with the given opaque
	// syntax reference (an expression, statement, or declaration handle
	// supplied by the resolver). Most events produce exactly one node;
	// some (e.g. a call with a receiver and arguments) may produce several
	// in evaluation order.
	NodesFor(syntax any) []Node
}

// TypeContext is consumed, never implemented, by this package: name
// resolution, type inference, and subtyping are performed elsewhere (spec
// §1's "out of scope" list).
type TypeContext interface {
	// IsSubtypeOf reports whether a is a subtype of b.
	IsSubtypeOf(a, b Type) bool
	// DeclaredTypeOf returns the statically declared type of a RealVariable,
	// ignoring any smartcast refinement.
	DeclaredTypeOf(v *RealVariable) Type
	// TypeOf returns the static type the type-checker assigned to an
	// arbitrary expression handle (used for e.g. typeof(rhs) in equality
	// refinement, spec §4.3).
	TypeOf(syntax any) Type
	// AnyType returns the top type ("Any"/"Object"), used by the hasType
	// Any facts installed by null-check and safe-call refinement.
	AnyType() Type
	// NothingType returns the bottom type, used by the "x !is Nothing?"
	// special case (spec §4.3).
	NothingType() Type
	// IsNullable returns true if t admits null as a value.
	IsNullable(t Type) bool
}

// TypeIntersector is consumed, never implemented, by this package: the final
// intersection/widening arithmetic on the type lattice is a collaborator
// (spec §1's "out of scope" list).
type TypeIntersector interface {
	// Intersect computes the type that is the greatest lower bound of ts in
	// the declared-type lattice. An empty ts intersects to nil.
	Intersect(ts []Type) Type
}

// ConditionalContractMode is the truth mode of a `returns(...)` contract
// effect (spec §4.3, processContracts).
type ConditionalContractMode int

const (
	// ModeWildcard means the effect fires regardless of the return value.
	ModeWildcard ConditionalContractMode = iota
	// ModeTrue means the effect fires only if the call returned true.
	ModeTrue
	// ModeFalse means the effect fires only if the call returned false.
	ModeFalse
	// ModeNull means the effect fires only if the call returned null.
	ModeNull
	// ModeNotNull means the effect fires only if the call returned non-null.
	ModeNotNull
)

// ContractEffectKind classifies a contract effect the way ContractProvider
// reports it (spec §4.3).
type ContractEffectKind int

const (
	// ConditionalEffect is a "returns(mode) implies condition" effect.
	ConditionalEffect ContractEffectKind = iota
	// ReturnsForEachEffect describes a lambda-argument lambda whose per-call
	// return value should be intersected across all call sites of a
	// higher-order function (spec §4.3, getTypeUsingContractsForCollections
	// counterpart used when building the contract, not querying it).
	ReturnsForEachEffect
	// ForEachReturnValueEffect is the query-time counterpart consumed by
	// getTypeUsingContractsForCollections.
	ForEachReturnValueEffect
)

// ContractEffect is one effect of a ContractDescription.
type ContractEffect struct {
	Kind ContractEffectKind
	// Mode is meaningful for ConditionalEffect.
	Mode ConditionalContractMode
	// ConditionParamIndex is the formal parameter index the effect's
	// condition talks about (e.g. "param 0 is-instance T", "param 1 != null").
	ConditionParamIndex int
	// ConditionIsInstance is true if the condition is an is-instance test
	// (ConditionType holds the tested type); false means a "!= null" test.
	ConditionIsInstance bool
	ConditionType       Type
	// LambdaParamIndex is meaningful for ForEachReturnValueEffect: the
	// formal parameter index of the lambda argument being iterated.
	LambdaParamIndex int
}

// ContractDescription is what ContractProvider returns for a call.
type ContractDescription struct {
	Effects []ContractEffect
}

// ContractProvider is consumed, never implemented, by this package: parsing
// contract descriptions off of a call's callee declaration is a collaborator
// (spec §1's "out of scope" list).
type ContractProvider interface {
	// ContractDescriptionFor returns the contract of the callee at the call
	// site, or (ContractDescription{}, false) if the callee has none.
	ContractDescriptionFor(call any) (ContractDescription, bool)
}
