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

// pmap is a small copy-on-write map used to give Flow the persistent,
// structural-sharing semantics spec §9 asks for ("fork yields a child
// sharing structure with its parent; mutations are conceptually
// copy-on-write") without pulling in a full hash-array-mapped-trie
// dependency the pack does not carry. A fork clones the header only
// (owned=false, same backing map) and marks the parent unowned as well; the
// first write on either side after a fork clones the backing map lazily.
type pmap[K comparable, V any] struct {
	m     map[K]V
	owned bool
}

func newPMap[K comparable, V any]() *pmap[K, V] {
	return &pmap[K, V]{m: map[K]V{}, owned: true}
}

func (p *pmap[K, V]) fork() *pmap[K, V] {
	p.owned = false
	return &pmap[K, V]{m: p.m, owned: false}
}

func (p *pmap[K, V]) ensureOwned() {
	if p.owned {
		return
	}
	clone := make(map[K]V, len(p.m))
	for k, v := range p.m {
		clone[k] = v
	}
	p.m = clone
	p.owned = true
}

func (p *pmap[K, V]) get(k K) (V, bool) {
	v, ok := p.m[k]
	return v, ok
}

func (p *pmap[K, V]) set(k K, v V) {
	p.ensureOwned()
	p.m[k] = v
}

func (p *pmap[K, V]) delete(k K) {
	if _, ok := p.m[k]; !ok {
		return
	}
	p.ensureOwned()
	delete(p.m, k)
}

func (p *pmap[K, V]) len() int { return len(p.m) }

func (p *pmap[K, V]) each(f func(K, V)) {
	for k, v := range p.m {
		f(k, v)
	}
}

// aliasEntry records what a RealVariable currently aliases and the aliased
// variable's declared type, so the alias can be reinstated with the right
// type when the alias is broken (spec §4.2 directAliasMap).
type aliasEntry struct {
	Variable     *RealVariable
	OriginalType Type
}

// Flow is the per-CFG-node dataflow state of spec §3: accumulated type
// statements, pending logical implications, and the two alias maps kept
// deliberately separate from type refinement (spec §9, "variable identity
// vs value").
type Flow struct {
	approvedTypeStatements *pmap[*RealVariable, TypeStatement]
	logicStatements        *pmap[string, Implication]
	directAliasMap         *pmap[*RealVariable, aliasEntry]
	backwardsAliasMap      *pmap[*RealVariable, *pmap[*RealVariable, struct{}]]
}

// NewFlow returns an empty Flow, the entry state of a top-level
// declaration's CFG.
func NewFlow() *Flow {
	return &Flow{
		approvedTypeStatements: newPMap[*RealVariable, TypeStatement](),
		logicStatements:        newPMap[string, Implication](),
		directAliasMap:         newPMap[*RealVariable, aliasEntry](),
		backwardsAliasMap:      newPMap[*RealVariable, *pmap[*RealVariable, struct{}]](),
	}
}

// Fork returns a child Flow sharing structure with its parent (spec §4.2
// fork, §9 persistent data structures): cheap, and correct to call before
// any divergent mutation.
func (f *Flow) Fork() *Flow {
	return &Flow{
		approvedTypeStatements: f.approvedTypeStatements.fork(),
		logicStatements:        f.logicStatements.fork(),
		directAliasMap:         f.directAliasMap.fork(),
		backwardsAliasMap:      f.backwardsAliasMap.fork(),
	}
}

// TypeStatementFor returns the accumulated TypeStatement for v, or false if
// no facts have been recorded about it yet.
func (f *Flow) TypeStatementFor(v *RealVariable) (TypeStatement, bool) {
	return f.approvedTypeStatements.get(v)
}

// AliasOf returns the variable v currently aliases, if any.
func (f *Flow) AliasOf(v *RealVariable) (*RealVariable, bool) {
	e, ok := f.directAliasMap.get(v)
	if !ok {
		return nil, false
	}
	return e.Variable, true
}

// TypeStatements returns every accumulated TypeStatement in the flow. The
// order is unspecified.
func (f *Flow) TypeStatements() []TypeStatement {
	out := make([]TypeStatement, 0, f.approvedTypeStatements.len())
	f.approvedTypeStatements.each(func(_ *RealVariable, ts TypeStatement) { out = append(out, ts) })
	return out
}

// Implications returns every pending Implication in the flow. The order is
// unspecified; callers that need determinism sort by String().
func (f *Flow) Implications() []Implication {
	out := make([]Implication, 0, f.logicStatements.len())
	f.logicStatements.each(func(_ string, impl Implication) { out = append(out, impl) })
	return out
}

// setAlias installs lhs as an alias of entry.Variable in both directions
// (spec §4.2 directAliasMap/backwardsAliasMap kept in lockstep).
func (f *Flow) setAlias(lhs *RealVariable, entry aliasEntry) {
	f.directAliasMap.set(lhs, entry)
	back, ok := f.backwardsAliasMap.get(entry.Variable)
	if !ok {
		back = newPMap[*RealVariable, struct{}]()
	} else {
		back = back.fork()
	}
	back.set(lhs, struct{}{})
	f.backwardsAliasMap.set(entry.Variable, back)
}
