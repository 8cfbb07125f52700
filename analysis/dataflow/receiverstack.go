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

// receiverFrame is one nested implicit-receiver scope (a class body, a
// lambda with an extension/dispatch receiver).
type receiverFrame struct {
	variable *RealVariable
	original Type
	refined  Type
}

// ReceiverStack bridges refined implicit-receiver types computed by the
// LogicSystem back to the resolver's own notion of "what type is `this` (or
// the enclosing extension receiver) right now" (spec §4.4). The resolver
// pushes a frame when it enters a scope that introduces an implicit
// receiver and pops it on exit; the LogicSystem calls SetRefined whenever a
// join or addTypeStatement touches that receiver's RealVariable.
type ReceiverStack struct {
	frames []*receiverFrame
}

// NewReceiverStack returns an empty stack.
func NewReceiverStack() *ReceiverStack {
	return &ReceiverStack{}
}

// Push introduces a new implicit-receiver scope for v, whose statically
// declared type is declared.
func (rs *ReceiverStack) Push(v *RealVariable, declared Type) {
	rs.frames = append(rs.frames, &receiverFrame{variable: v, original: declared, refined: declared})
}

// Pop discards the innermost receiver scope.
func (rs *ReceiverStack) Pop() {
	if len(rs.frames) == 0 {
		return
	}
	rs.frames = rs.frames[:len(rs.frames)-1]
}

// OriginalType returns the statically declared type of v as an implicit
// receiver, searching innermost-first, or false if v is not on the stack.
func (rs *ReceiverStack) OriginalType(v *RealVariable) (Type, bool) {
	for i := len(rs.frames) - 1; i >= 0; i-- {
		if rs.frames[i].variable.Equal(v) {
			return rs.frames[i].original, true
		}
	}
	return nil, false
}

// RefinedType returns the currently refined type of v as an implicit
// receiver, or false if v is not on the stack.
func (rs *ReceiverStack) RefinedType(v *RealVariable) (Type, bool) {
	for i := len(rs.frames) - 1; i >= 0; i-- {
		if rs.frames[i].variable.Equal(v) {
			return rs.frames[i].refined, true
		}
	}
	return nil, false
}

// SetRefined updates the refined type of v in place (spec §4.4: "when the
// refinement disappears, reinstall the original declared type"; callers
// pass the original type back in that case, exactly as
// LogicSystem.updateReceiver does).
func (rs *ReceiverStack) SetRefined(v *RealVariable, t Type) {
	for i := len(rs.frames) - 1; i >= 0; i-- {
		if rs.frames[i].variable.Equal(v) {
			rs.frames[i].refined = t
			return
		}
	}
}

// Current returns the innermost active receiver variable, or nil if no
// receiver scope is open.
func (rs *ReceiverStack) Current() *RealVariable {
	if len(rs.frames) == 0 {
		return nil
	}
	return rs.frames[len(rs.frames)-1].variable
}
