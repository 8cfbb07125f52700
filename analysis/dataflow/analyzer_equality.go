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

// EqualityOperand classifies one side of an `==`/`!=`/`===`/`!==`
// expression the way HandleEquality needs it (spec §4.3 equality).
type EqualityOperand struct {
	Variable DataFlowVariable
	// IsNull marks the literal `null`.
	IsNull bool
	// BoolConstant is non-nil when the operand is the literal `true`/`false`.
	BoolConstant *bool
	// IsOtherConstant marks any other compile-time constant (a string or
	// numeric literal): such operands carry no DataFlowVariable worth
	// tracking.
	IsOtherConstant bool
	// Type is the operand's static type, used for the reference-identity
	// case's "typeof(rhs)"/"typeof(lhs)".
	Type Type
}

// HandleEquality implements the equality event of spec §4.3. isEq is true
// for `==`/`===`, false for `!=`/`!==`.
func (a *DataFlowAnalyzer) HandleEquality(flow *Flow, expr any, isEq bool, lhs, rhs EqualityOperand) DataFlowVariable {
	result := a.ctx.Storage.CreateSynthetic(expr, "equality")

	switch {
	case lhs.IsOtherConstant && rhs.IsOtherConstant:
		// Both sides constant: no facts (spec §4.3).

	case lhs.IsNull || rhs.IsNull:
		other := lhs
		if lhs.IsNull {
			other = rhs
		}
		trueImpliesNull := isEq
		trueOp, falseOp := EqNull, NotEqNull
		if !trueImpliesNull {
			trueOp, falseOp = NotEqNull, EqNull
		}
		if other.Variable != nil {
			a.logic.AddImplication(flow, Implication{
				Condition: OperationStatement{Variable: result, Operation: EqTrue},
				Effect:    OperationStatement{Variable: other.Variable, Operation: trueOp},
			})
			a.logic.AddImplication(flow, Implication{
				Condition: OperationStatement{Variable: result, Operation: EqFalse},
				Effect:    OperationStatement{Variable: other.Variable, Operation: falseOp},
			})
			if rv, ok := other.Variable.(*RealVariable); ok && a.ctx.Types != nil {
				if trueOp == NotEqNull {
					a.logic.AddImplication(flow, Implication{
						Condition: OperationStatement{Variable: result, Operation: EqTrue},
						Effect:    TypeStatement{Variable: rv, ExactType: []Type{a.ctx.Types.AnyType()}},
					})
				}
				if falseOp == NotEqNull {
					a.logic.AddImplication(flow, Implication{
						Condition: OperationStatement{Variable: result, Operation: EqFalse},
						Effect:    TypeStatement{Variable: rv, ExactType: []Type{a.ctx.Types.AnyType()}},
					})
				}
			}
		}

	case lhs.BoolConstant != nil || rhs.BoolConstant != nil:
		var constVal bool
		other := rhs
		if lhs.BoolConstant != nil {
			constVal = *lhs.BoolConstant
		} else {
			constVal = *rhs.BoolConstant
			other = lhs
		}
		invert := isEq != constVal
		transform := func(op Operation) Operation {
			if invert {
				return op.Negate()
			}
			return op
		}
		if other.Variable != nil {
			a.logic.TranslateVariableFromConditionInStatements(flow, other.Variable, result, transform)
		}

	default:
		// Reference identity: both sides non-constant, non-null.
		matching := forBool(isEq)
		if lv, ok := lhs.Variable.(*RealVariable); ok && rhs.Type != nil {
			a.logic.AddImplication(flow, Implication{
				Condition: OperationStatement{Variable: result, Operation: matching},
				Effect:    TypeStatement{Variable: lv, ExactType: []Type{rhs.Type}},
			})
		}
		if rv, ok := rhs.Variable.(*RealVariable); ok && lhs.Type != nil {
			a.logic.AddImplication(flow, Implication{
				Condition: OperationStatement{Variable: result, Operation: matching},
				Effect:    TypeStatement{Variable: rv, ExactType: []Type{lhs.Type}},
			})
		}
	}

	return result
}
