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

// Package goadapter drives the analysis/dataflow engine over Go source,
// standing in for the resolver that owns that engine's real syntax tree.
// It implements dataflow.GraphBuilder over a restricted subset of Go
// function bodies (if/else, for, assignment, boolean operators, type
// assertions, nil comparisons), dataflow.TypeContext over go/types, and
// dataflow.ContractProvider over the JSON contract format the analyzer's
// own contract loader parses.
//
// The restriction to a subset is deliberate: Go has no `when` expression,
// no safe-call operator, and no user-defined smartcast syntax, so this
// adapter maps the engine's event set onto the closest Go idiom for each:
// a type switch or comma-ok type assertion stands in for `is`/`when`, and a
// nil comparison stands in for a nullability check. Constructs with no Go
// analogue (safe calls, `as?`, `!!`) are simply never emitted by the builder.
package goadapter
