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

// Package dataflow implements the intra-procedural smartcast analyzer: it
// walks the control-flow graph of a single function/property/class body as
// the resolver traverses the syntax tree, and computes at every program
// point a Flow of facts that refine the declared types of expressions and
// local variables.
//
// The package does not build control-flow graphs, resolve names, infer
// types, or perform subtyping: those are the responsibility of the
// GraphBuilder, TypeContext, ContractProvider and TypeIntersector
// collaborators defined in collaborators.go and supplied by the caller.
package dataflow
