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

// Package cfgraph adapts one declaration's dataflow.Node graph to the
// generic graph libraries used elsewhere in this module: gonum's
// graph.Directed, for algorithms that expect that interface, and
// yourbasic/graph's Iterator, for Johnson's elementary-cycle algorithm used
// to double-check the GraphBuilder's own IsBack edge marking (spec §9).
package cfgraph
