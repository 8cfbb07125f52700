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

// Command aster-dfa runs the smartcast dataflow analyzer's reference driver
// over one Go package, printing the refined type set found at every
// `// ↯name` marker comment in the package's source.
package main

import (
	"flag"
	"fmt"
	"go/ast"
	"os"
	"sort"

	"github.com/aster-lang/aster/analysis/config"
	"github.com/aster-lang/aster/analysis/dataflow"
	"github.com/aster-lang/aster/analysis/functional"
	"github.com/aster-lang/aster/internal/cfgraph"
	"github.com/aster-lang/aster/internal/format"
	"github.com/aster-lang/aster/internal/goadapter"
	"golang.org/x/tools/go/packages"
)

var (
	configFilename = flag.String("config", "", "configuration file (YAML)")
	dumpCFG        = flag.Bool("dump-cfg", false, "print each function's per-block CFG")
	showLoops      = flag.Bool("show-loops", false, "print each function's elementary cycles")
	color          = flag.String("color", "auto", "colorize output: auto, always, or never")
)

const usage = `Print smartcast refinements at // ↯name markers.

Usage:
  aster-dfa package

Examples:
  aster-dfa ./examples/smartcast
`

func main() {
	if err := doMain(); err != nil {
		fmt.Fprintf(os.Stderr, "aster-dfa: %s\n", err)
		os.Exit(1)
	}
}

func doMain() error {
	flag.Parse()
	if len(flag.Args()) != 1 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
	switch *color {
	case "always":
		format.SetColorOverride(true)
	case "never":
		format.SetColorOverride(false)
	case "auto":
	default:
		return fmt.Errorf("invalid -color value %q (want auto, always, or never)", *color)
	}

	cfg, err := loadConfig(*configFilename)
	if err != nil {
		return err
	}
	logger := config.NewLogGroup(cfg)

	fmt.Fprintln(os.Stderr, format.Faint("Loading package"))
	pkgs, err := packages.Load(&packages.Config{
		Mode: packages.NeedName | packages.NeedSyntax | packages.NeedTypes | packages.NeedTypesInfo | packages.NeedFiles,
	}, flag.Arg(0))
	if err != nil {
		return fmt.Errorf("loading package: %w", err)
	}
	if packages.PrintErrors(pkgs) > 0 {
		return fmt.Errorf("package %s has errors", flag.Arg(0))
	}
	if len(pkgs) == 0 {
		return fmt.Errorf("no package found at %s", flag.Arg(0))
	}

	contracts, err := loadContracts(cfg, pkgs, logger)
	if err != nil {
		return err
	}

	for _, pkg := range pkgs {
		for _, file := range pkg.Syntax {
			for _, decl := range file.Decls {
				fn, ok := decl.(*ast.FuncDecl)
				if !ok || fn.Body == nil {
					continue
				}
				builder := goadapter.NewBuilder(pkg.Fset, file, pkg.TypesInfo, pkg.Types, contracts, cfg, logger)
				results := builder.AnalyzeFunc(fn)
				printResults(fn.Name.Name, results)
				printCFGDiagnostics(fn.Name.Name, builder.Nodes())
			}
		}
	}
	return nil
}

func loadConfig(filename string) (*config.Config, error) {
	if filename == "" {
		return config.NewDefault(), nil
	}
	cfg, err := config.Load(filename)
	if err != nil {
		return nil, fmt.Errorf("loading config %s: %w", filename, err)
	}
	return cfg, nil
}

// loadContracts merges every contract-specs file the config names into one
// ContractSet, resolving type names against the first loaded package's
// scope.
func loadContracts(cfg *config.Config, pkgs []*packages.Package, logger *config.LogGroup) (dataflow.ContractProvider, error) {
	descriptions := map[string]dataflow.ContractDescription{}
	resolver := goadapter.ResolveTypeByName(pkgs[0].Types)
	for _, spec := range cfg.ContractSpecs {
		path := cfg.RelPath(spec)
		loaded, err := dataflow.LoadContractDescriptions(path, resolver, logger)
		if err != nil {
			return nil, fmt.Errorf("loading contract spec %s: %w", path, err)
		}
		for k, v := range loaded {
			descriptions[k] = v
		}
	}
	return goadapter.NewContractSet(descriptions, pkgs[0].TypesInfo), nil
}

func printResults(funcName string, results []goadapter.MarkerResult) {
	if len(results) == 0 {
		return
	}
	fmt.Println(format.Bold(funcName))
	sort.SliceStable(results, func(i, j int) bool { return results[i].Pos.Offset < results[j].Pos.Offset })
	for _, r := range results {
		if len(r.Types) == 0 {
			fmt.Printf("  %s: %s -> %s\n", r.Pos, r.Ident, format.Faint("no refinement"))
			continue
		}
		fmt.Printf("  %s: %s -> %s\n", r.Pos, r.Ident, format.Green(joinTypes(r.Types)))
	}
}

func joinTypes(types []string) string {
	out := types[0]
	for _, t := range types[1:] {
		out += " & " + t
	}
	return out
}

// printCFGDiagnostics is invoked when -dump-cfg or -show-loops is set,
// reporting on the per-function CFG that goadapter's Builder assembled.
func printCFGDiagnostics(funcName string, nodes []dataflow.Node) {
	if !*dumpCFG && !*showLoops {
		return
	}
	cg := cfgraph.NewCFGraph(nodes)
	if *dumpCFG {
		fmt.Printf("%s: %d blocks\n", funcName, cg.Order())
		for _, id := range cg.Keys {
			succ := functional.SetToOrderedSlice(cg.Edges[id])
			fmt.Printf("  block %d -> %v\n", id, succ)
		}
	}
	if *showLoops {
		cycles := cfgraph.FindAllElementaryCycles(cg)
		for _, cyc := range cycles {
			fmt.Printf("  %s %v\n", format.Yellow("loop"), cyc)
		}
		if missed := cfgraph.VerifyBackEdges(nodes, markedBackEdges(nodes)); len(missed) > 0 {
			fmt.Printf("  %s gonum's TarjanSCC found back-edges the builder did not mark: %v\n", format.Yellow("warning"), missed)
		}
	}
}

// markedBackEdges reads the Edge.IsBack flags the builder already set (via
// cfgraph.BackEdges, at AnalyzeFunc time) back out of nodes, so
// cfgraph.VerifyBackEdges can cross-check them against an independent
// gonum TarjanSCC pass rather than against its own recomputation.
func markedBackEdges(nodes []dataflow.Node) map[cfgraph.BackEdgeKey]bool {
	back := map[cfgraph.BackEdgeKey]bool{}
	for _, n := range nodes {
		for _, e := range n.PreviousNodes() {
			if e.IsBack {
				back[cfgraph.BackEdgeKey{From: e.From.ID(), To: n.ID()}] = true
			}
		}
	}
	return back
}
