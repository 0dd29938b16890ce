package extract

import (
	"context"
	"sync"

	"github.com/kanso-complexity/complexity/internal/bcl"
	"github.com/kanso-complexity/complexity/internal/callgraph"
	"github.com/kanso-complexity/complexity/internal/config"
	"github.com/kanso-complexity/complexity/internal/diag"
	"github.com/kanso-complexity/complexity/internal/hostiface"
)

// ModuleResult bundles every procedure's result plus call-graph-wide
// diagnostics (mutual recursion, for instance) that aren't attributable
// to one procedure alone.
type ModuleResult struct {
	Procedures  []ProcedureResult
	Diagnostics []diag.Diagnostic
}

// AnalyzeModule is the module-wide entry point (spec §5 "an
// implementation may parallelize procedures belonging to different SCC
// layers, joining at layer boundaries", §9). It builds the call graph,
// computes a bottom-up topological layering, and analyzes every
// procedure in a layer concurrently before advancing to the next layer
// — callees are always fully analyzed (and cached) before their
// callers are visited, mirroring spec §4.3.2's "callees are solved
// before callers".
func AnalyzeModule(ctx context.Context, tree hostiface.SyntaxTree, reg *bcl.Registry, settings config.Settings) ModuleResult {
	procs := tree.Procedures()
	graph := callgraph.NewGraph(procs)
	layering := callgraph.BuildLayering(graph)

	cancel := NewCancelToken(ctx)
	cache := make(map[string]ProcedureResult)
	var cacheMu sync.Mutex
	var moduleDiags []diag.Diagnostic
	var moduleDiagsMu sync.Mutex

	for _, layer := range layering.Layers {
		if cancel.Cancelled() {
			break
		}
		var wg sync.WaitGroup
		for _, componentID := range layer {
			scc := layering.Components[componentID]
			if scc.IsMutualRecursion() {
				moduleDiagsMu.Lock()
				moduleDiags = append(moduleDiags, mutualRecursionDiagnostic(graph, scc))
				moduleDiagsMu.Unlock()
			}
			for _, nodeIdx := range scc.Nodes {
				nodeIdx := nodeIdx
				wg.Add(1)
				go func() {
					defer wg.Done()
					analyzeOne(graph, nodeIdx, reg, cancel, settings, cache, &cacheMu)
				}()
			}
		}
		wg.Wait()
	}

	results := make([]ProcedureResult, 0, len(procs))
	cacheMu.Lock()
	for i := range procs {
		if r, ok := cache[procs[i].Identity()]; ok {
			results = append(results, r)
		}
	}
	cacheMu.Unlock()

	return ModuleResult{Procedures: results, Diagnostics: moduleDiags}
}

// analyzeOne safely populates cache[identity] for one procedure,
// building a fresh per-procedure AnalysisContext that still shares the
// module-wide registry, graph, and cache (reads/writes to the shared
// cache are serialized by cacheMu; AnalyzeProcedure's own recursion
// bookkeeping is entirely local to this goroutine's context).
func analyzeOne(g *callgraph.Graph, idx int, reg *bcl.Registry, cancel CancelToken, settings config.Settings, cache map[string]ProcedureResult, mu *sync.Mutex) {
	proc := g.Procedure(idx)

	mu.Lock()
	if _, ok := cache[proc.Identity()]; ok {
		mu.Unlock()
		return
	}
	// Snapshot the cache so this goroutine's callee lookups see every
	// result completed in earlier layers without racing concurrent
	// siblings in this same layer. A sibling belonging to the same SCC
	// (mutual recursion) is walked fresh, inline, by AnalyzeProcedure's
	// own inProgress tracking on the per-call context built below — the
	// representative-component heuristic spec §4.3.3 describes.
	snapshot := make(map[string]ProcedureResult, len(cache))
	for k, v := range cache {
		snapshot[k] = v
	}
	mu.Unlock()

	perProcCtx := NewAnalysisContext(reg, g, cancel, settings, snapshot)
	result := AnalyzeProcedure(perProcCtx, proc)

	mu.Lock()
	cache[proc.Identity()] = result
	mu.Unlock()
}

// mutualRecursionDiagnostic flags an SCC of size >= 2 (spec §4.3.2
// "size >= 2 is mutual recursion"; §4.3.3 "the system is solved by
// treating the dominant component's recurrence as representative;
// refined mutual solving is marked as an open question").
func mutualRecursionDiagnostic(g *callgraph.Graph, scc callgraph.SCC) diag.Diagnostic {
	names := make([]string, 0, len(scc.Nodes))
	for _, n := range scc.Nodes {
		names = append(names, g.Procedure(n).Name())
	}
	msg := "mutually recursive procedures analyzed via representative-component heuristic"
	d := diag.New(diag.SeverityNote, diag.CodeMutualRecursionHeuristic, msg)
	for _, name := range names {
		d = d.WithNote(name)
	}
	return d
}
