package engine

import (
	"strings"

	"github.com/alexanderramin/falsework/internal/contract"
	"github.com/alexanderramin/falsework/internal/domain"
)

// DetectAndBreakCycles guarantees the predecessor graph over non-summary
// tasks is acyclic, removing the minimal closing edge of each cycle found.
// Starting tasks are visited in outline order, so which edge gets removed
// is deterministic. The choice of edge is a documented tie-break, not a
// minimum-edges-removed guarantee.
func DetectAndBreakCycles(p *domain.Project) []contract.CycleFix {
	g := NewGraph(p)
	var fixes []contract.CycleFix
	fixed := make(map[string]bool)

	for _, start := range g.Outlines() {
		if g.IsSummary(start) {
			continue
		}
		// A single start can sit on several cycles; re-search until the
		// start is cycle-free. Each pass removes one edge, so the loop is
		// bounded by the total number of predecessor links.
		for {
			cycle := g.findCycleFrom(start)
			if cycle == nil {
				break
			}
			// The last edge closes the loop: the second-to-last node holds
			// a predecessor link back to the node that was revisited.
			from := cycle[len(cycle)-2]
			to := cycle[len(cycle)-1]
			task := g.tasks[from]
			task.RemovePredecessor(to)
			g.rebuildSuccessors()

			key := canonicalCycleKey(cycle)
			if fixed[key] {
				continue
			}
			fixed[key] = true
			fixes = append(fixes, contract.CycleFix{
				TaskOutline:        from,
				RemovedPredecessor: to,
				CyclePath:          cycle,
			})
		}
	}
	return fixes
}

// findCycleFrom runs an iterative depth-first search from start along
// predecessor edges and returns the first cycle found as an outline
// sequence with the entry node repeated at the end, or nil.
func (g *TaskGraph) findCycleFrom(start string) []string {
	type frame struct {
		outline string
		preds   []string
		next    int
	}

	var stack []frame
	onPath := make(map[string]int)
	done := make(map[string]bool)

	push := func(outline string) {
		onPath[outline] = len(stack)
		stack = append(stack, frame{outline: outline, preds: g.dependencyEdges(outline)})
	}
	push(start)

	for len(stack) > 0 {
		f := &stack[len(stack)-1]
		if f.next < len(f.preds) {
			next := f.preds[f.next]
			f.next++
			if idx, ok := onPath[next]; ok {
				cycle := make([]string, 0, len(stack)-idx+1)
				for i := idx; i < len(stack); i++ {
					cycle = append(cycle, stack[i].outline)
				}
				cycle = append(cycle, next)
				return cycle
			}
			if !done[next] {
				push(next)
			}
		} else {
			done[f.outline] = true
			delete(onPath, f.outline)
			stack = stack[:len(stack)-1]
		}
	}
	return nil
}

// dependencyEdges returns the predecessor outlines that participate in the
// dependency graph: links to tasks that exist and are not summaries.
// Dangling and summary-pointing links are tolerated here; other repairs
// own them.
func (g *TaskGraph) dependencyEdges(outline string) []string {
	t := g.tasks[outline]
	var out []string
	for _, p := range t.Predecessors {
		if _, ok := g.tasks[p.RefOutline]; !ok {
			continue
		}
		if g.IsSummary(p.RefOutline) {
			continue
		}
		out = append(out, p.RefOutline)
	}
	return out
}

// canonicalCycleKey normalizes a cycle's node sequence so the same cycle
// discovered from different starting tasks dedupes to one key. The
// sequence is rotated to start at its smallest outline.
func canonicalCycleKey(cycle []string) string {
	nodes := cycle[:len(cycle)-1] // drop the repeated entry node
	min := 0
	for i := range nodes {
		if outlineLess(nodes[i], nodes[min]) {
			min = i
		}
	}
	rotated := make([]string, 0, len(nodes))
	for i := 0; i < len(nodes); i++ {
		rotated = append(rotated, nodes[(min+i)%len(nodes)])
	}
	return strings.Join(rotated, "->")
}
