package engine

import (
	"sort"

	"github.com/alexanderramin/falsework/internal/domain"
)

// TaskGraph is a read-optimized index over a project's task set: O(1)
// lookup by outline number plus hierarchy and dependency adjacency.
// Summary-ness is always derived from the indexed hierarchy, never read
// from stored state. Rebuild the graph after any structural mutation.
type TaskGraph struct {
	tasks      map[string]*domain.Task
	outlines   []string
	childCount map[string]int
	successors map[string][]string
}

// NewGraph indexes the project's current task set.
func NewGraph(p *domain.Project) *TaskGraph {
	g := &TaskGraph{
		tasks:      make(map[string]*domain.Task, len(p.Tasks)),
		childCount: make(map[string]int),
		successors: make(map[string][]string),
	}
	for _, t := range p.Tasks {
		g.tasks[t.OutlineNumber] = t
		g.outlines = append(g.outlines, t.OutlineNumber)
	}
	sort.Slice(g.outlines, func(i, j int) bool {
		return outlineLess(g.outlines[i], g.outlines[j])
	})
	for _, t := range p.Tasks {
		if parent := t.ParentOutline(); parent != "" {
			g.childCount[parent]++
		}
	}
	g.rebuildSuccessors()
	return g
}

// rebuildSuccessors rebuilds the inverted predecessor index. Call after
// any predecessor mutation.
func (g *TaskGraph) rebuildSuccessors() {
	g.successors = make(map[string][]string)
	for _, outline := range g.outlines {
		t := g.tasks[outline]
		for _, p := range t.Predecessors {
			g.successors[p.RefOutline] = append(g.successors[p.RefOutline], outline)
		}
	}
}

// Task returns the task with the given outline number.
func (g *TaskGraph) Task(outline string) (*domain.Task, error) {
	t, ok := g.tasks[outline]
	if !ok {
		return nil, &NotFoundError{Outline: outline}
	}
	return t, nil
}

// Outlines returns every outline number in numeric outline order.
func (g *TaskGraph) Outlines() []string {
	return g.outlines
}

// Children returns the immediate dotted children of outline, in order.
func (g *TaskGraph) Children(outline string) []*domain.Task {
	var out []*domain.Task
	for _, o := range g.outlines {
		if g.tasks[o].IsChildOf(outline) {
			out = append(out, g.tasks[o])
		}
	}
	return out
}

// Descendants returns every task strictly under outline, in outline order.
func (g *TaskGraph) Descendants(outline string) []*domain.Task {
	var out []*domain.Task
	for _, o := range g.outlines {
		if g.tasks[o].IsDescendantOf(outline) {
			out = append(out, g.tasks[o])
		}
	}
	return out
}

// Predecessors returns the tasks outline links to that actually exist.
// Dangling references resolve to nothing here; repairing them is the
// broken-reference fixer's job.
func (g *TaskGraph) Predecessors(outline string) []*domain.Task {
	t, ok := g.tasks[outline]
	if !ok {
		return nil
	}
	var out []*domain.Task
	for _, p := range t.Predecessors {
		if pt, ok := g.tasks[p.RefOutline]; ok {
			out = append(out, pt)
		}
	}
	return out
}

// Successors returns the tasks whose predecessor lists reference outline.
func (g *TaskGraph) Successors(outline string) []*domain.Task {
	var out []*domain.Task
	for _, o := range g.successors[outline] {
		out = append(out, g.tasks[o])
	}
	return out
}

// IsSummary reports whether outline has at least one child task.
func (g *TaskGraph) IsSummary(outline string) bool {
	return g.childCount[outline] > 0
}
