package engine

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/alexanderramin/falsework/internal/domain"
)

// parseOutline splits a dot-separated outline number into its integer
// segments. Segments must be positive integers.
func parseOutline(outline string) ([]int, error) {
	if outline == "" {
		return nil, fmt.Errorf("empty outline number")
	}
	parts := strings.Split(outline, ".")
	segs := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("outline %q: segment %q is not a positive integer", outline, p)
		}
		segs[i] = n
	}
	return segs, nil
}

// outlineLevel returns the hierarchy depth encoded by an outline number.
func outlineLevel(outline string) int {
	return strings.Count(outline, ".") + 1
}

// outlineLess orders outline numbers by numeric segment comparison, so
// "2.9" sorts before "2.10".
func outlineLess(a, b string) bool {
	return domain.CompareOutlines(a, b) < 0
}

// childOutline joins a parent path and a 1-based sibling index.
func childOutline(parent string, index int) string {
	if parent == "" {
		return strconv.Itoa(index)
	}
	return parent + "." + strconv.Itoa(index)
}

// lastSegment returns the final outline segment as an integer, or 0 when
// the outline is malformed.
func lastSegment(outline string) int {
	idx := strings.LastIndex(outline, ".")
	n, err := strconv.Atoi(outline[idx+1:])
	if err != nil {
		return 0
	}
	return n
}

// Renumber reassigns outline numbers so that, within every parent path,
// child numbers form exactly 1..n in the existing numeric order, cascading
// into every descendant prefix. It rewrites outline numbers, outline
// levels, and predecessor references in place and returns the old-to-new
// mapping for every task (including unchanged entries).
func Renumber(tasks []*domain.Task) map[string]string {
	// Group by parent path.
	groups := make(map[string][]*domain.Task)
	var parents []string
	for _, t := range tasks {
		parent := t.ParentOutline()
		if _, ok := groups[parent]; !ok {
			parents = append(parents, parent)
		}
		groups[parent] = append(groups[parent], t)
	}

	// Parents shallowest first, so a parent's new number exists before its
	// children's prefixes are rebuilt from it.
	sort.Slice(parents, func(i, j int) bool {
		di, dj := outlineLevel(parents[i]), outlineLevel(parents[j])
		if parents[i] == "" {
			di = 0
		}
		if parents[j] == "" {
			dj = 0
		}
		if di != dj {
			return di < dj
		}
		return outlineLess(parents[i], parents[j])
	})

	mapping := make(map[string]string, len(tasks))
	for _, parent := range parents {
		siblings := groups[parent]
		sort.Slice(siblings, func(i, j int) bool {
			return outlineLess(siblings[i].OutlineNumber, siblings[j].OutlineNumber)
		})
		newParent := parent
		if parent != "" {
			if mapped, ok := mapping[parent]; ok {
				newParent = mapped
			}
		}
		for i, t := range siblings {
			mapping[t.OutlineNumber] = childOutline(newParent, i+1)
		}
	}

	applyOutlineMapping(tasks, mapping)
	return mapping
}

// applyOutlineMapping rewrites outline numbers, levels, and predecessor
// references from the given old-to-new mapping. The rewrite is atomic with
// respect to the mapping: every lookup uses pre-rewrite keys.
func applyOutlineMapping(tasks []*domain.Task, mapping map[string]string) {
	for _, t := range tasks {
		if n, ok := mapping[t.OutlineNumber]; ok {
			t.OutlineNumber = n
			t.OutlineLevel = outlineLevel(n)
		}
		for i := range t.Predecessors {
			if n, ok := mapping[t.Predecessors[i].RefOutline]; ok {
				t.Predecessors[i].RefOutline = n
			}
		}
	}
}

// composeMappings chains two sequentially applied outline mappings into one.
func composeMappings(first, second map[string]string) map[string]string {
	out := make(map[string]string, len(first)+len(second))
	for old, mid := range first {
		if final, ok := second[mid]; ok {
			out[old] = final
		} else {
			out[old] = mid
		}
	}
	for mid, final := range second {
		if _, seen := out[mid]; !seen {
			covered := false
			for _, v := range first {
				if v == mid {
					covered = true
					break
				}
			}
			if !covered {
				out[mid] = final
			}
		}
	}
	return out
}

// changedOnly filters a mapping down to entries that actually moved.
func changedOnly(mapping map[string]string) map[string]string {
	out := make(map[string]string)
	for old, renumbered := range mapping {
		if old != renumbered {
			out[old] = renumbered
		}
	}
	return out
}
