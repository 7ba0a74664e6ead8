package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/falsework/internal/contract"
	"github.com/alexanderramin/falsework/internal/domain"
	"github.com/google/uuid"
)

// Structural edits follow one shape: mutate the task set, renumber so
// outline numbers stay contiguous and level-consistent, remap every
// predecessor reference through the renumbering, then break any cycle the
// edit introduced. Date recomputation is the caller's next step.

// Move relocates a task and its whole subtree relative to a target task.
// Every stored predecessor reference across the entire task set is
// remapped through the resulting outline mapping.
func Move(p *domain.Project, req contract.MoveRequest) (*contract.EditResult, error) {
	if !req.Position.IsValid() {
		return nil, &InvariantViolationError{Outline: req.Outline, Reason: fmt.Sprintf("invalid position %q", req.Position)}
	}
	g := NewGraph(p)
	if _, err := g.Task(req.Outline); err != nil {
		return nil, err
	}
	target, err := g.Task(req.Target)
	if err != nil {
		return nil, err
	}
	if req.Target == req.Outline || target.IsDescendantOf(req.Outline) {
		return nil, &InvariantViolationError{Outline: req.Outline, Reason: "cannot move a task under its own descendant"}
	}

	newParent, newIndex := placement(g, target, req.Position)
	mapping := make(map[string]string)
	shiftSiblings(g, mapping, newParent, newIndex, req.Outline)
	addPrefixMapping(g, mapping, req.Outline, childOutline(newParent, newIndex))
	applyOutlineMapping(p.Tasks, mapping)

	renumbered := Renumber(p.Tasks)
	fixes := DetectAndBreakCycles(p)
	return &contract.EditResult{
		OutlineMapping: changedOnly(composeMappings(mapping, renumbered)),
		CycleFixes:     fixes,
	}, nil
}

// Insert creates a new leaf task adjacent to a reference task. Inserting
// after a non-summary reference links the new task to it finish-to-start
// unless the request opts out.
func Insert(p *domain.Project, req contract.InsertRequest) (*contract.EditResult, error) {
	if !req.Position.IsValid() {
		return nil, &InvariantViolationError{Outline: req.Reference, Reason: fmt.Sprintf("invalid position %q", req.Position)}
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, &InvariantViolationError{Outline: req.Reference, Reason: "task name is required"}
	}
	if req.DurationHours < 0 {
		return nil, &InvariantViolationError{Outline: req.Reference, Reason: "duration cannot be negative"}
	}
	g := NewGraph(p)

	// An empty reference appends a new top-level task at the end.
	var ref *domain.Task
	newParent, newIndex := "", len(g.Children(""))+1
	if req.Reference != "" {
		var err error
		ref, err = g.Task(req.Reference)
		if err != nil {
			return nil, err
		}
		newParent, newIndex = placement(g, ref, req.Position)
	}
	mapping := make(map[string]string)
	shiftSiblings(g, mapping, newParent, newIndex, "")
	applyOutlineMapping(p.Tasks, mapping)

	now := time.Now().UTC()
	outline := childOutline(newParent, newIndex)
	task := &domain.Task{
		UID:            uuid.New().String(),
		OutlineNumber:  outline,
		OutlineLevel:   outlineLevel(outline),
		Name:           strings.TrimSpace(req.Name),
		DurationHours:  req.DurationHours,
		ConstraintType: domain.ConstraintASAP,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	// Default chain: the reference drives the new task. A summary cannot
	// be a predecessor, so no default link is made then.
	if ref != nil && req.Position == contract.PositionAfter && !req.NoLink && !g.IsSummary(ref.OutlineNumber) {
		task.Predecessors = []domain.PredecessorLink{{
			RefOutline: ref.OutlineNumber,
			Type:       domain.LinkFinishToStart,
			LagFormat:  domain.LagDays,
		}}
	}
	p.Tasks = append(p.Tasks, task)

	renumbered := Renumber(p.Tasks)
	fixes := DetectAndBreakCycles(p)
	return &contract.EditResult{
		OutlineMapping: changedOnly(composeMappings(mapping, renumbered)),
		Created:        []string{task.OutlineNumber},
		CycleFixes:     fixes,
	}, nil
}

// Delete removes a task; a summary takes its whole subtree with it.
// Successors that pointed into the deleted set either lose that link or,
// with Relink, inherit the deleted root's own surviving predecessors so
// the chain stays continuous.
func Delete(p *domain.Project, req contract.DeleteRequest) (*contract.EditResult, error) {
	g := NewGraph(p)
	task, err := g.Task(req.Outline)
	if err != nil {
		return nil, err
	}

	doomed := map[string]bool{req.Outline: true}
	deleted := []string{req.Outline}
	for _, d := range g.Descendants(req.Outline) {
		doomed[d.OutlineNumber] = true
		deleted = append(deleted, d.OutlineNumber)
	}

	var inherited []domain.PredecessorLink
	for _, link := range task.Predecessors {
		if !doomed[link.RefOutline] {
			inherited = append(inherited, link)
		}
	}

	kept := make([]*domain.Task, 0, len(p.Tasks)-len(deleted))
	for _, t := range p.Tasks {
		if doomed[t.OutlineNumber] {
			continue
		}
		dangling := false
		links := t.Predecessors[:0]
		for _, link := range t.Predecessors {
			if doomed[link.RefOutline] {
				dangling = true
				continue
			}
			links = append(links, link)
		}
		t.Predecessors = links
		if dangling && req.Relink {
			for _, link := range inherited {
				if link.RefOutline != t.OutlineNumber && !t.HasPredecessor(link.RefOutline) {
					t.Predecessors = append(t.Predecessors, link)
				}
			}
		}
		kept = append(kept, t)
	}
	p.Tasks = kept

	renumbered := Renumber(p.Tasks)
	fixes := DetectAndBreakCycles(p)
	return &contract.EditResult{
		OutlineMapping: changedOnly(renumbered),
		Deleted:        deleted,
		CycleFixes:     fixes,
	}, nil
}

// Merge folds the secondary task into the primary: durations sum, names
// concatenate, predecessor sets union minus self-references, and every
// outside reference to the secondary is rewritten to the primary.
func Merge(p *domain.Project, req contract.MergeRequest) (*contract.EditResult, error) {
	if req.Primary == req.Secondary {
		return nil, &InvariantViolationError{Outline: req.Primary, Reason: "cannot merge a task with itself"}
	}
	g := NewGraph(p)
	primary, err := g.Task(req.Primary)
	if err != nil {
		return nil, err
	}
	secondary, err := g.Task(req.Secondary)
	if err != nil {
		return nil, err
	}
	if g.IsSummary(req.Primary) {
		return nil, &InvariantViolationError{Outline: req.Primary, Reason: "cannot merge a summary task"}
	}
	if g.IsSummary(req.Secondary) {
		return nil, &InvariantViolationError{Outline: req.Secondary, Reason: "cannot merge a summary task"}
	}

	primary.DurationHours += secondary.DurationHours
	primary.Name = primary.Name + " + " + secondary.Name
	primary.RemovePredecessor(req.Secondary)
	for _, link := range secondary.Predecessors {
		if link.RefOutline == req.Primary || link.RefOutline == req.Secondary {
			continue
		}
		if !primary.HasPredecessor(link.RefOutline) {
			primary.Predecessors = append(primary.Predecessors, link)
		}
	}
	if primary.IsMilestone && primary.DurationHours != 0 {
		primary.IsMilestone = false
	}
	primary.UpdatedAt = time.Now().UTC()

	kept := make([]*domain.Task, 0, len(p.Tasks)-1)
	for _, t := range p.Tasks {
		if t == secondary {
			continue
		}
		if t != primary && t.HasPredecessor(req.Secondary) {
			if t.HasPredecessor(req.Primary) {
				t.RemovePredecessor(req.Secondary)
			} else {
				for i := range t.Predecessors {
					if t.Predecessors[i].RefOutline == req.Secondary {
						t.Predecessors[i].RefOutline = req.Primary
					}
				}
			}
		}
		kept = append(kept, t)
	}
	p.Tasks = kept

	renumbered := Renumber(p.Tasks)
	fixes := DetectAndBreakCycles(p)
	return &contract.EditResult{
		OutlineMapping: changedOnly(renumbered),
		Deleted:        []string{req.Secondary},
		CycleFixes:     fixes,
	}, nil
}

// Split converts a leaf task into a summary with n equal-duration children
// chained finish-to-start. The first child inherits the original
// predecessors and any external successor rebinds to the last child.
func Split(p *domain.Project, req contract.SplitRequest) (*contract.EditResult, error) {
	g := NewGraph(p)
	task, err := g.Task(req.Outline)
	if err != nil {
		return nil, err
	}
	if g.IsSummary(req.Outline) {
		return nil, &InvariantViolationError{Outline: req.Outline, Reason: "cannot split a summary task"}
	}
	if task.IsMilestone {
		return nil, &InvariantViolationError{Outline: req.Outline, Reason: "cannot split a milestone"}
	}
	if req.Parts < 2 {
		return nil, &InvariantViolationError{Outline: req.Outline, Reason: "split requires at least 2 parts"}
	}

	lastChild := childOutline(req.Outline, req.Parts)
	for _, t := range p.Tasks {
		if t == task {
			continue
		}
		for i := range t.Predecessors {
			if t.Predecessors[i].RefOutline == req.Outline {
				t.Predecessors[i].RefOutline = lastChild
			}
		}
	}

	now := time.Now().UTC()
	perPart := task.DurationHours / float64(req.Parts)
	created := make([]string, 0, req.Parts)
	var children []*domain.Task
	for i := 1; i <= req.Parts; i++ {
		outline := childOutline(req.Outline, i)
		child := &domain.Task{
			UID:            uuid.New().String(),
			OutlineNumber:  outline,
			OutlineLevel:   outlineLevel(outline),
			Name:           fmt.Sprintf("%s (%d/%d)", task.Name, i, req.Parts),
			DurationHours:  perPart,
			ConstraintType: domain.ConstraintASAP,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if i == 1 {
			child.Predecessors = append([]domain.PredecessorLink(nil), task.Predecessors...)
		} else {
			child.Predecessors = []domain.PredecessorLink{{
				RefOutline: childOutline(req.Outline, i-1),
				Type:       domain.LinkFinishToStart,
				LagFormat:  domain.LagDays,
			}}
		}
		children = append(children, child)
	}

	// The original becomes a summary; its dates and duration derive from
	// the children on the next propagation.
	task.Predecessors = nil
	task.ConstraintType = domain.ConstraintASAP
	task.ConstraintDate = nil
	task.UpdatedAt = now
	p.Tasks = append(p.Tasks, children...)

	renumbered := Renumber(p.Tasks)
	for _, c := range children {
		created = append(created, c.OutlineNumber)
	}
	fixes := DetectAndBreakCycles(p)
	return &contract.EditResult{
		OutlineMapping: changedOnly(renumbered),
		Created:        created,
		CycleFixes:     fixes,
	}, nil
}

// placement resolves a position request into the destination parent path
// and 1-based sibling index.
func placement(g *TaskGraph, target *domain.Task, pos contract.Position) (string, int) {
	switch pos {
	case contract.PositionUnder:
		return target.OutlineNumber, len(g.Children(target.OutlineNumber)) + 1
	case contract.PositionBefore:
		return target.ParentOutline(), lastSegment(target.OutlineNumber)
	default:
		return target.ParentOutline(), lastSegment(target.OutlineNumber) + 1
	}
}

// shiftSiblings maps every child of parent at or past index one slot down,
// cascading the shift into each child's subtree. exclude names a subtree
// root that is about to be relocated and must not shift.
func shiftSiblings(g *TaskGraph, mapping map[string]string, parent string, index int, exclude string) {
	for _, sib := range g.Children(parent) {
		if sib.OutlineNumber == exclude {
			continue
		}
		if last := lastSegment(sib.OutlineNumber); last >= index {
			addPrefixMapping(g, mapping, sib.OutlineNumber, childOutline(parent, last+1))
		}
	}
}

// addPrefixMapping maps a subtree root to a new outline and rewrites every
// descendant's prefix accordingly.
func addPrefixMapping(g *TaskGraph, mapping map[string]string, oldOutline, newOutline string) {
	mapping[oldOutline] = newOutline
	for _, d := range g.Descendants(oldOutline) {
		mapping[d.OutlineNumber] = newOutline + strings.TrimPrefix(d.OutlineNumber, oldOutline)
	}
}
