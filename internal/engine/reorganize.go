package engine

import (
	"regexp"
	"strings"
	"time"

	"github.com/alexanderramin/falsework/internal/contract"
	"github.com/alexanderramin/falsework/internal/domain"
	"github.com/google/uuid"
)

// buildingMarker matches task names that open a new building/unit section
// of a flat schedule, e.g. "Building A", "Tower 2", "Unit 3B".
var buildingMarker = regexp.MustCompile(`(?i)^(building|block|tower|unit|house|wing)\b`)

// constructionPhases is the deterministic keyword classifier used when a
// flat list has no building markers. Phases appear in construction order;
// within a task name the first matching phase wins.
var constructionPhases = []struct {
	name     string
	keywords []string
}{
	{"Site Preparation", []string{"mobilization", "site", "survey", "clearing", "demolition", "excavation", "grading", "earthwork"}},
	{"Foundation", []string{"foundation", "footing", "piling", "pier", "slab", "concrete"}},
	{"Structure", []string{"framing", "frame", "structural", "steel", "masonry", "column", "beam", "roof"}},
	{"Envelope", []string{"window", "door", "siding", "cladding", "insulation", "waterproofing", "exterior", "facade"}},
	{"Building Services", []string{"electrical", "wiring", "plumbing", "hvac", "mechanical", "duct", "sprinkler"}},
	{"Finishes", []string{"drywall", "paint", "flooring", "tile", "trim", "cabinet", "fixture", "ceiling"}},
	{"Closeout", []string{"inspection", "punch", "commissioning", "cleanup", "handover", "landscaping"}},
}

const miscellaneousPhase = "Miscellaneous"

type taskPhase struct {
	name  string
	tasks []*domain.Task
}

// Reorganize partitions a flat (or partially structured) task list into
// construction phases, synthesizes one summary task per phase, chains
// tasks sequentially within each phase, and chains each phase's first task
// to the previous phase's last task with the requested stagger lag.
//
// Existing summary tasks are discarded: the synthesized phase structure
// replaces whatever hierarchy was there. Their leaf tasks survive in
// document order. The new task list is built in full and swapped in
// atomically, never mutated mid-scan. Tasks no classifier claims sweep
// into a trailing Miscellaneous phase rather than getting dropped.
func Reorganize(p *domain.Project, req contract.ReorganizeRequest) (*contract.ReorganizeResult, error) {
	g := NewGraph(p)
	var flat []*domain.Task
	for _, o := range g.Outlines() {
		if !g.IsSummary(o) {
			flat = append(flat, g.tasks[o])
		}
	}
	if len(flat) == 0 {
		return nil, &InvariantViolationError{Outline: "-", Reason: "project has no tasks to reorganize"}
	}

	phases := partitionByMarkers(flat)
	if phases == nil {
		phases = partitionByKeywords(flat)
	}

	now := time.Now().UTC()
	mapping := make(map[string]string)
	newTasks := make([]*domain.Task, 0, len(flat)+len(phases))
	result := &contract.ReorganizeResult{}
	prevLast := ""

	for i, ph := range phases {
		summaryOutline := childOutline("", i+1)
		newTasks = append(newTasks, &domain.Task{
			UID:            uuid.New().String(),
			OutlineNumber:  summaryOutline,
			OutlineLevel:   1,
			Name:           ph.name,
			ConstraintType: domain.ConstraintASAP,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
		for j, t := range ph.tasks {
			old := t.OutlineNumber
			t.OutlineNumber = childOutline(summaryOutline, j+1)
			t.OutlineLevel = 2
			t.Predecessors = nil
			switch {
			case j > 0:
				t.Predecessors = []domain.PredecessorLink{{
					RefOutline: childOutline(summaryOutline, j),
					Type:       domain.LinkFinishToStart,
					LagFormat:  domain.LagDays,
				}}
			case prevLast != "":
				t.Predecessors = []domain.PredecessorLink{{
					RefOutline: prevLast,
					Type:       domain.LinkFinishToStart,
					Lag:        req.StaggerDays,
					LagFormat:  domain.LagDays,
				}}
			}
			mapping[old] = t.OutlineNumber
			newTasks = append(newTasks, t)
		}
		prevLast = childOutline(summaryOutline, len(ph.tasks))
		result.Phases = append(result.Phases, contract.PhaseSummary{
			Outline:   summaryOutline,
			Name:      ph.name,
			TaskCount: len(ph.tasks),
		})
	}

	p.Tasks = newTasks
	result.OutlineMapping = changedOnly(mapping)
	return result, nil
}

// partitionByMarkers groups tasks under building/unit marker rows. It
// activates only when at least two markers exist; otherwise it returns nil
// and the keyword classifier takes over. Tasks ahead of the first marker
// sweep into Miscellaneous.
func partitionByMarkers(flat []*domain.Task) []taskPhase {
	markers := 0
	for _, t := range flat {
		if buildingMarker.MatchString(t.Name) {
			markers++
		}
	}
	if markers < 2 {
		return nil
	}

	var phases []taskPhase
	var misc []*domain.Task
	for _, t := range flat {
		if buildingMarker.MatchString(t.Name) {
			phases = append(phases, taskPhase{name: t.Name})
		}
		if len(phases) == 0 {
			misc = append(misc, t)
			continue
		}
		current := &phases[len(phases)-1]
		current.tasks = append(current.tasks, t)
	}
	if len(misc) > 0 {
		phases = append(phases, taskPhase{name: miscellaneousPhase, tasks: misc})
	}
	return phases
}

// partitionByKeywords classifies tasks into canonical construction phases
// by name keywords, preserving document order within each phase.
func partitionByKeywords(flat []*domain.Task) []taskPhase {
	buckets := make(map[string][]*domain.Task)
	for _, t := range flat {
		name := classifyPhase(t.Name)
		buckets[name] = append(buckets[name], t)
	}

	var phases []taskPhase
	for _, ph := range constructionPhases {
		if tasks := buckets[ph.name]; len(tasks) > 0 {
			phases = append(phases, taskPhase{name: ph.name, tasks: tasks})
		}
	}
	if tasks := buckets[miscellaneousPhase]; len(tasks) > 0 {
		phases = append(phases, taskPhase{name: miscellaneousPhase, tasks: tasks})
	}
	return phases
}

// classifyPhase returns the first construction phase whose keyword list
// matches the task name, or Miscellaneous.
func classifyPhase(name string) string {
	lower := strings.ToLower(name)
	for _, ph := range constructionPhases {
		for _, kw := range ph.keywords {
			if strings.Contains(lower, kw) {
				return ph.name
			}
		}
	}
	return miscellaneousPhase
}
