package engine

import (
	"testing"

	"github.com/alexanderramin/falsework/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectAndBreakCycles_TwoNodeCycle(t *testing.T) {
	p := project(
		task("1", "A", 8, "2"),
		task("2", "B", 8, "1"),
	)

	fixes := DetectAndBreakCycles(p)

	require.Len(t, fixes, 1, "exactly one edge removed")
	assert.Equal(t, "2", fixes[0].TaskOutline)
	assert.Equal(t, "1", fixes[0].RemovedPredecessor)
	assert.Equal(t, []string{"1", "2", "1"}, fixes[0].CyclePath)

	// The surviving edge is 1 -> 2.
	assert.Len(t, p.TaskByOutline("1").Predecessors, 1)
	assert.Empty(t, p.TaskByOutline("2").Predecessors)
}

func TestDetectAndBreakCycles_ThreeNodeCycle(t *testing.T) {
	p := project(
		task("1", "A", 8, "3"),
		task("2", "B", 8, "1"),
		task("3", "C", 8, "2"),
	)

	fixes := DetectAndBreakCycles(p)

	require.Len(t, fixes, 1)
	assert.Len(t, fixes[0].CyclePath, 4, "cycle path repeats the entry node")
	assertAcyclic(t, p)
}

func TestDetectAndBreakCycles_SelfReference(t *testing.T) {
	p := project(task("1", "A", 8, "1"))

	fixes := DetectAndBreakCycles(p)

	require.Len(t, fixes, 1)
	assert.Equal(t, "1", fixes[0].TaskOutline)
	assert.Equal(t, "1", fixes[0].RemovedPredecessor)
	assert.Empty(t, p.TaskByOutline("1").Predecessors)
}

func TestDetectAndBreakCycles_TwoIndependentCycles(t *testing.T) {
	p := project(
		task("1", "A", 8, "2"),
		task("2", "B", 8, "1"),
		task("3", "C", 8, "4"),
		task("4", "D", 8, "3"),
	)

	fixes := DetectAndBreakCycles(p)

	assert.Len(t, fixes, 2)
	assertAcyclic(t, p)
}

func TestDetectAndBreakCycles_CleanGraphUntouched(t *testing.T) {
	p := project(
		task("1", "A", 8),
		task("2", "B", 8, "1"),
		task("3", "C", 8, "1", "2"),
	)

	fixes := DetectAndBreakCycles(p)

	assert.Empty(t, fixes)
	assert.Len(t, p.TaskByOutline("3").Predecessors, 2)
}

func TestDetectAndBreakCycles_Idempotent(t *testing.T) {
	p := project(
		task("1", "A", 8, "2"),
		task("2", "B", 8, "1"),
	)

	first := DetectAndBreakCycles(p)
	second := DetectAndBreakCycles(p)

	assert.Len(t, first, 1)
	assert.Empty(t, second, "second pass on a repaired project reports zero changes")
}

func TestDetectAndBreakCycles_DanglingReferencesTolerated(t *testing.T) {
	p := project(task("1", "A", 8, "9.9"))

	fixes := DetectAndBreakCycles(p)

	assert.Empty(t, fixes)
	assert.True(t, p.TaskByOutline("1").HasPredecessor("9.9"),
		"broken references are the reference fixer's job, not the cycle breaker's")
}

func TestDetectAndBreakCycles_SharedCycleReportedOnce(t *testing.T) {
	// Both 2 and 3 lead into the same 4<->5 cycle.
	p := project(
		task("2", "B", 8, "4"),
		task("3", "C", 8, "5"),
		task("4", "D", 8, "5"),
		task("5", "E", 8, "4"),
	)

	fixes := DetectAndBreakCycles(p)

	require.Len(t, fixes, 1, "one cycle, one fix, however many paths reach it")
	assertAcyclic(t, p)
}

// assertAcyclic verifies no task can reach itself via predecessor edges.
func assertAcyclic(t *testing.T, p *domain.Project) {
	t.Helper()
	g := NewGraph(p)
	for _, start := range g.Outlines() {
		assert.Nil(t, g.findCycleFrom(start), "cycle still reachable from %s", start)
	}
}
